package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/currency"
	"gamebot/internal/game/mine"
	"gamebot/internal/model"
	"gamebot/internal/service"
)

// Home menu callback data.
const (
	cbHomeDaily   = "home_daily"
	cbHomeProfile = "home_profile"
	cbHomeTop     = "home_top"
)

// AccountHandler handles /start, /profile and /daily.
type AccountHandler struct {
	account *service.AccountService
	boards  *service.LeaderboardService
	botName string
}

// NewAccountHandler creates a new AccountHandler. botName is the bot's
// username, used for deep links back into the DM.
func NewAccountHandler(account *service.AccountService, boards *service.LeaderboardService, botName string) *AccountHandler {
	return &AccountHandler{account: account, boards: boards, botName: botName}
}

func senderName(u *tele.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// HandleStart creates the profile and shows the home menu in DM, or a
// deep-link button in groups. Deep-link payloads "daily" and "help" are
// honoured.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	_, created, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	if err != nil {
		return replyError(c, err)
	}

	if c.Chat().Type != tele.ChatPrivate {
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.URL("📩 Open me in DM", fmt.Sprintf("https://t.me/%s?start=help", h.botName)),
		))
		return c.Reply("👋 I live in your DMs too. Tap below to get started.", markup)
	}

	if c.Message() != nil && c.Message().Payload == "daily" {
		return h.HandleDaily(c)
	}

	greeting := fmt.Sprintf("👋 Welcome back, %s!", senderName(sender))
	if created {
		greeting = fmt.Sprintf("🎉 Welcome, %s! Your profile is ready.", senderName(sender))
	}

	return c.Send(greeting+"\n\n"+commandDirectory, h.homeMenu())
}

const commandDirectory = "🎮 Games: /flip /roll /bet /spin /guess /xoxo\n" +
	"🔗 Word chain: /new /end\n" +
	"⛏ Grind: /mine /sell /work /fight /rob\n" +
	"💱 Economy: /pay /convert /shop /equip\n" +
	"📊 /profile · /leaderboard · /daily"

// HandleHelp prints the command directory. In groups it links to the DM
// instead of pasting the full list.
func (h *AccountHandler) HandleHelp(c tele.Context) error {
	if c.Chat().Type != tele.ChatPrivate {
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.URL("📩 Full help in DM", fmt.Sprintf("https://t.me/%s?start=help", h.botName)),
		))
		return c.Reply("The full command list lives in my DM.", markup)
	}
	return c.Send(commandDirectory, h.homeMenu())
}

func (h *AccountHandler) homeMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🎁 Daily Bonus", cbHomeDaily)),
		markup.Row(
			markup.Data("👤 Profile", cbHomeProfile),
			markup.Data("🏆 Leaderboards", cbHomeTop),
		),
	)
	return markup
}

// HandleHomeCallback routes the home menu buttons.
func (h *AccountHandler) HandleHomeCallback(c tele.Context) error {
	switch callbackData(c) {
	case cbHomeDaily:
		_ = c.Respond(&tele.CallbackResponse{})
		return h.HandleDaily(c)
	case cbHomeProfile:
		_ = c.Respond(&tele.CallbackResponse{})
		return h.HandleProfile(c)
	case cbHomeTop:
		_ = c.Respond(&tele.CallbackResponse{})
		return h.sendLeaderboards(c)
	}
	return nil
}

// HandleDaily claims the daily bonus. In groups it only points at the DM
// so the claim animation does not spam the chat.
func (h *AccountHandler) HandleDaily(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if c.Chat().Type != tele.ChatPrivate {
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.URL("🎁 Claim in DM", fmt.Sprintf("https://t.me/%s?start=daily", h.botName)),
		))
		return c.Reply("The daily bonus is claimed in DM.", markup)
	}

	reward, _, err := h.account.ClaimDaily(context.Background(), sender.ID)
	if err != nil {
		return replyError(c, err)
	}
	return c.Send(fmt.Sprintf("🎁 Daily bonus claimed: +%d 🥉 bronze!\nCome back tomorrow.", reward))
}

// HandleProfile renders the full profile card.
func (h *AccountHandler) HandleProfile(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	u, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	if err != nil {
		return replyError(c, err)
	}
	return c.Reply(formatProfile(u))
}

func formatProfile(u *model.UserAccount) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 %s\n\n", u.FirstName)
	fmt.Fprintf(&b, "🖤 Black Gold: %d\n", u.BlackGold)
	fmt.Fprintf(&b, "💠 Platinum: %d\n", u.Platinum)
	fmt.Fprintf(&b, "🥇 Gold: %d\n", u.Gold)
	fmt.Fprintf(&b, "🥈 Silver: %d\n", u.Silver)
	fmt.Fprintf(&b, "🥉 Bronze: %d\n", u.Bronze)
	fmt.Fprintf(&b, "💰 Total value: %d\n\n", currency.ProfileValue(u))

	fmt.Fprintf(&b, "✉️ Messages: %d\n", u.Messages)
	fmt.Fprintf(&b, "🛠 Jobs done: %d\n", u.WorkDone)
	fmt.Fprintf(&b, "⚔️ Fight wins: %d\n", u.FightWins)
	fmt.Fprintf(&b, "🦹 Robberies: %d ok / %d failed\n", u.RobSuccess, u.RobFail)

	if u.Equipped != "" {
		if tool, ok := mine.ToolByName(u.Equipped); ok {
			fmt.Fprintf(&b, "⛏ Equipped: %s Pickaxe (power %d, durability %d)\n", tool.Name, tool.Power, tool.Durability)
		}
	}

	if len(u.Ores) > 0 {
		names := make([]string, 0, len(u.Ores))
		for name, n := range u.Ores {
			if n > 0 {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s ×%d", name, u.Ores[name]))
		}
		fmt.Fprintf(&b, "📦 Ores: %s\n", strings.Join(parts, ", "))
	}
	if len(u.Items) > 0 {
		fmt.Fprintf(&b, "🎒 Items: %s\n", strings.Join(u.Items, ", "))
	}
	if len(u.Badges) > 0 {
		fmt.Fprintf(&b, "🎖 Badges: %s\n", strings.Join(u.Badges, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// HandleLeaderboard shows both top-10 boards.
func (h *AccountHandler) HandleLeaderboard(c tele.Context) error {
	return h.sendLeaderboards(c)
}

func (h *AccountHandler) sendLeaderboards(c tele.Context) error {
	ctx := context.Background()

	rich, err := h.boards.TopByWealth(ctx)
	if err != nil {
		return replyError(c, err)
	}
	chatty, err := h.boards.TopByMessages(ctx)
	if err != nil {
		return replyError(c, err)
	}

	var b strings.Builder
	b.WriteString("🏆 Top Wealth\n")
	for i, u := range rich {
		fmt.Fprintf(&b, "%d. %s · %d\n", i+1, u.FirstName, currency.WalletValue(u))
		if u.BlackGold > 0 {
			fmt.Fprintf(&b, "    🖤 %d black gold\n", u.BlackGold)
		}
	}
	if len(rich) == 0 {
		b.WriteString("Nobody yet.\n")
	}
	b.WriteString("\n💬 Top Chatters\n")
	for i, u := range chatty {
		fmt.Fprintf(&b, "%d. %s · %d messages\n", i+1, u.FirstName, u.Messages)
	}
	if len(chatty) == 0 {
		b.WriteString("Nobody yet.\n")
	}
	return c.Send(strings.TrimRight(b.String(), "\n"))
}
