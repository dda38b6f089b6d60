package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/game/flip"
	"gamebot/internal/game/spin"
	"gamebot/internal/service"
)

// Game callback prefixes.
const (
	cbFlip = "flip:" // flip:heads
	cbSpin = "spin:" // spin:red
)

// GamesHandler handles the single-command economy games.
type GamesHandler struct {
	account *service.AccountService
	games   *service.GameService
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(account *service.AccountService, games *service.GameService) *GamesHandler {
	return &GamesHandler{account: account, games: games}
}

func (h *GamesHandler) ensureSender(c tele.Context) (int64, error) {
	sender := c.Sender()
	if sender == nil {
		return 0, fmt.Errorf("no sender")
	}
	_, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	return sender.ID, err
}

// HandleFlip offers the heads/tails pick.
func (h *GamesHandler) HandleFlip(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}
	if err := h.games.FlipReady(context.Background(), userID); err != nil {
		return replyError(c, err)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🪙 Heads", cbFlip+string(flip.Heads)),
		markup.Data("🪙 Tails", cbFlip+string(flip.Tails)),
	))
	return c.Reply("Heads or tails?", markup)
}

// HandleFlipCallback settles a flip pick.
func (h *GamesHandler) HandleFlipCallback(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return respondError(c, err)
	}

	side, err := flip.ParseSide(strings.TrimPrefix(callbackData(c), cbFlip))
	if err != nil {
		return respondError(c, err)
	}

	res, err := h.games.Flip(context.Background(), userID, side)
	if err != nil {
		return respondError(c, err)
	}

	_ = c.Respond(&tele.CallbackResponse{})
	name := senderName(c.Sender())
	if res.Won {
		return c.Edit(fmt.Sprintf("🪙 It landed %s!\n%s guessed right and won %d 🥉.", res.Actual, name, res.Amount))
	}
	return c.Edit(fmt.Sprintf("🪙 It landed %s.\n%s guessed %s and lost %d 🥉.", res.Actual, name, side, res.Amount))
}

// HandleRoll throws the dice animation and pays per pip.
func (h *GamesHandler) HandleRoll(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}

	m, err := c.Bot().Send(c.Chat(), tele.Cube)
	if err != nil {
		return replyError(c, err)
	}

	reward, err := h.games.Roll(context.Background(), userID, int64(m.Dice.Value))
	if err != nil {
		return replyError(c, err)
	}
	return c.Reply(fmt.Sprintf("🎲 You rolled a %d and earned %d 🥉!", m.Dice.Value, reward))
}

// HandleBet wagers bronze on a 50/50. "*" bets everything.
func (h *GamesHandler) HandleBet(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /bet <amount> or /bet *")
	}

	res, err := h.games.Bet(context.Background(), userID, args[0])
	if err != nil {
		return replyError(c, err)
	}
	if res.Won {
		return c.Reply(fmt.Sprintf("🎉 You won! +%d 🥉", res.Delta))
	}
	return c.Reply(fmt.Sprintf("💥 You lost %d 🥉. Better luck next time.", res.Stake))
}

// HandleSpin offers the colour wheel.
func (h *GamesHandler) HandleSpin(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}
	if err := h.games.SpinReady(context.Background(), userID); err != nil {
		return replyError(c, err)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("🔴 Red", cbSpin+string(spin.Red)),
			markup.Data("⚫ Black", cbSpin+string(spin.Black)),
		),
		markup.Row(
			markup.Data("🟢 Green", cbSpin+string(spin.Green)),
			markup.Data("🔵 Blue", cbSpin+string(spin.Blue)),
		),
	)
	return c.Reply("🎡 Pick a colour:", markup)
}

// HandleSpinCallback settles a wheel spin.
func (h *GamesHandler) HandleSpinCallback(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return respondError(c, err)
	}

	pick, err := spin.ParseColour(strings.TrimPrefix(callbackData(c), cbSpin))
	if err != nil {
		return respondError(c, err)
	}

	res, err := h.games.Spin(context.Background(), userID, pick)
	if err != nil {
		return respondError(c, err)
	}

	_ = c.Respond(&tele.CallbackResponse{})
	name := senderName(c.Sender())
	landed := fmt.Sprintf("🎡 The wheel stopped on %d (%s).", res.Value, res.Actual)
	if res.Won {
		text := fmt.Sprintf("%s\n%s won %d 🥉!", landed, name, res.Amount)
		if res.Streak >= 2 {
			text += fmt.Sprintf(" 🔥 Win streak: %d", res.Streak)
		}
		return c.Edit(text)
	}
	return c.Edit(fmt.Sprintf("%s\n%s picked %s and lost %d 🥉.", landed, name, pick, res.Amount))
}

// HandleWork runs a job.
func (h *GamesHandler) HandleWork(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}

	res, err := h.games.Work(context.Background(), userID)
	if err != nil {
		return replyError(c, err)
	}

	text := fmt.Sprintf("%s\nYou earned %d 🥉.", res.Task, res.Reward)
	if res.BadgeEarned {
		text += "\n🎖 New badge: 🛠️ Work Master!"
	}
	return c.Reply(text)
}

// replyTarget resolves the user a reply-based command points at.
func replyTarget(c tele.Context) (*tele.User, bool) {
	m := c.Message()
	if m == nil || m.ReplyTo == nil || m.ReplyTo.Sender == nil {
		return nil, false
	}
	target := m.ReplyTo.Sender
	if target.IsBot {
		return nil, false
	}
	return target, true
}

// HandleFight fights the replied-to player.
func (h *GamesHandler) HandleFight(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}

	target, ok := replyTarget(c)
	if !ok {
		return c.Reply("Reply to someone's message with /fight to challenge them.")
	}

	res, err := h.games.Fight(context.Background(), userID, target.ID)
	if err != nil {
		return replyError(c, err)
	}
	return c.Reply(fmt.Sprintf(
		"⚔️ %s (%d power) vs %s (%d power)\n🏆 %s wins and takes %d 🥉 from %s!",
		senderName(c.Sender()), res.AttackerPower, target.FirstName, res.DefenderPower,
		res.WinnerName, res.Amount, res.LoserName,
	))
}

// HandleRob robs the replied-to player.
func (h *GamesHandler) HandleRob(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}

	target, ok := replyTarget(c)
	if !ok {
		return c.Reply("Reply to someone's message with /rob to rob them.")
	}

	res, err := h.games.Rob(context.Background(), userID, target.ID)
	if err != nil {
		return replyError(c, err)
	}
	if res.Success {
		return c.Reply(fmt.Sprintf("🦹 Success! You stole %d %s from %s.", res.Amount, res.Tier, res.VictimName))
	}
	return c.Reply(fmt.Sprintf("🚓 Caught! You dropped %d 🥉 running away from %s.", res.Amount, res.VictimName))
}

// HandleMine swings the pickaxe.
func (h *GamesHandler) HandleMine(c tele.Context) error {
	userID, err := h.ensureSender(c)
	if err != nil {
		return replyError(c, err)
	}

	ore, amount, err := h.games.Mine(context.Background(), userID)
	if err != nil {
		return replyError(c, err)
	}
	return c.Reply(fmt.Sprintf("⛏ You mined %d× %s!", amount, ore))
}
