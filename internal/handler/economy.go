package handler

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/currency"
	"gamebot/internal/pkg/session"
	"gamebot/internal/service"
)

// Convert flow callback data. The pair payload is
// "up|src|dst|rate|label", mirrored in cmax/camt.
const (
	cbConvUp   = "conv_up"
	cbConvDown = "conv_down"
	cbConvBack = "conv_back"
	cbPair     = "cpair|"
	cbMax      = "cmax|"
	cbAmount   = "camt|"
)

// pendingConvert is a convert-by-amount flow waiting for the user to
// send a number.
type pendingConvert struct {
	Up     bool
	Src    string
	Dst    string
	Rate   int64
	Label  string
	ChatID int64
}

var firstNumber = regexp.MustCompile(`\d+`)

// title uppercases the first letter of a tier name for display.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// EconomyHandler handles /pay and the /convert flow.
type EconomyHandler struct {
	account  *service.AccountService
	transfer *service.TransferService
	convert  *service.ConvertService
	pending  *session.Store[int64, pendingConvert]
}

// NewEconomyHandler creates a new EconomyHandler.
func NewEconomyHandler(
	account *service.AccountService,
	transfer *service.TransferService,
	convert *service.ConvertService,
) *EconomyHandler {
	return &EconomyHandler{
		account:  account,
		transfer: transfer,
		convert:  convert,
		pending:  session.NewStore[int64, pendingConvert](),
	}
}

// HandlePay transfers bronze to the replied-to player.
func (h *EconomyHandler) HandlePay(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if _, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender)); err != nil {
		return replyError(c, err)
	}

	target, ok := replyTarget(c)
	if !ok {
		return c.Reply("Reply to someone's message with /pay <amount>.")
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /pay <amount> (as a reply)")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("Usage: /pay <amount> (as a reply)")
	}

	receiver, err := h.transfer.Pay(context.Background(), sender.ID, target.ID, amount)
	if err != nil {
		return replyError(c, err)
	}
	return c.Reply(fmt.Sprintf("💸 Sent %d 🥉 to %s.", amount, receiver.FirstName))
}

// HandleConvert opens the conversion direction menu.
func (h *EconomyHandler) HandleConvert(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if _, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender)); err != nil {
		return replyError(c, err)
	}
	return c.Reply("💱 Currency exchange", h.directionMenu())
}

func (h *EconomyHandler) directionMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("⬆️ Upgrade", cbConvUp)),
		markup.Row(markup.Data("⬇️ Downgrade", cbConvDown)),
	)
	return markup
}

type convPair struct {
	src, dst, label string
}

var upgradePairs = []convPair{
	{currency.TierBronze, currency.TierSilver, "Silver"},
	{currency.TierSilver, currency.TierGold, "Gold"},
	{currency.TierGold, currency.TierPlatinum, "Platinum"},
}

var downgradePairs = []convPair{
	{currency.TierPlatinum, currency.TierGold, "Gold"},
	{currency.TierGold, currency.TierSilver, "Silver"},
	{currency.TierSilver, currency.TierBronze, "Bronze"},
}

func pairMenu(up bool) *tele.ReplyMarkup {
	dir := "up"
	pairs := upgradePairs
	arrow := "⬆️"
	if !up {
		dir = "down"
		pairs = downgradePairs
		arrow = "⬇️"
	}

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, p := range pairs {
		payload := fmt.Sprintf("%s|%s|%s|%d|%s", dir, p.src, p.dst, currency.UpgradeRate, p.label)
		label := fmt.Sprintf("%s %s → %s", arrow, title(p.src), p.label)
		rows = append(rows, markup.Row(markup.Data(label, cbPair+payload)))
	}
	rows = append(rows, markup.Row(markup.Data("⬅️ Back", cbConvBack)))
	markup.Inline(rows...)
	return markup
}

// parsePairPayload decodes "up|src|dst|rate|label".
func parsePairPayload(s string) (pendingConvert, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 5 {
		return pendingConvert{}, fmt.Errorf("malformed convert payload %q", s)
	}
	rate, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return pendingConvert{}, fmt.Errorf("malformed convert rate %q", parts[3])
	}
	return pendingConvert{
		Up:    parts[0] == "up",
		Src:   parts[1],
		Dst:   parts[2],
		Rate:  rate,
		Label: parts[4],
	}, nil
}

// HandleConvertCallback routes all convert flow buttons.
func (h *EconomyHandler) HandleConvertCallback(c tele.Context) error {
	data := callbackData(c)
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	switch {
	case data == cbConvUp:
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit("⬆️ Upgrade which coins?", pairMenu(true))

	case data == cbConvDown:
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit("⬇️ Downgrade which coins?", pairMenu(false))

	case data == cbConvBack:
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit("💱 Currency exchange", h.directionMenu())

	case strings.HasPrefix(data, cbPair):
		p, err := parsePairPayload(strings.TrimPrefix(data, cbPair))
		if err != nil {
			return respondError(c, err)
		}
		payload := strings.TrimPrefix(data, cbPair)

		markup := &tele.ReplyMarkup{}
		markup.Inline(
			markup.Row(markup.Data("♻️ Convert Max", cbMax+payload)),
			markup.Row(markup.Data("🔢 Convert by Amount", cbAmount+payload)),
			markup.Row(markup.Data("⬅️ Back", cbConvBack)),
		)
		_ = c.Respond(&tele.CallbackResponse{})
		text := fmt.Sprintf("%s → %s at a rate of %d:1.", title(p.Src), p.Label, p.Rate)
		if !p.Up {
			text = fmt.Sprintf("%s → %s at a rate of 1:%d.", title(p.Src), p.Label, p.Rate)
		}
		return c.Edit(text, markup)

	case strings.HasPrefix(data, cbMax):
		p, err := parsePairPayload(strings.TrimPrefix(data, cbMax))
		if err != nil {
			return respondError(c, err)
		}

		out, err := h.convert.Max(context.Background(), sender.ID, p.Up, p.Src, p.Dst, p.Rate)
		if err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(convertResult(p, out))

	case strings.HasPrefix(data, cbAmount):
		p, err := parsePairPayload(strings.TrimPrefix(data, cbAmount))
		if err != nil {
			return respondError(c, err)
		}
		p.ChatID = c.Chat().ID
		h.pending.Put(sender.ID, p)

		_ = c.Respond(&tele.CallbackResponse{})
		unit := p.Label
		if p.Up {
			return c.Edit(fmt.Sprintf("How many %s do you want? Send a number.", unit))
		}
		return c.Edit(fmt.Sprintf("How many %s coins do you want to break into %s? Send a number.",
			title(p.Src), unit))
	}
	return nil
}

// MaybeHandleText consumes a pending convert-by-amount reply. Returns
// true when the message belonged to this flow.
func (h *EconomyHandler) MaybeHandleText(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}

	p, ok := h.pending.Get(sender.ID)
	if !ok || p.ChatID != c.Chat().ID {
		return false, nil
	}

	match := firstNumber.FindString(c.Text())
	if match == "" {
		return true, c.Reply("I need a number. Try again.")
	}
	amount, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return true, c.Reply("That number is too big.")
	}

	h.pending.Delete(sender.ID)
	out, err := h.convert.Amount(context.Background(), sender.ID, p.Up, p.Src, p.Dst, p.Rate, amount)
	if err != nil {
		return true, replyError(c, err)
	}
	return true, c.Reply(convertResult(p, out))
}

func convertResult(p pendingConvert, out service.ConvertOutcome) string {
	return fmt.Sprintf(
		"✅ Converted! You gained %d %s.\n%s left: %d · %s now: %d",
		out.Gained, p.Label, title(p.Src), out.SrcAfter, p.Label, out.DstAfter,
	)
}
