package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/game"
	"gamebot/internal/game/tictactoe"
	"gamebot/internal/model"
	"gamebot/internal/pkg/session"
	"gamebot/internal/service"
)

const (
	cbXoxoAccept  = "xoxo_accept"
	cbXoxoDecline = "xoxo_decline"
	cbXoxoChange  = "xoxo_change"
	cbXoxoCancel  = "xoxo_cancel"
	cbXoxoCell    = "xoxo_cell:" // xoxo_cell:4
	cbXoxoNoop    = "xoxo_noop"
)

// chatUserKey addresses per-user state within one chat, used while the
// challenger is typing a replacement stake.
type chatUserKey struct {
	ChatID int64
	UserID int64
}

// TicTacToeHandler runs bet tic-tac-toe matches anchored to bot messages.
type TicTacToeHandler struct {
	account    *service.AccountService
	challenges *session.Store[session.ChatMessageKey, tictactoe.Challenge]
	matches    *session.Store[session.ChatMessageKey, *tictactoe.Match]
	betWait    *session.Store[chatUserKey, session.ChatMessageKey]
}

// NewTicTacToeHandler creates a new TicTacToeHandler.
func NewTicTacToeHandler(account *service.AccountService) *TicTacToeHandler {
	return &TicTacToeHandler{
		account:    account,
		challenges: session.NewStore[session.ChatMessageKey, tictactoe.Challenge](),
		matches:    session.NewStore[session.ChatMessageKey, *tictactoe.Match](),
		betWait:    session.NewStore[chatUserKey, session.ChatMessageKey](),
	}
}

// HandleXoxo posts a challenge card for /xoxo <bet>.
func (h *TicTacToeHandler) HandleXoxo(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	u, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	if err != nil {
		return replyError(c, err)
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /xoxo <bet>")
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet < 1 {
		return replyError(c, game.ErrInvalidInput)
	}
	if u.Bronze < bet {
		return replyError(c, game.ErrInsufficientBalance)
	}

	ch := tictactoe.Challenge{CreatorID: sender.ID, CreatorName: senderName(sender), Bet: bet}
	msg, err := c.Bot().Send(c.Chat(), challengeText(ch), challengeKeyboard())
	if err != nil {
		return err
	}
	h.challenges.Put(session.ChatMessageKey{ChatID: c.Chat().ID, MessageID: msg.ID}, ch)
	return nil
}

func challengeText(ch tictactoe.Challenge) string {
	return fmt.Sprintf("❌⭕ %s challenges the chat to tic-tac-toe!\nStake: %d 🥉 each, winner takes %d.",
		ch.CreatorName, ch.Bet, ch.Bet*2)
}

func challengeKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("✅ Accept", cbXoxoAccept),
			markup.Data("❌ Decline", cbXoxoDecline),
		),
		markup.Row(
			markup.Data("✏️ Change bet", cbXoxoChange),
			markup.Data("🗑 Cancel", cbXoxoCancel),
		),
	)
	return markup
}

// HandleXoxoCallback routes every xoxo_* button press.
func (h *TicTacToeHandler) HandleXoxoCallback(c tele.Context) error {
	data := callbackData(c)
	msg := c.Callback().Message
	if msg == nil {
		return nil
	}
	key := session.ChatMessageKey{ChatID: msg.Chat.ID, MessageID: msg.ID}

	switch {
	case data == cbXoxoNoop:
		return c.Respond(&tele.CallbackResponse{})
	case strings.HasPrefix(data, cbXoxoCell):
		return h.handleMove(c, key, strings.TrimPrefix(data, cbXoxoCell))
	case data == cbXoxoAccept:
		return h.handleAccept(c, key)
	case data == cbXoxoDecline:
		return h.handleDecline(c, key)
	case data == cbXoxoCancel:
		return h.handleCancel(c, key)
	case data == cbXoxoChange:
		return h.handleChange(c, key)
	}
	return nil
}

func (h *TicTacToeHandler) handleAccept(c tele.Context, key session.ChatMessageKey) error {
	sender := c.Sender()
	ch, ok := h.challenges.Get(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This challenge is gone.", ShowAlert: true})
	}
	if sender.ID == ch.CreatorID {
		return c.Respond(&tele.CallbackResponse{Text: "You can't accept your own challenge.", ShowAlert: true})
	}

	ctx := context.Background()
	if _, _, err := h.account.EnsureUser(ctx, sender.ID, senderName(sender)); err != nil {
		return respondError(c, err)
	}

	// Collect both stakes up front. The pot is paid back out on the
	// result, so a failed second debit must refund the first.
	if _, err := h.account.SpendBronze(ctx, ch.CreatorID, ch.Bet, model.TxTypeXoxo); err != nil {
		return respondError(c, err)
	}
	if _, err := h.account.SpendBronze(ctx, sender.ID, ch.Bet, model.TxTypeXoxo); err != nil {
		_, _ = h.account.AwardBronze(ctx, ch.CreatorID, ch.Bet, model.TxTypeXoxo)
		return respondError(c, err)
	}

	h.challenges.Delete(key)
	m := tictactoe.NewMatch(ch, sender.ID, senderName(sender))
	h.matches.Put(key, m)

	_ = c.Respond(&tele.CallbackResponse{Text: "Game on!"})
	return c.Edit(matchText(m), boardKeyboardFor(m, true))
}

func (h *TicTacToeHandler) handleDecline(c tele.Context, key session.ChatMessageKey) error {
	ch, ok := h.challenges.Get(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This challenge is gone.", ShowAlert: true})
	}
	if c.Sender().ID == ch.CreatorID {
		return c.Respond(&tele.CallbackResponse{Text: "Use Cancel to withdraw it.", ShowAlert: true})
	}
	h.challenges.Delete(key)
	_ = c.Respond(&tele.CallbackResponse{})
	return c.Edit(fmt.Sprintf("🙅 %s declined the tic-tac-toe challenge.", senderName(c.Sender())))
}

func (h *TicTacToeHandler) handleCancel(c tele.Context, key session.ChatMessageKey) error {
	ch, ok := h.challenges.Get(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This challenge is gone.", ShowAlert: true})
	}
	if c.Sender().ID != ch.CreatorID {
		return c.Respond(&tele.CallbackResponse{Text: "Only the challenger can cancel.", ShowAlert: true})
	}
	h.challenges.Delete(key)
	h.betWait.Delete(chatUserKey{ChatID: key.ChatID, UserID: ch.CreatorID})
	_ = c.Respond(&tele.CallbackResponse{})
	return c.Edit("🗑 Challenge withdrawn.")
}

func (h *TicTacToeHandler) handleChange(c tele.Context, key session.ChatMessageKey) error {
	ch, ok := h.challenges.Get(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This challenge is gone.", ShowAlert: true})
	}
	if c.Sender().ID != ch.CreatorID {
		return c.Respond(&tele.CallbackResponse{Text: "Only the challenger can change the bet.", ShowAlert: true})
	}
	h.betWait.Put(chatUserKey{ChatID: key.ChatID, UserID: ch.CreatorID}, key)
	return c.Respond(&tele.CallbackResponse{Text: "Send the new bet as a plain number.", ShowAlert: true})
}

// MaybeHandleText consumes a number from a challenger who pressed the
// change-bet button. Returns true when the message was consumed.
func (h *TicTacToeHandler) MaybeHandleText(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}
	waitKey := chatUserKey{ChatID: c.Chat().ID, UserID: sender.ID}
	key, ok := h.betWait.Get(waitKey)
	if !ok {
		return false, nil
	}

	bet, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return false, nil
	}
	h.betWait.Delete(waitKey)

	ch, ok := h.challenges.Get(key)
	if !ok {
		return true, c.Reply("That challenge is gone.")
	}
	if bet < 1 {
		return true, replyError(c, game.ErrInvalidInput)
	}
	ch.Bet = bet
	h.challenges.Put(key, ch)

	_, err = c.Bot().Edit(
		&tele.StoredMessage{ChatID: key.ChatID, MessageID: strconv.Itoa(key.MessageID)},
		challengeText(ch), challengeKeyboard(),
	)
	if err != nil {
		return true, err
	}
	return true, c.Reply(fmt.Sprintf("✏️ Stake changed to %d 🥉.", bet))
}

func (h *TicTacToeHandler) handleMove(c tele.Context, key session.ChatMessageKey, idxArg string) error {
	m, ok := h.matches.Get(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This match is over.", ShowAlert: true})
	}
	idx, err := strconv.Atoi(idxArg)
	if err != nil {
		return respondError(c, game.ErrInvalidMove)
	}

	sender := c.Sender()
	if !m.IsPlayer(sender.ID) {
		return c.Respond(&tele.CallbackResponse{Text: "You're not in this match.", ShowAlert: true})
	}

	res, err := m.ApplyMove(sender.ID, idx)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Not your move.", ShowAlert: true})
	}

	ctx := context.Background()
	switch res.Outcome {
	case tictactoe.WinX, tictactoe.WinO:
		h.matches.Delete(key)
		if _, err := h.account.AwardBronze(ctx, res.WinnerID, m.Pot, model.TxTypeXoxo); err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			matchText(m)+fmt.Sprintf("\n🏆 %s wins %d 🥉!", res.WinnerName, m.Pot),
			boardKeyboardFor(m, false),
		)
	case tictactoe.Draw:
		h.matches.Delete(key)
		if _, err := h.account.AwardBronze(ctx, m.PlayerXID, m.Bet, model.TxTypeXoxo); err != nil {
			return respondError(c, err)
		}
		if _, err := h.account.AwardBronze(ctx, m.PlayerOID, m.Bet, model.TxTypeXoxo); err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(matchText(m)+"\n🤝 Draw. Stakes returned.", boardKeyboardFor(m, false))
	}

	_ = c.Respond(&tele.CallbackResponse{})
	return c.Edit(matchText(m), boardKeyboardFor(m, true))
}

func matchText(m *tictactoe.Match) string {
	header := fmt.Sprintf("❌⭕ %s (X) vs %s (O) · pot %d 🥉", m.PlayerXName, m.PlayerOName, m.Pot)
	if m.Finished {
		return header
	}
	return header + fmt.Sprintf("\nTurn: %s", m.TurnName())
}

func cellLabel(s tictactoe.Symbol) string {
	switch s {
	case tictactoe.X:
		return "❌"
	case tictactoe.O:
		return "⭕"
	}
	return "·"
}

// boardKeyboardFor renders the 3x3 grid. While live is true empty cells
// carry move callbacks; a finished board is inert.
func boardKeyboardFor(m *tictactoe.Match, live bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for r := 0; r < 3; r++ {
		var row tele.Row
		for col := 0; col < 3; col++ {
			idx := r*3 + col
			cell := m.Board[idx]
			if live && cell == tictactoe.Empty {
				row = append(row, markup.Data(cellLabel(cell), cbXoxoCell+strconv.Itoa(idx)))
			} else {
				row = append(row, markup.Data(cellLabel(cell), cbXoxoNoop))
			}
		}
		rows = append(rows, row)
	}
	markup.Inline(rows...)
	return markup
}
