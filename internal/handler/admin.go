package handler

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/game"
	"gamebot/internal/model"
	"gamebot/internal/service"
)

// AdminHandler holds the operator-only commands. Access control is the
// admin middleware's job; handlers here assume the caller is allowed.
type AdminHandler struct {
	account *service.AccountService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(account *service.AccountService) *AdminHandler {
	return &AdminHandler{account: account}
}

// HandleGrant awards bronze coins to the replied-to user: /grant <amount>.
func (h *AdminHandler) HandleGrant(c tele.Context) error {
	target, ok := replyTarget(c)
	if !ok {
		return c.Reply("Reply to someone's message with /grant <amount>.")
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /grant <amount>")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount < 1 {
		return replyError(c, game.ErrInvalidInput)
	}

	ctx := context.Background()
	if _, _, err := h.account.EnsureUser(ctx, target.ID, senderName(target)); err != nil {
		return replyError(c, err)
	}
	if _, err := h.account.AwardBronze(ctx, target.ID, amount, model.TxTypeAdmin); err != nil {
		return replyError(c, err)
	}
	return c.Reply(fmt.Sprintf("🎁 Granted %d 🥉 to %s.", amount, senderName(target)))
}
