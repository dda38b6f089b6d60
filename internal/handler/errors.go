// Package handler implements the Telegram command and callback handlers.
package handler

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"gamebot/internal/currency"
	"gamebot/internal/game"
	"gamebot/internal/game/robbery"
)

// errorMessage converts a service or engine error into the text shown to
// the player. Unknown errors are logged and collapsed into a generic
// apology so internals never leak into chat.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrCooldownActive):
		msg := strings.TrimSuffix(err.Error(), ": "+game.ErrCooldownActive.Error())
		return "⏳ " + msg
	case errors.Is(err, currency.ErrNothingToConvert):
		return "Nothing to convert."
	case errors.Is(err, game.ErrInsufficientBalance), errors.Is(err, currency.ErrInsufficientBalance):
		return "💸 Not enough coins for that."
	case errors.Is(err, game.ErrInvalidInput):
		return "🤔 That doesn't look right. Check the command and try again."
	case errors.Is(err, game.ErrInvalidMove):
		return "🚫 You can't do that."
	case errors.Is(err, robbery.ErrNoLoot):
		return "😶 They have no coins to steal."
	case errors.Is(err, game.ErrNotFound):
		return "🔍 Nothing found."
	default:
		log.Error().Err(err).Msg("handler failure")
		return "⚠️ Something went wrong, please try again later."
	}
}

// replyError answers a command with the mapped error text.
func replyError(c tele.Context, err error) error {
	return c.Reply(errorMessage(err))
}

// respondError answers a callback tap with the mapped error text as an
// alert popup, leaving the original message untouched.
func respondError(c tele.Context, err error) error {
	return c.Respond(&tele.CallbackResponse{Text: errorMessage(err), ShowAlert: true})
}

// callbackData strips telebot's \f prefix from raw callback data.
func callbackData(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	return strings.TrimPrefix(cb.Data, "\f")
}
