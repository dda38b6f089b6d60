package handler

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/game/wordchain"
	"gamebot/internal/pkg/session"
	"gamebot/internal/service"
)

// cbChainCat prefixes the category pick callback, e.g. "wc_cat:cities".
const cbChainCat = "wc_cat:"

// WordChainHandler runs the per-chat word chain game.
type WordChainHandler struct {
	account  *service.AccountService
	sessions *session.Store[int64, *wordchain.Session]
	rng      *rand.Rand
}

// NewWordChainHandler creates a new WordChainHandler.
func NewWordChainHandler(account *service.AccountService, rng *rand.Rand) *WordChainHandler {
	return &WordChainHandler{
		account:  account,
		sessions: session.NewStore[int64, *wordchain.Session](),
		rng:      rng,
	}
}

// HandleNew starts a chain by offering the category list.
func (h *WordChainHandler) HandleNew(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if _, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender)); err != nil {
		return replyError(c, err)
	}

	if _, ok := h.sessions.Get(c.Chat().ID); ok {
		return c.Reply("A word chain is already running here. Finish it or /end it.")
	}

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, cat := range wordchain.Categories {
		rows = append(rows, markup.Row(markup.Data(title(string(cat)), cbChainCat+string(cat))))
	}
	markup.Inline(rows...)
	return c.Reply("🔗 Word chain! Pick a category:", markup)
}

// HandleChainCallback starts the chain for the picked category.
func (h *WordChainHandler) HandleChainCallback(c tele.Context) error {
	data := callbackData(c)
	if !strings.HasPrefix(data, cbChainCat) {
		return nil
	}

	chatID := c.Chat().ID
	if _, ok := h.sessions.Get(chatID); ok {
		return c.Respond(&tele.CallbackResponse{Text: "Already running!", ShowAlert: true})
	}

	cat, err := wordchain.ParseCategory(strings.TrimPrefix(data, cbChainCat))
	if err != nil {
		return respondError(c, err)
	}

	s, seed, err := wordchain.NewSession(h.rng, cat)
	if err != nil {
		return respondError(c, err)
	}
	h.sessions.Put(chatID, s)

	_ = c.Respond(&tele.CallbackResponse{})
	return c.Edit(fmt.Sprintf(
		"🔗 Word chain · %s\nI start with: %s\nNext word must begin with %q. Go!",
		title(string(cat)), strings.ToUpper(seed), strings.ToUpper(s.LastLetter),
	))
}

// HandleEnd stops the chain.
func (h *WordChainHandler) HandleEnd(c tele.Context) error {
	s, ok := h.sessions.Take(c.Chat().ID)
	if !ok {
		return c.Reply("No word chain running here. Start one with /new.")
	}
	return c.Reply(fmt.Sprintf("🏁 Chain over after %d words. Nice!", s.UsedCount()))
}

// MaybeHandleText treats a single plain word as a chain submission.
// Returns true when the message was consumed.
func (h *WordChainHandler) MaybeHandleText(c tele.Context) (bool, error) {
	s, ok := h.sessions.Get(c.Chat().ID)
	if !ok {
		return false, nil
	}

	fields := strings.Fields(c.Text())
	if len(fields) != 1 {
		return false, nil
	}
	word := fields[0]
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false, nil
		}
	}

	next, reason, err := s.Submit(word)
	if err != nil {
		switch reason {
		case wordchain.RejectWrongLetter:
			return true, c.Reply(fmt.Sprintf("❌ It has to start with %q.", strings.ToUpper(s.LastLetter)))
		case wordchain.RejectUnknownWord:
			return true, c.Reply(fmt.Sprintf("❌ %q is not in the %s list.", word, s.Category))
		case wordchain.RejectUsedWord:
			return true, c.Reply(fmt.Sprintf("❌ %q was already played.", word))
		}
		return true, replyError(c, err)
	}
	return true, c.Reply(fmt.Sprintf("✅ %s! Next letter: %s", strings.ToUpper(word), strings.ToUpper(next)))
}
