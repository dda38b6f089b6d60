package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/game"
	"gamebot/internal/game/wordguess"
	"gamebot/internal/model"
	"gamebot/internal/pkg/session"
	"gamebot/internal/service"
)

// Word quiz callback data.
const (
	cbGuessDiff = "guess_diff:" // guess_diff:easy
	cbGuessHint = "guess_hint"
	cbGuessMode = "guess_mode"
	cbGuessNew  = "guess_new"
	cbGuessStop = "guess_stop"
)

// WordGuessHandler runs the per-chat word quiz.
type WordGuessHandler struct {
	account  *service.AccountService
	sessions *session.Store[int64, *wordguess.Session]
	rng      *rand.Rand
}

// NewWordGuessHandler creates a new WordGuessHandler.
func NewWordGuessHandler(account *service.AccountService, rng *rand.Rand) *WordGuessHandler {
	return &WordGuessHandler{
		account:  account,
		sessions: session.NewStore[int64, *wordguess.Session](),
		rng:      rng,
	}
}

// HandleGuess starts a quiz or re-shows the running one.
func (h *WordGuessHandler) HandleGuess(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if _, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender)); err != nil {
		return replyError(c, err)
	}

	if s, ok := h.sessions.Get(c.Chat().ID); ok {
		return c.Reply(h.boardText(s), h.boardKeyboard(s))
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🟢 Easy", cbGuessDiff+string(wordguess.Easy)),
		markup.Data("🟡 Medium", cbGuessDiff+string(wordguess.Medium)),
		markup.Data("🔴 Hard", cbGuessDiff+string(wordguess.Hard)),
	))
	return c.Reply("🎯 Word quiz! Pick a difficulty:", markup)
}

func (h *WordGuessHandler) boardText(s *wordguess.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Word Quiz · %s · %d letters\n", s.Difficulty, len(s.Word))
	fmt.Fprintf(&b, "Attempts %d/%d · Hints %d/%d\n",
		s.AttemptsUsed, s.MaxAttempts, s.HintsUsed, wordguess.MaxHints(s.Difficulty))

	if block := s.HistoryBlock(true); block != "" {
		b.WriteString("\n" + block + "\n")
	}
	if s.MeaningUnlocked() {
		fmt.Fprintf(&b, "\n💡 Meaning: %s\n", s.Hint.Meaning)
	}

	if s.AnswerMode {
		b.WriteString("\nType your guess right into the chat.")
	} else {
		b.WriteString("\nGuess with /answer <word>.")
	}
	return b.String()
}

func (h *WordGuessHandler) boardKeyboard(s *wordguess.Session) *tele.ReplyMarkup {
	mode := "🗣 Answer mode: OFF"
	if s.AnswerMode {
		mode = "🗣 Answer mode: ON"
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data(fmt.Sprintf("💡 Hint (%d 🥉)", wordguess.HintCost), cbGuessHint),
			markup.Data(mode, cbGuessMode),
		),
		markup.Row(
			markup.Data("🔁 New word", cbGuessNew),
			markup.Data("🛑 Stop", cbGuessStop),
		),
	)
	return markup
}

// HandleGuessCallback routes the quiz buttons.
func (h *WordGuessHandler) HandleGuessCallback(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	data := callbackData(c)
	chatID := c.Chat().ID

	if strings.HasPrefix(data, cbGuessDiff) {
		if _, ok := h.sessions.Get(chatID); ok {
			return c.Respond(&tele.CallbackResponse{Text: "A quiz is already running here.", ShowAlert: true})
		}

		diff, err := wordguess.ParseDifficulty(strings.TrimPrefix(data, cbGuessDiff))
		if err != nil {
			return respondError(c, err)
		}
		word, hint, err := wordguess.PickWord(h.rng, diff)
		if err != nil {
			return respondError(c, err)
		}

		s := wordguess.NewSession(diff, word, hint, sender.ID, time.Now().Unix())
		h.sessions.Put(chatID, s)
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(h.boardText(s), h.boardKeyboard(s))
	}

	s, ok := h.sessions.Get(chatID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "No quiz running here. Start one with /guess."})
	}

	switch data {
	case cbGuessHint:
		if s.HintsUsed >= wordguess.MaxHints(s.Difficulty) {
			return c.Respond(&tele.CallbackResponse{Text: "No hints left for this word.", ShowAlert: true})
		}
		if _, err := h.account.SpendBronze(context.Background(), sender.ID, wordguess.HintCost, model.TxTypeHint); err != nil {
			return respondError(c, err)
		}
		if _, err := s.BuyHint(h.rng); err != nil {
			// Refund if someone raced the last hint away.
			_, _ = h.account.AwardBronze(context.Background(), sender.ID, wordguess.HintCost, model.TxTypeHint)
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{Text: "Hint revealed!"})
		return c.Edit(h.boardText(s), h.boardKeyboard(s))

	case cbGuessMode:
		s.AnswerMode = !s.AnswerMode
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(h.boardText(s), h.boardKeyboard(s))

	case cbGuessNew:
		old := s.Word
		word, hint, err := wordguess.PickWord(h.rng, s.Difficulty)
		if err != nil {
			return respondError(c, err)
		}
		s.Reset(word, hint)
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(fmt.Sprintf("The word was %s. Fresh one dealt!\n\n%s",
			wordguess.FancyUpper(strings.ToUpper(old)), h.boardText(s)), h.boardKeyboard(s))

	case cbGuessStop:
		if sender.ID != s.StarterID {
			return c.Respond(&tele.CallbackResponse{Text: "Only the starter can stop the quiz.", ShowAlert: true})
		}
		h.sessions.Delete(chatID)
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(fmt.Sprintf("🛑 Quiz over. The word was %s.",
			wordguess.FancyUpper(strings.ToUpper(s.Word))))
	}
	return nil
}

// HandleStop ends the quiz via /stop. Only the starter may do it.
func (h *WordGuessHandler) HandleStop(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	chatID := c.Chat().ID
	s, ok := h.sessions.Get(chatID)
	if !ok {
		return c.Reply("No quiz running here. Start one with /guess.")
	}
	if sender.ID != s.StarterID {
		return c.Reply("Only the starter can stop the quiz.")
	}
	h.sessions.Delete(chatID)
	return c.Reply(fmt.Sprintf("🛑 Quiz over. The word was %s.",
		wordguess.FancyUpper(strings.ToUpper(s.Word))))
}

// HandleAnswer handles /answer <word>.
func (h *WordGuessHandler) HandleAnswer(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	s, ok := h.sessions.Get(c.Chat().ID)
	if !ok {
		return c.Reply("No quiz running here. Start one with /guess.")
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Usage: /answer <word>")
	}
	if !s.CanAnswer(sender.ID, time.Now().Unix()) {
		return c.Reply("⏱ Easy! One guess every couple of seconds.")
	}
	return h.submitGuess(c, s, args[0])
}

// MaybeHandleText treats plain chat text as a guess while answer mode is
// on. Returns true when the message was consumed.
func (h *WordGuessHandler) MaybeHandleText(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}

	s, ok := h.sessions.Get(c.Chat().ID)
	if !ok || !s.AnswerMode {
		return false, nil
	}

	fields := strings.Fields(c.Text())
	if len(fields) != 1 || !isAlphabetic(fields[0]) {
		return false, nil
	}
	if !s.CanAnswer(sender.ID, time.Now().Unix()) {
		return true, nil
	}
	return true, h.submitGuess(c, s, fields[0])
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func (h *WordGuessHandler) submitGuess(c tele.Context, s *wordguess.Session, word string) error {
	sender := c.Sender()
	chatID := c.Chat().ID

	outcome, err := s.ApplyGuess(word)
	if err != nil {
		if errors.Is(err, game.ErrInvalidInput) {
			return c.Reply(fmt.Sprintf("❌ I need a %d-letter word from the %s pool.", len(s.Word), s.Difficulty))
		}
		return replyError(c, err)
	}

	switch outcome {
	case wordguess.OutcomeCorrect:
		reward := wordguess.Reward(h.rng, s.Difficulty, s.AttemptsUsed)
		if _, err := h.account.AwardBronze(context.Background(), sender.ID, reward, model.TxTypeGuess); err != nil {
			return replyError(c, err)
		}

		text := fmt.Sprintf("🎉 %s got it! The word was %s.\n+%d 🥉 in %d attempts.\n💡 %s: %q",
			senderName(sender), wordguess.FancyUpper(strings.ToUpper(s.Word)),
			reward, s.AttemptsUsed, s.Hint.Meaning, s.Hint.Example)

		word, hint, err := wordguess.PickWord(h.rng, s.Difficulty)
		if err != nil {
			h.sessions.Delete(chatID)
			return c.Reply(text)
		}
		s.Reset(word, hint)
		if err := c.Reply(text); err != nil {
			return err
		}
		return c.Reply(h.boardText(s), h.boardKeyboard(s))

	case wordguess.OutcomeExhausted:
		text := fmt.Sprintf("😵 Out of attempts! The word was %s.\n💡 %s: %q",
			wordguess.FancyUpper(strings.ToUpper(s.Word)), s.Hint.Meaning, s.Hint.Example)

		word, hint, err := wordguess.PickWord(h.rng, s.Difficulty)
		if err != nil {
			h.sessions.Delete(chatID)
			return c.Reply(text)
		}
		s.Reset(word, hint)
		if err := c.Reply(text); err != nil {
			return err
		}
		return c.Reply(h.boardText(s), h.boardKeyboard(s))

	default:
		return c.Reply(h.boardText(s), h.boardKeyboard(s))
	}
}
