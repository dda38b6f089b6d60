package wordguess

import (
	"math/rand"
	"strings"

	"gamebot/internal/game"
)

// Difficulty selects a word pool and its attempt and hint limits.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// HintCost is the bronze price of one purchased letter hint.
const HintCost = 20

// AnswerThrottle is the minimum gap in seconds between guesses from
// the same user.
const AnswerThrottle = 2

// rewardFloor is the minimum payout for a solved quiz.
const rewardFloor = 5

type rules struct {
	attempts  int
	hints     int
	penalty   int64
	rewardMin int64
	rewardMax int64
}

var rulesByDifficulty = map[Difficulty]rules{
	Easy:   {attempts: 8, hints: 2, penalty: 2, rewardMin: 20, rewardMax: 50},
	Medium: {attempts: 7, hints: 3, penalty: 3, rewardMin: 40, rewardMax: 100},
	Hard:   {attempts: 6, hints: 4, penalty: 5, rewardMin: 80, rewardMax: 150},
}

// ParseDifficulty maps a user-facing difficulty name to its constant.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(s)) {
	case Easy:
		return Easy, nil
	case Medium:
		return Medium, nil
	case Hard:
		return Hard, nil
	}
	return "", game.ErrInvalidInput
}

// MaxAttempts returns the guess cap for a difficulty.
func MaxAttempts(d Difficulty) int {
	return rulesByDifficulty[d].attempts
}

// MaxHints returns how many letter hints may be bought per quiz.
func MaxHints(d Difficulty) int {
	return rulesByDifficulty[d].hints
}

// Reward rolls the payout for a solved quiz. The base reward shrinks
// per attempt after the first and never drops below the floor.
func Reward(rng *rand.Rand, d Difficulty, attemptsUsed int) int64 {
	r := rulesByDifficulty[d]
	base := r.rewardMin + rng.Int63n(r.rewardMax-r.rewardMin+1)
	extra := int64(attemptsUsed - 1)
	if extra < 0 {
		extra = 0
	}
	reward := base - extra*r.penalty
	if reward < rewardFloor {
		reward = rewardFloor
	}
	return reward
}

// GuessRecord is one answered guess with its rendered feedback row.
type GuessRecord struct {
	Guess    string
	Feedback string
}

// Session is the live quiz state for one chat. One session per chat.
type Session struct {
	Difficulty   Difficulty
	Word         string
	Hint         Hint
	StarterID    int64
	AnswerMode   bool
	StartedAt    int64
	AttemptsUsed int
	MaxAttempts  int
	History      []GuessRecord
	HintsUsed    int
	HintRows     []string
	// lastAnswerAt throttles guesses per user.
	lastAnswerAt map[int64]int64
}

// NewSession starts a quiz over the given word.
func NewSession(d Difficulty, word string, hint Hint, starterID, now int64) *Session {
	return &Session{
		Difficulty:   d,
		Word:         strings.ToLower(word),
		Hint:         hint,
		StarterID:    starterID,
		StartedAt:    now,
		MaxAttempts:  MaxAttempts(d),
		lastAnswerAt: make(map[int64]int64),
	}
}

// Reset swaps in a fresh word at the same difficulty, clearing all
// per-word progress.
func (s *Session) Reset(word string, hint Hint) {
	s.Word = strings.ToLower(word)
	s.Hint = hint
	s.AnswerMode = false
	s.AttemptsUsed = 0
	s.History = nil
	s.HintsUsed = 0
	s.HintRows = nil
}

// CanAnswer reports whether the user may guess now and records the
// attempt timestamp when allowed.
func (s *Session) CanAnswer(userID, now int64) bool {
	if now-s.lastAnswerAt[userID] < AnswerThrottle {
		return false
	}
	s.lastAnswerAt[userID] = now
	return true
}

// GuessOutcome classifies the result of one guess.
type GuessOutcome int

const (
	// OutcomeWrong means the guess was accepted but incorrect.
	OutcomeWrong GuessOutcome = iota
	// OutcomeCorrect means the quiz was solved.
	OutcomeCorrect
	// OutcomeExhausted means the wrong guess used the last attempt.
	OutcomeExhausted
)

// ApplyGuess validates and records a guess. The dictionary check uses
// the session's difficulty pool; a word of the wrong length or outside
// the pool fails with ErrInvalidInput and consumes no attempt.
func (s *Session) ApplyGuess(guess string) (GuessOutcome, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != len(s.Word) {
		return 0, game.ErrInvalidInput
	}
	if !InPool(s.Difficulty, guess) {
		return 0, game.ErrInvalidInput
	}

	s.AttemptsUsed++
	feedback := Render(Feedback(guess, s.Word))
	s.History = append(s.History, GuessRecord{Guess: strings.ToUpper(guess), Feedback: feedback})

	if guess == s.Word {
		return OutcomeCorrect, nil
	}
	if s.AttemptsUsed >= s.MaxAttempts {
		return OutcomeExhausted, nil
	}
	return OutcomeWrong, nil
}

// BuyHint records a purchased hint row. The caller charges the bronze
// cost; this only enforces the per-difficulty hint cap.
func (s *Session) BuyHint(rng *rand.Rand) (string, error) {
	if s.HintsUsed >= MaxHints(s.Difficulty) {
		return "", game.ErrInvalidMove
	}
	s.HintsUsed++
	row := SingleLetterHint(rng, s.Word)
	s.HintRows = append(s.HintRows, row)
	return row, nil
}

// MeaningUnlocked reports whether the meaning hint may be shown. It
// unlocks after the fifth attempt.
func (s *Session) MeaningUnlocked() bool {
	return s.AttemptsUsed >= 5
}

// HistoryBlock renders all guesses and, when includeHints is set, the
// purchased hint rows beneath them.
func (s *Session) HistoryBlock(includeHints bool) string {
	const spacer = "   "
	lines := make([]string, 0, len(s.History)+len(s.HintRows))
	for _, rec := range s.History {
		lines = append(lines, rec.Feedback+spacer+FancyUpper(rec.Guess))
	}
	if includeHints {
		lines = append(lines, s.HintRows...)
	}
	return strings.Join(lines, "\n")
}
