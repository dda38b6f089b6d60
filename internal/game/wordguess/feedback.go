// Package wordguess implements the Wordle-style word quiz: per-letter
// feedback, word pools by difficulty, and the quiz session state machine.
package wordguess

import (
	"math/rand"
	"strings"
)

// Mark is the per-position feedback state for a guessed letter.
type Mark int

const (
	// MarkAbsent means the letter does not occur in the remaining target letters.
	MarkAbsent Mark = iota
	// MarkPresent means the letter occurs in the target at a different position.
	MarkPresent
	// MarkCorrect means the letter matches the target at this position.
	MarkCorrect
)

const (
	glyphCorrect = "🟩"
	glyphPresent = "🟨"
	glyphAbsent  = "🟥"
)

// Feedback compares a guess against the target and returns one mark per
// position. Both passes scan left to right, so earlier positions claim
// credit for duplicate letters first. The caller must ensure both
// strings have the same length.
func Feedback(guess, target string) []Mark {
	guess = strings.ToLower(guess)
	target = strings.ToLower(target)

	g := []rune(guess)
	remaining := []rune(target)
	marks := make([]Mark, len(g))

	for i, ch := range g {
		if i < len(remaining) && ch == remaining[i] {
			marks[i] = MarkCorrect
			remaining[i] = 0
		}
	}
	for i, ch := range g {
		if marks[i] == MarkCorrect {
			continue
		}
		found := false
		for j, rc := range remaining {
			if rc == ch {
				remaining[j] = 0
				found = true
				break
			}
		}
		if found {
			marks[i] = MarkPresent
		} else {
			marks[i] = MarkAbsent
		}
	}
	return marks
}

// Render turns a mark sequence into its emoji row.
func Render(marks []Mark) string {
	var b strings.Builder
	for _, m := range marks {
		switch m {
		case MarkCorrect:
			b.WriteString(glyphCorrect)
		case MarkPresent:
			b.WriteString(glyphPresent)
		default:
			b.WriteString(glyphAbsent)
		}
	}
	return b.String()
}

// SingleLetterHint reveals one letter of the target at a random
// position, masking all other positions.
func SingleLetterHint(rng *rand.Rand, target string) string {
	if target == "" {
		return ""
	}
	chars := []rune(strings.ToUpper(target))
	idx := rng.Intn(len(chars))

	var b strings.Builder
	for i, ch := range chars {
		if i == idx {
			b.WriteRune(ch)
		} else {
			b.WriteString(glyphAbsent)
		}
	}
	return b.String()
}

// FancyUpper maps ASCII uppercase letters to their mathematical
// sans-serif bold forms so guess rows keep a consistent width in
// Telegram clients.
func FancyUpper(word string) string {
	var b strings.Builder
	for _, ch := range strings.ToUpper(word) {
		if ch >= 'A' && ch <= 'Z' {
			b.WriteRune(ch - 'A' + 0x1D5D4)
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
