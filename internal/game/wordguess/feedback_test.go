package wordguess

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFeedback(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		target string
		want   []Mark
	}{
		{
			name:   "all correct",
			guess:  "plays",
			target: "plays",
			want:   []Mark{MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect},
		},
		{
			// G absent, L correct at index 1, O absent, R absent, Y
			// present (target has Y at index 3).
			name:   "glory against plays",
			guess:  "glory",
			target: "plays",
			want:   []Mark{MarkAbsent, MarkCorrect, MarkAbsent, MarkAbsent, MarkPresent},
		},
		{
			name:   "all absent",
			guess:  "brown",
			target: "eight",
			want:   []Mark{MarkAbsent, MarkAbsent, MarkAbsent, MarkAbsent, MarkAbsent},
		},
		{
			// Target has one L. The correct-position L at index 2
			// consumes it in the first pass, so the L at index 0 is
			// marked absent even though it comes earlier.
			name:   "correct position claims duplicate first",
			guess:  "lulls",
			target: "calls",
			want:   []Mark{MarkAbsent, MarkAbsent, MarkCorrect, MarkCorrect, MarkCorrect},
		},
		{
			// Target "speed" has two Es. Guess "erase": first E at
			// index 0 takes one, the E at index 4 takes the other,
			// scanning left to right.
			name:   "left to right duplicate consumption",
			guess:  "erase",
			target: "speed",
			want:   []Mark{MarkPresent, MarkAbsent, MarkAbsent, MarkPresent, MarkPresent},
		},
		{
			name:   "case insensitive",
			guess:  "GLORY",
			target: "plays",
			want:   []Mark{MarkAbsent, MarkCorrect, MarkAbsent, MarkAbsent, MarkPresent},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Feedback(tt.guess, tt.target))
		})
	}
}

func TestFeedbackProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "len")
		letters := rapid.SliceOfN(rapid.RuneFrom([]rune("abcde")), n, n)
		guess := string(letters.Draw(t, "guess"))
		target := string(rapid.SliceOfN(rapid.RuneFrom([]rune("abcde")), n, n).Draw(t, "target"))

		marks := Feedback(guess, target)
		require.Len(t, marks, n)

		correct := 0
		for i := 0; i < n; i++ {
			if guess[i] == target[i] {
				correct++
			}
		}
		got := 0
		for _, m := range marks {
			if m == MarkCorrect {
				got++
			}
		}
		require.Equal(t, correct, got, "correct marks must match positional matches")

		// Correct plus present never exceeds the target's supply of
		// each letter.
		for ch := byte('a'); ch <= 'e'; ch++ {
			supply := strings.Count(target, string(ch))
			claimed := 0
			for i, m := range marks {
				if guess[i] == ch && m != MarkAbsent {
					claimed++
				}
			}
			require.LessOrEqual(t, claimed, supply)
		}
	})
}

func TestRender(t *testing.T) {
	got := Render([]Mark{MarkCorrect, MarkPresent, MarkAbsent})
	assert.Equal(t, "🟩🟨🟥", got)
}

func TestSingleLetterHint(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	hint := SingleLetterHint(rng, "plays")
	assert.Equal(t, 1, len([]rune(strings.NewReplacer("🟥", "").Replace(hint))), "exactly one letter revealed")
	assert.Equal(t, 4, strings.Count(hint, "🟥"))

	revealed := strings.NewReplacer("🟥", "").Replace(hint)
	assert.Contains(t, strings.ToUpper("plays"), revealed)

	assert.Empty(t, SingleLetterHint(rng, ""))
}

func TestFancyUpper(t *testing.T) {
	got := FancyUpper("ab1")
	assert.Equal(t, "𝗔𝗕1", got)
}
