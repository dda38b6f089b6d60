// Package flip implements the heads-or-tails coin game.
package flip

import (
	"math/rand"

	"gamebot/internal/game"
)

// Cooldown is the seconds between flips.
const Cooldown = 30

// Side is a coin face.
type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// ParseSide validates a player's pick.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Heads, Tails:
		return Side(s), nil
	}
	return "", game.ErrInvalidInput
}

// Result is the settled outcome of one flip.
type Result struct {
	Actual Side
	Won    bool
	// Amount is the bronze reward on a win or the loss magnitude on
	// a miss.
	Amount int64
}

// Settle flips the coin and rolls the reward or loss. Wins pay 10-80
// bronze; losses cost 5-35, clamped by the caller so the wallet never
// goes negative.
func Settle(rng *rand.Rand, pick Side) Result {
	actual := Heads
	if rng.Intn(2) == 1 {
		actual = Tails
	}
	if pick == actual {
		return Result{Actual: actual, Won: true, Amount: 10 + rng.Int63n(71)}
	}
	return Result{Actual: actual, Won: false, Amount: 5 + rng.Int63n(31)}
}
