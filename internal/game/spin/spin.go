// Package spin implements the colour wheel: a 1-64 slot draw banded
// into four colours, asymmetric win and loss ranges per colour, and a
// consecutive-win streak multiplier.
package spin

import (
	"math/rand"

	"gamebot/internal/game"
)

// Cooldown is the seconds between spins.
const Cooldown = 60

// Colour is one of the four wheel outcomes.
type Colour string

const (
	Red   Colour = "red"
	Black Colour = "black"
	Green Colour = "green"
	Blue  Colour = "blue"
)

// ParseColour validates a player's colour pick.
func ParseColour(s string) (Colour, error) {
	switch Colour(s) {
	case Red, Black, Green, Blue:
		return Colour(s), nil
	}
	return "", game.ErrInvalidInput
}

// Band maps a 1-64 slot value onto its colour. Red takes 1-30, black
// 31-58, green 59-62, and blue 63-64.
func Band(value int64) Colour {
	switch {
	case value <= 30:
		return Red
	case value <= 58:
		return Black
	case value <= 62:
		return Green
	default:
		return Blue
	}
}

// Draw rolls the 1-64 slot value and returns it with its colour.
func Draw(rng *rand.Rand) (int64, Colour) {
	v := 1 + rng.Int63n(64)
	return v, Band(v)
}

type band struct {
	winMin, winMax   int64
	loseMin, loseMax int64
}

var bands = map[Colour]band{
	Red:   {winMin: 30, winMax: 120, loseMin: 15, loseMax: 60},
	Black: {winMin: 30, winMax: 120, loseMin: 15, loseMax: 60},
	Green: {winMin: 200, winMax: 400, loseMin: 80, loseMax: 180},
	Blue:  {winMin: 450, winMax: 1000, loseMin: 150, loseMax: 300},
}

// StreakMultiplier scales a single win's reward by the current run of
// consecutive wins. The first win pays flat; runs of five or more cap
// at 1.6x.
func StreakMultiplier(streak int64) float64 {
	switch {
	case streak == 2:
		return 1.10
	case streak == 3:
		return 1.25
	case streak == 4:
		return 1.40
	case streak >= 5:
		return 1.60
	default:
		return 1.0
	}
}

// Result is the settled outcome of one spin.
type Result struct {
	Value  int64
	Actual Colour
	Won    bool
	// Amount is the bronze delta magnitude: reward on a win, loss on
	// a miss.
	Amount int64
	// Streak is the updated consecutive-win count.
	Streak int64
}

// Settle resolves a spin given the player's pick and prior streak.
// The streak multiplier applies only to the winning spin's own
// reward and the streak resets to zero on any loss. Losses never take
// the player below zero; the caller clamps against the wallet.
func Settle(rng *rand.Rand, pick Colour, streak int64) Result {
	value, actual := Draw(rng)
	b := bands[actual]

	if pick == actual {
		streak++
		reward := b.winMin + rng.Int63n(b.winMax-b.winMin+1)
		reward = int64(float64(reward) * StreakMultiplier(streak))
		return Result{Value: value, Actual: actual, Won: true, Amount: reward, Streak: streak}
	}

	loss := b.loseMin + rng.Int63n(b.loseMax-b.loseMin+1)
	return Result{Value: value, Actual: actual, Won: false, Amount: loss, Streak: 0}
}
