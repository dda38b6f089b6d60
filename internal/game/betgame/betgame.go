// Package betgame implements the even-odds bronze wager and the dice
// roll payout.
package betgame

import (
	"math/rand"
	"strconv"

	"gamebot/internal/game"
)

// Cooldown is the seconds between bets.
const Cooldown = 7

// MinBet is the smallest allowed stake.
const MinBet = 1

// DiceRewardPerPip is the bronze paid per pip on a dice roll.
const DiceRewardPerPip = 10

// ParseStake reads a bet amount from its command argument. "*" stakes
// the whole balance. The amount must be at least MinBet and within
// the balance.
func ParseStake(arg string, balance int64) (int64, error) {
	var amount int64
	if arg == "*" {
		amount = balance
	} else {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return 0, game.ErrInvalidInput
		}
		amount = n
	}
	if amount < MinBet {
		return 0, game.ErrInvalidInput
	}
	if amount > balance {
		return 0, game.ErrInsufficientBalance
	}
	return amount, nil
}

// Settle resolves an even-odds bet: the stake is either won or lost
// outright.
func Settle(rng *rand.Rand, stake int64) (won bool, delta int64) {
	if rng.Intn(2) == 0 {
		return true, stake
	}
	return false, -stake
}

// DiceReward converts a 1-6 dice value into its bronze payout.
func DiceReward(value int64) int64 {
	return value * DiceRewardPerPip
}
