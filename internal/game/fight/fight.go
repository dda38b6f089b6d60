// Package fight implements the reply-based brawl between two users.
// Each side's power is their bronze balance plus a random surge; the
// attacker wins ties.
package fight

import "math/rand"

// Cooldown is the seconds between an attacker's fights.
const Cooldown = 60

// Result is the settled outcome of one fight.
type Result struct {
	AttackerPower int64
	DefenderPower int64
	AttackerWon   bool
	// Amount is the bronze transferred: stolen by the attacker on a
	// win, forfeited to the defender on a loss. Already capped by the
	// loser's balance.
	Amount int64
}

func surge(rng *rand.Rand) int64 {
	return 20 + rng.Int63n(121)
}

// Settle resolves a fight given both bronze balances. Winners take
// 10-80 bronze from the loser and losers forfeit 5-60, in both cases
// never more than the loser holds.
func Settle(rng *rand.Rand, attackerBronze, defenderBronze int64) Result {
	atkPower := attackerBronze + surge(rng)
	dfdPower := defenderBronze + surge(rng)

	if atkPower >= dfdPower {
		steal := 10 + rng.Int63n(71)
		if steal > defenderBronze {
			steal = defenderBronze
		}
		return Result{AttackerPower: atkPower, DefenderPower: dfdPower, AttackerWon: true, Amount: steal}
	}

	penalty := 5 + rng.Int63n(56)
	if penalty > attackerBronze {
		penalty = attackerBronze
	}
	return Result{AttackerPower: atkPower, DefenderPower: dfdPower, AttackerWon: false, Amount: penalty}
}
