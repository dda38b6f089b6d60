// Package robbery implements the rob command's tier selection and
// success roll. The same tier weight drives both the weighted pick and
// the success percentage, so bronze robberies always succeed while
// platinum ones rarely do.
package robbery

import (
	"fmt"
	"math/rand"

	"gamebot/internal/currency"
	"gamebot/internal/game"
	"gamebot/internal/model"
	"gamebot/internal/pkg/weighted"
)

// Cooldown is the seconds between robbery attempts.
const Cooldown = 300

// ErrNoLoot means the victim holds nothing stealable.
var ErrNoLoot = fmt.Errorf("no stealable coins: %w", game.ErrNotFound)

// tierWeights pairs each stealable tier with its selection weight.
// Black gold cannot be stolen.
var tierWeights = []struct {
	Tier   string
	Weight int64
}{
	{currency.TierBronze, 100},
	{currency.TierSilver, 80},
	{currency.TierGold, 50},
	{currency.TierPlatinum, 10},
}

// stealCap bounds how much of a tier one robbery can take.
var stealCap = map[string]int64{
	currency.TierBronze: 60,
	currency.TierSilver: 15,
	currency.TierGold:   5,
}

// maxFailPenalty is the largest bronze fine for a failed robbery.
const maxFailPenalty = 40

// PickTier selects which of the victim's tiers to target. Tiers the
// victim holds nothing of are excluded from the pool entirely. It
// fails with ErrNoLoot when the victim holds no stealable coins.
func PickTier(rng *rand.Rand, victim *model.UserAccount) (string, int64, error) {
	var pool []weighted.Choice[string]
	for _, tw := range tierWeights {
		if bal, _ := currency.Balance(victim, tw.Tier); bal > 0 {
			pool = append(pool, weighted.Choice[string]{Label: tw.Tier, Weight: tw.Weight})
		}
	}
	if len(pool) == 0 {
		return "", 0, ErrNoLoot
	}
	tier, err := weighted.Pick(rng, pool)
	if err != nil {
		return "", 0, err
	}
	for _, tw := range tierWeights {
		if tw.Tier == tier {
			return tier, tw.Weight, nil
		}
	}
	return "", 0, game.ErrNotFound
}

// RollSuccess reinterprets the chosen tier's weight as a percent
// success chance. A 1-100 roll above the chance means the robbery
// fails.
func RollSuccess(rng *rand.Rand, chancePercent int64) bool {
	roll := 1 + rng.Int63n(100)
	return roll <= chancePercent
}

// RollSteal picks how much of the chosen tier is taken. Bronze,
// silver, and gold draws are capped both by the victim's holdings and
// the per-tier cap; platinum always yields exactly one coin.
func RollSteal(rng *rand.Rand, tier string, victimBalance int64) int64 {
	if tier == currency.TierPlatinum {
		return 1
	}
	limit := stealCap[tier]
	if victimBalance < limit {
		limit = victimBalance
	}
	if limit <= 0 {
		return 0
	}
	return 1 + rng.Int63n(limit)
}

// RollFailPenalty picks the bronze fine for a failed robbery, capped
// by what the robber can actually pay.
func RollFailPenalty(rng *rand.Rand, robberBronze int64) int64 {
	penalty := 1 + rng.Int63n(maxFailPenalty)
	if penalty > robberBronze {
		penalty = robberBronze
	}
	return penalty
}
