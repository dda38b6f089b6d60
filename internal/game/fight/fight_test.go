package fight

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		res := Settle(rng, 500, 500)
		if res.AttackerWon {
			assert.GreaterOrEqual(t, res.AttackerPower, res.DefenderPower)
			assert.GreaterOrEqual(t, res.Amount, int64(10))
			assert.LessOrEqual(t, res.Amount, int64(80))
		} else {
			assert.Less(t, res.AttackerPower, res.DefenderPower)
			assert.GreaterOrEqual(t, res.Amount, int64(5))
			assert.LessOrEqual(t, res.Amount, int64(60))
		}
	}
}

func TestSettleCapsAtLoserBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 10000; i++ {
		res := Settle(rng, 3, 2)
		if res.AttackerWon {
			assert.LessOrEqual(t, res.Amount, int64(2), "steal capped by defender's bronze")
		} else {
			assert.LessOrEqual(t, res.Amount, int64(3), "penalty capped by attacker's bronze")
		}
	}
}

func TestRichAttackerUsuallyWins(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	wins := 0
	for i := 0; i < 1000; i++ {
		if Settle(rng, 10000, 0).AttackerWon {
			wins++
		}
	}
	assert.Equal(t, 1000, wins, "a large bronze lead beats any surge")
}
