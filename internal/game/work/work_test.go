package work

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReward(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		r := Reward(rng)
		assert.GreaterOrEqual(t, r, int64(1))
		assert.LessOrEqual(t, r, int64(100))
	}
}

func TestPickTask(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		assert.Contains(t, Tasks, PickTask(rng))
	}
}

func TestEarnsBadge(t *testing.T) {
	assert.False(t, EarnsBadge(19))
	assert.True(t, EarnsBadge(20))
	assert.True(t, EarnsBadge(200))
}
