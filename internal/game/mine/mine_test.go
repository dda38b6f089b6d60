package mine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamebot/internal/game"
)

func TestDig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		ore, amount, err := Dig(rng)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, amount, int64(1))
		assert.LessOrEqual(t, amount, int64(3))
		seen[ore] = true
	}

	// Every ore shows up over enough swings, even Diamond at weight 5.
	for _, o := range Ores {
		assert.True(t, seen[o.Name], "never mined %s", o.Name)
	}
}

func TestOreValue(t *testing.T) {
	assert.Equal(t, int64(2), OreValue("Coal"))
	assert.Equal(t, int64(100), OreValue("Diamond"))
	assert.Equal(t, int64(1), OreValue("Mithril"), "unknown ores sell for 1")
}

func TestToolByName(t *testing.T) {
	tool, ok := ToolByName("Emerald")
	require.True(t, ok)
	assert.Equal(t, int64(20000), tool.Price)
	assert.Equal(t, int64(9), tool.Power)

	_, ok = ToolByName("Golden")
	assert.False(t, ok)
}

func TestSellAll(t *testing.T) {
	ores := map[string]int64{"Coal": 4, "Gold": 2}

	amount, earned, err := SellAll(ores, "Gold")
	require.NoError(t, err)
	assert.Equal(t, int64(2), amount)
	assert.Equal(t, int64(50), earned)
	assert.NotContains(t, ores, "Gold")
	assert.Equal(t, int64(4), ores["Coal"], "other ores untouched")

	_, _, err = SellAll(ores, "Gold")
	assert.ErrorIs(t, err, game.ErrNotFound)

	_, _, err = SellAll(ores, "Diamond")
	assert.ErrorIs(t, err, game.ErrNotFound)
}
