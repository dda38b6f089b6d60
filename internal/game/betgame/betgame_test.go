package betgame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamebot/internal/game"
)

func TestParseStake(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		balance int64
		want    int64
		wantErr error
	}{
		{"plain amount", "100", 500, 100, nil},
		{"all in", "*", 500, 500, nil},
		{"exact balance", "500", 500, 500, nil},
		{"over balance", "501", 500, 0, game.ErrInsufficientBalance},
		{"zero", "0", 500, 0, game.ErrInvalidInput},
		{"negative", "-5", 500, 0, game.ErrInvalidInput},
		{"not a number", "ten", 500, 0, game.ErrInvalidInput},
		{"all in while broke", "*", 0, 0, game.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStake(tt.arg, tt.balance)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	wins := 0
	for i := 0; i < 10000; i++ {
		won, delta := Settle(rng, 50)
		if won {
			wins++
			assert.Equal(t, int64(50), delta)
		} else {
			assert.Equal(t, int64(-50), delta)
		}
	}
	assert.InDelta(t, 0.5, float64(wins)/10000, 0.03)
}

func TestDiceReward(t *testing.T) {
	assert.Equal(t, int64(10), DiceReward(1))
	assert.Equal(t, int64(60), DiceReward(6))
}
