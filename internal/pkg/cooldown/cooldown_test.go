package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		last          int64
		cooldown      int64
		now           int64
		wantAllowed   bool
		wantRemaining int64
		wantPretty    string
	}{
		{"still cooling", 1000, 60, 1030, false, 30, "30s"},
		{"exactly elapsed", 1000, 60, 1060, true, 0, "0s"},
		{"past cooldown", 1000, 60, 1100, true, 0, "0s"},
		{"never used", 0, 60, 1100, true, 0, "0s"},
		{"one second left", 1000, 60, 1059, false, 1, "1s"},
		{"hours and minutes", 0, 3723, 0, false, 3723, "1h 2m 3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, remaining, pretty := Check(tt.last, tt.cooldown, tt.now)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantRemaining, remaining)
			assert.Equal(t, tt.wantPretty, pretty)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{-5, "0s"},
		{1, "1s"},
		{59, "59s"},
		{60, "1m"},
		{61, "1m 1s"},
		{3600, "1h"},
		{3660, "1h 1m"},
		{3601, "1h 1s"},
		{7384, "2h 3m 4s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.seconds), "Format(%d)", tt.seconds)
	}
}

// Check never reports a negative remaining time, and remaining is zero
// exactly when the action is allowed.
func TestCheckProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		last := rapid.Int64Range(0, 1<<40).Draw(t, "last")
		cd := rapid.Int64Range(0, 1<<20).Draw(t, "cooldown")
		now := rapid.Int64Range(last, last+1<<21).Draw(t, "now")

		allowed, remaining, pretty := Check(last, cd, now)

		if remaining < 0 {
			t.Fatalf("negative remaining %d", remaining)
		}
		if allowed != (remaining == 0) {
			t.Fatalf("allowed=%v but remaining=%d", allowed, remaining)
		}
		if allowed && pretty != "0s" {
			t.Fatalf("allowed but pretty=%q", pretty)
		}
	})
}

func TestTouch(t *testing.T) {
	m := Touch(nil, "rob", 500)
	assert.Equal(t, int64(500), m["rob"])

	m = Touch(m, "rob", 900)
	assert.Equal(t, int64(900), m["rob"])

	m = Touch(m, "fight", 901)
	assert.Len(t, m, 2)
}

func TestCleanup(t *testing.T) {
	now := int64(1_000_000)
	week := int64(DefaultHorizon / time.Second)

	m := map[string]int64{
		"fresh":   now - 10,
		"oldish":  now - week + 1,
		"stale":   now - week,
		"ancient": now - 2*week,
	}

	m, dropped := Cleanup(m, DefaultHorizon, now)
	assert.Equal(t, 2, dropped)
	assert.Contains(t, m, "fresh")
	assert.Contains(t, m, "oldish")
	assert.NotContains(t, m, "stale")
	assert.NotContains(t, m, "ancient")

	m, dropped = Cleanup(nil, DefaultHorizon, now)
	assert.NotNil(t, m)
	assert.Zero(t, dropped)
}
