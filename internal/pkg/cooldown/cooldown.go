// Package cooldown implements the per-command cooldown policy.
// All functions are pure over unix-second timestamps; callers persist the
// account's cooldown map themselves after calling Update.
package cooldown

import (
	"fmt"
	"strings"
	"time"
)

// DefaultHorizon is how long stale cooldown entries are kept before the
// age sweep drops them.
const DefaultHorizon = 7 * 24 * time.Hour

// Check reports whether a command is allowed now.
// Returns (allowed, remaining seconds, pretty-formatted remaining time).
// remaining is 0 and pretty is "0s" when the action is allowed.
func Check(last, cooldownSeconds, now int64) (bool, int64, string) {
	diff := now - last
	if diff >= cooldownSeconds {
		return true, 0, "0s"
	}

	remain := cooldownSeconds - diff
	if remain < 0 {
		remain = 0
	}
	return false, remain, Format(remain)
}

// CheckMap looks up cmd in a cooldown map and applies Check. A missing
// entry counts as last-use 0, i.e. always allowed.
func CheckMap(cooldowns map[string]int64, cmd string, cooldownSeconds, now int64) (bool, int64, string) {
	return Check(cooldowns[cmd], cooldownSeconds, now)
}

// Update returns the timestamp to record as the command's last use.
func Update(now int64) int64 {
	return now
}

// Touch records now as cmd's last use, allocating the map if needed.
// Returns the map so callers can assign it back onto the account.
func Touch(cooldowns map[string]int64, cmd string, now int64) map[string]int64 {
	if cooldowns == nil {
		cooldowns = make(map[string]int64)
	}
	cooldowns[cmd] = Update(now)
	return cooldowns
}

// Format renders seconds as largest-to-smallest non-zero units,
// space-joined: "1h 2m 3s". Zero renders as "0s".
func Format(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// Cleanup removes entries older than maxAge. It mutates and returns the map;
// the returned count is how many entries were dropped.
func Cleanup(cooldowns map[string]int64, maxAge time.Duration, now int64) (map[string]int64, int) {
	if cooldowns == nil {
		return map[string]int64{}, 0
	}

	maxAgeSec := int64(maxAge / time.Second)
	dropped := 0
	for cmd, ts := range cooldowns {
		if now-ts >= maxAgeSec {
			delete(cooldowns, cmd)
			dropped++
		}
	}
	return cooldowns, dropped
}
