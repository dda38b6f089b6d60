// Package work implements the odd-jobs command: a random task, a
// 1-100 bronze payout, and the work-master badge.
package work

import "math/rand"

// Cooldown is the seconds between jobs.
const Cooldown = 300

// BadgeWorkMaster is awarded once a user completes BadgeThreshold jobs.
const (
	BadgeWorkMaster = "🛠️"
	BadgeThreshold  = 20
)

// Tasks are the flavour lines shown while a job runs.
var Tasks = []string{
	"Delivering parcels 📦",
	"Fixing a computer 🖥️",
	"Cleaning a mansion 🧹",
	"Helping at a store 🏪",
	"Repairing a car 🚗",
	"Cooking in a restaurant 🍳",
	"Gardening in the yard 🌱",
	"Tuning a bike 🚴",
}

// PickTask selects a random task line.
func PickTask(rng *rand.Rand) string {
	return Tasks[rng.Intn(len(Tasks))]
}

// Reward rolls the bronze payout for one completed job.
func Reward(rng *rand.Rand) int64 {
	return 1 + rng.Int63n(100)
}

// EarnsBadge reports whether the given lifetime job count unlocks the
// work-master badge.
func EarnsBadge(workDone int64) bool {
	return workDone >= BadgeThreshold
}
