// Package model defines the data models for the game bot.
package model

import "time"

// UserAccount represents a player's persistent record.
// Balances are non-negative at rest; every mutation is a read-modify-write
// of the full record through UserRepository.Save.
type UserAccount struct {
	TelegramID int64  `db:"telegram_id"`
	FirstName  string `db:"first_name"`

	// Currency balances. Black gold is a premium currency excluded from
	// conversion and from the leaderboard wealth total.
	BlackGold int64 `db:"black_gold"`
	Platinum  int64 `db:"platinum"`
	Gold      int64 `db:"gold"`
	Silver    int64 `db:"silver"`
	Bronze    int64 `db:"bronze"`

	// Cooldowns maps command name -> last-use unix timestamp. Entries are
	// created lazily and dropped by the age sweep after the horizon.
	Cooldowns map[string]int64 `db:"cooldowns"`

	// Inventory.
	Tools    []string         `db:"tools"`
	Ores     map[string]int64 `db:"ores"`
	Items    []string         `db:"items"`
	Equipped string           `db:"equipped"`

	// Counters and badges.
	Messages   int64    `db:"messages"`
	WorkDone   int64    `db:"work_done"`
	FightWins  int64    `db:"fight_wins"`
	RobSuccess int64    `db:"rob_success"`
	RobFail    int64    `db:"rob_fail"`
	Badges     []string `db:"badges"`

	// Per-feature timestamps kept outside the cooldown map, matching the
	// features that track their own last-use field.
	LastDaily  int64 `db:"last_daily"`
	LastBet    int64 `db:"last_bet"`
	LastMine   int64 `db:"last_mine"`
	SpinStreak int64 `db:"spin_streak"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OwnsTool reports whether the account owns the named tool.
func (u *UserAccount) OwnsTool(name string) bool {
	for _, t := range u.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// HasBadge reports whether the account holds the given badge.
func (u *UserAccount) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// LedgerEntry records a single balance change for auditing.
type LedgerEntry struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Tier        string    `db:"tier"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Ledger entry types for categorizing balance changes.
const (
	TxTypeDaily    = "daily"
	TxTypeFlip     = "flip"
	TxTypeRoll     = "roll"
	TxTypeBet      = "bet"
	TxTypeSpin     = "spin"
	TxTypeWork     = "work"
	TxTypeFight    = "fight"
	TxTypeRob      = "rob"
	TxTypeRobbed   = "robbed"
	TxTypeMineSell = "mine_sell"
	TxTypeShop     = "shop"
	TxTypePay      = "pay"
	TxTypeConvert  = "convert"
	TxTypeGuess    = "guess"
	TxTypeXoxo     = "xoxo"
	TxTypeHint     = "hint"
	TxTypeAdmin    = "admin_grant"
)
