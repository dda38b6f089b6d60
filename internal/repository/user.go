// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamebot/internal/model"
	"gamebot/internal/pkg/cooldown"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `
	telegram_id, first_name,
	black_gold, platinum, gold, silver, bronze,
	cooldowns, tools, ores, items, equipped,
	messages, work_done, fight_wins, rob_success, rob_fail,
	badges, last_daily, last_bet, last_mine, spin_streak,
	created_at, updated_at`

// walletValueSQL is the bronze-equivalent wealth used for the
// leaderboard. Black gold is excluded on purpose.
const walletValueSQL = `(platinum * 1000000 + gold * 10000 + silver * 100 + bronze)`

func scanUser(row pgx.Row) (*model.UserAccount, error) {
	var u model.UserAccount
	err := row.Scan(
		&u.TelegramID, &u.FirstName,
		&u.BlackGold, &u.Platinum, &u.Gold, &u.Silver, &u.Bronze,
		&u.Cooldowns, &u.Tools, &u.Ores, &u.Items, &u.Equipped,
		&u.Messages, &u.WorkDone, &u.FightWins, &u.RobSuccess, &u.RobFail,
		&u.Badges, &u.LastDaily, &u.LastBet, &u.LastMine, &u.SpinStreak,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Cooldowns == nil {
		u.Cooldowns = map[string]int64{}
	}
	if u.Ores == nil {
		u.Ores = map[string]int64{}
	}
	return &u, nil
}

// UserRepository handles account persistence. Map and list fields are
// stored as JSONB so the whole account travels as one row.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a fresh account with zero balances.
func (r *UserRepository) Create(ctx context.Context, telegramID int64, firstName string) (*model.UserAccount, error) {
	query := `
		INSERT INTO users (telegram_id, first_name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, firstName))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID retrieves an account by Telegram ID. Returns ErrUserNotFound
// if the account does not exist.
func (r *UserRepository) GetByID(ctx context.Context, telegramID int64) (*model.UserAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetOrCreate retrieves an account, creating one on first contact.
// The second return reports whether a new account was created.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, firstName string) (*model.UserAccount, bool, error) {
	u, err := r.GetByID(ctx, telegramID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	u, err = r.Create(ctx, telegramID, firstName)
	if err != nil {
		// Another handler may have created the row in between.
		u, err = r.GetByID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return u, false, nil
	}
	return u, true, nil
}

// Save writes the whole account record back. Game handlers mutate the
// in-memory account under the user lock and persist it in one write.
func (r *UserRepository) Save(ctx context.Context, u *model.UserAccount) error {
	const query = `
		UPDATE users SET
			first_name = $2,
			black_gold = $3, platinum = $4, gold = $5, silver = $6, bronze = $7,
			cooldowns = $8, tools = $9, ores = $10, items = $11, equipped = $12,
			messages = $13, work_done = $14, fight_wins = $15, rob_success = $16, rob_fail = $17,
			badges = $18, last_daily = $19, last_bet = $20, last_mine = $21, spin_streak = $22,
			updated_at = NOW()
		WHERE telegram_id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		u.TelegramID, u.FirstName,
		u.BlackGold, u.Platinum, u.Gold, u.Silver, u.Bronze,
		u.Cooldowns, u.Tools, u.Ores, u.Items, u.Equipped,
		u.Messages, u.WorkDone, u.FightWins, u.RobSuccess, u.RobFail,
		u.Badges, u.LastDaily, u.LastBet, u.LastMine, u.SpinStreak,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementMessages bumps the per-user message counter without a full
// record round trip. Missing users are ignored; counting starts once
// they run /start.
func (r *UserRepository) IncrementMessages(ctx context.Context, telegramID int64) error {
	const query = `UPDATE users SET messages = messages + 1, updated_at = NOW() WHERE telegram_id = $1`
	_, err := r.pool.Exec(ctx, query, telegramID)
	if err != nil {
		return fmt.Errorf("failed to increment messages: %w", err)
	}
	return nil
}

// TopByWealth returns the richest accounts by bronze-equivalent
// wallet value, richest first.
func (r *UserRepository) TopByWealth(ctx context.Context, limit int) ([]*model.UserAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY ` + walletValueSQL + ` DESC LIMIT $1`
	return r.queryUsers(ctx, query, limit)
}

// TopByMessages returns the chattiest accounts, most messages first.
func (r *UserRepository) TopByMessages(ctx context.Context, limit int) ([]*model.UserAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY messages DESC LIMIT $1`
	return r.queryUsers(ctx, query, limit)
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*model.UserAccount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*model.UserAccount
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// CleanupCooldowns drops cooldown entries older than maxAge from
// every account and reports how many entries were removed. Run
// periodically; stale entries otherwise live forever.
func (r *UserRepository) CleanupCooldowns(ctx context.Context, maxAge time.Duration, now int64) (int, error) {
	rows, err := r.pool.Query(ctx, `SELECT telegram_id, cooldowns FROM users WHERE cooldowns <> '{}'::jsonb`)
	if err != nil {
		return 0, fmt.Errorf("failed to query cooldowns: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id        int64
		cooldowns map[string]int64
	}
	var updates []pending
	total := 0
	for rows.Next() {
		var id int64
		var cds map[string]int64
		if err := rows.Scan(&id, &cds); err != nil {
			return 0, fmt.Errorf("failed to scan cooldowns: %w", err)
		}
		pruned, dropped := cooldown.Cleanup(cds, maxAge, now)
		if dropped > 0 {
			total += dropped
			updates = append(updates, pending{id: id, cooldowns: pruned})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating cooldowns: %w", err)
	}

	for _, up := range updates {
		_, err := r.pool.Exec(ctx,
			`UPDATE users SET cooldowns = $2, updated_at = NOW() WHERE telegram_id = $1`,
			up.id, up.cooldowns)
		if err != nil {
			return total, fmt.Errorf("failed to prune cooldowns for %d: %w", up.id, err)
		}
	}
	return total, nil
}
