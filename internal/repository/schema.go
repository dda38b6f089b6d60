package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. Statements are idempotent so the bot
// can run it on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			black_gold BIGINT NOT NULL DEFAULT 0,
			platinum BIGINT NOT NULL DEFAULT 0,
			gold BIGINT NOT NULL DEFAULT 0,
			silver BIGINT NOT NULL DEFAULT 0,
			bronze BIGINT NOT NULL DEFAULT 0,
			cooldowns JSONB NOT NULL DEFAULT '{}',
			tools JSONB NOT NULL DEFAULT '[]',
			ores JSONB NOT NULL DEFAULT '{}',
			items JSONB NOT NULL DEFAULT '[]',
			equipped VARCHAR(32) NOT NULL DEFAULT '',
			messages BIGINT NOT NULL DEFAULT 0,
			work_done BIGINT NOT NULL DEFAULT 0,
			fight_wins BIGINT NOT NULL DEFAULT 0,
			rob_success BIGINT NOT NULL DEFAULT 0,
			rob_fail BIGINT NOT NULL DEFAULT 0,
			badges JSONB NOT NULL DEFAULT '[]',
			last_daily BIGINT NOT NULL DEFAULT 0,
			last_bet BIGINT NOT NULL DEFAULT 0,
			last_mine BIGINT NOT NULL DEFAULT 0,
			spin_streak BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ledger (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			tier VARCHAR(16) NOT NULL,
			amount BIGINT NOT NULL,
			type VARCHAR(32) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user_created ON ledger (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_users_messages ON users (messages DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
