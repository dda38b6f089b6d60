package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gamebot/internal/model"
)

// LedgerRepository records every balance mutation with its tier, so
// wins, losses, and transfers stay auditable per user.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository instance.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Record appends one ledger entry. Amount is positive for credits and
// negative for debits of the named tier.
func (r *LedgerRepository) Record(ctx context.Context, userID int64, tier string, amount int64, txType string, description *string) (*model.LedgerEntry, error) {
	const query = `
		INSERT INTO ledger (user_id, tier, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, user_id, tier, amount, type, description, created_at
	`

	var e model.LedgerEntry
	err := r.pool.QueryRow(ctx, query, userID, tier, amount, txType, description).Scan(
		&e.ID, &e.UserID, &e.Tier, &e.Amount, &e.Type, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return &e, nil
}

// RecordAt appends an entry with an explicit timestamp. Used by tests.
func (r *LedgerRepository) RecordAt(ctx context.Context, userID int64, tier string, amount int64, txType string, description *string, createdAt time.Time) (*model.LedgerEntry, error) {
	const query = `
		INSERT INTO ledger (user_id, tier, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, tier, amount, type, description, created_at
	`

	var e model.LedgerEntry
	err := r.pool.QueryRow(ctx, query, userID, tier, amount, txType, description, createdAt).Scan(
		&e.ID, &e.UserID, &e.Tier, &e.Amount, &e.Type, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return &e, nil
}

// GetByUserID returns a user's entries, newest first.
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, user_id, tier, amount, type, description, created_at
		FROM ledger
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.Tier, &e.Amount, &e.Type, &e.Description, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger: %w", err)
	}
	return entries, nil
}

// NetByType sums a user's entries of one type since the given time.
func (r *LedgerRepository) NetByType(ctx context.Context, userID int64, txType string, since time.Time) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger
		WHERE user_id = $1 AND type = $2 AND created_at >= $3
	`

	var net int64
	if err := r.pool.QueryRow(ctx, query, userID, txType, since).Scan(&net); err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return net, nil
}
