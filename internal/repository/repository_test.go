// Tests use testcontainers-go to spin up a PostgreSQL container and
// are skipped when Docker is unavailable.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"gamebot/internal/currency"
	"gamebot/internal/model"
)

func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return pool, cleanup
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.Create(ctx, 12345, "Ann")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), u.TelegramID)
	assert.Equal(t, "Ann", u.FirstName)
	assert.Zero(t, u.Bronze)
	assert.Empty(t, u.Tools)
	assert.NotNil(t, u.Cooldowns)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	u, created, err := repo.GetOrCreate(ctx, 12345, "Ann")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(12345), u.TelegramID)

	u, created, err = repo.GetOrCreate(ctx, 12345, "Ann")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(12345), u.TelegramID)
}

func TestUserRepository_SaveRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.Create(ctx, 12345, "Ann")
	require.NoError(t, err)

	u.Bronze = 250
	u.Silver = 3
	u.BlackGold = 1
	u.Cooldowns["rob"] = 1700000000
	u.Ores["Coal"] = 7
	u.Tools = append(u.Tools, "Wooden", "Iron")
	u.Items = append(u.Items, "Lucky Charm")
	u.Equipped = "Iron"
	u.Badges = append(u.Badges, "🛠️")
	u.WorkDone = 21
	u.SpinStreak = 3
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Bronze)
	assert.Equal(t, int64(3), got.Silver)
	assert.Equal(t, int64(1), got.BlackGold)
	assert.Equal(t, int64(1700000000), got.Cooldowns["rob"])
	assert.Equal(t, int64(7), got.Ores["Coal"])
	assert.Equal(t, []string{"Wooden", "Iron"}, got.Tools)
	assert.Equal(t, []string{"Lucky Charm"}, got.Items)
	assert.Equal(t, "Iron", got.Equipped)
	assert.Equal(t, []string{"🛠️"}, got.Badges)
	assert.Equal(t, int64(21), got.WorkDone)
	assert.Equal(t, int64(3), got.SpinStreak)

	ghost := *got
	ghost.TelegramID = 99999
	assert.ErrorIs(t, repo.Save(ctx, &ghost), ErrUserNotFound)
}

func TestUserRepository_TopByWealth(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	for _, tc := range []struct {
		id        int64
		bronze    int64
		silver    int64
		blackGold int64
	}{
		{1, 50, 0, 0},
		{2, 0, 2, 0},   // 200 bronze equivalent
		{3, 100, 0, 9}, // black gold must not count
	} {
		u, err := repo.Create(ctx, tc.id, "u")
		require.NoError(t, err)
		u.Bronze = tc.bronze
		u.Silver = tc.silver
		u.BlackGold = tc.blackGold
		require.NoError(t, repo.Save(ctx, u))
	}

	top, err := repo.TopByWealth(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, int64(2), top[0].TelegramID)
	assert.Equal(t, int64(3), top[1].TelegramID)
	assert.Equal(t, int64(1), top[2].TelegramID)
}

func TestUserRepository_TopByMessages(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "quiet")
	require.NoError(t, err)
	_, err = repo.Create(ctx, 2, "chatty")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.IncrementMessages(ctx, 2))
	}
	require.NoError(t, repo.IncrementMessages(ctx, 1))

	// Counting unknown users is a no-op, not an error.
	require.NoError(t, repo.IncrementMessages(ctx, 42))

	top, err := repo.TopByMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].TelegramID)
	assert.Equal(t, int64(5), top[0].Messages)
}

func TestUserRepository_CleanupCooldowns(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	now := time.Now().Unix()
	u, err := repo.Create(ctx, 1, "u")
	require.NoError(t, err)
	u.Cooldowns["rob"] = now - 8*24*3600
	u.Cooldowns["work"] = now - 60
	require.NoError(t, repo.Save(ctx, u))

	dropped, err := repo.CleanupCooldowns(ctx, 7*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotContains(t, got.Cooldowns, "rob")
	assert.Contains(t, got.Cooldowns, "work")
}

func TestLedgerRepository_RecordAndQuery(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "Ann")
	require.NoError(t, err)

	desc := "spin win"
	e, err := ledger.Record(ctx, 12345, currency.TierBronze, 120, model.TxTypeSpin, &desc)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), e.UserID)
	assert.Equal(t, currency.TierBronze, e.Tier)
	assert.Equal(t, int64(120), e.Amount)
	require.NotNil(t, e.Description)
	assert.Equal(t, "spin win", *e.Description)

	_, err = ledger.Record(ctx, 12345, currency.TierBronze, -30, model.TxTypeFlip, nil)
	require.NoError(t, err)
	_, err = ledger.Record(ctx, 12345, currency.TierSilver, 2, model.TxTypeConvert, nil)
	require.NoError(t, err)

	entries, err := ledger.GetByUserID(ctx, 12345, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, currency.TierSilver, entries[0].Tier, "newest first")
}

func TestLedgerRepository_NetByType(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1, "Ann")
	require.NoError(t, err)

	now := time.Now()
	_, err = ledger.RecordAt(ctx, 1, currency.TierBronze, 100, model.TxTypeBet, nil, now)
	require.NoError(t, err)
	_, err = ledger.RecordAt(ctx, 1, currency.TierBronze, -40, model.TxTypeBet, nil, now)
	require.NoError(t, err)
	_, err = ledger.RecordAt(ctx, 1, currency.TierBronze, 500, model.TxTypeBet, nil, now.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = ledger.RecordAt(ctx, 1, currency.TierBronze, 999, model.TxTypeDaily, nil, now)
	require.NoError(t, err)

	net, err := ledger.NetByType(ctx, 1, model.TxTypeBet, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(60), net, "old and unrelated entries excluded")
}
