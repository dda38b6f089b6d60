// Integration tests for the service layer. They use testcontainers-go
// to spin up a PostgreSQL container and are skipped when Docker is
// unavailable.
package service

import (
	"context"
	"math/rand"
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
	"gamebot/internal/game"
	"gamebot/internal/game/flip"
	"gamebot/internal/game/robbery"
	"gamebot/internal/game/spin"
	"gamebot/internal/model"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
)

func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

type fixtures struct {
	users    *repository.UserRepository
	ledger   *repository.LedgerRepository
	locks    *lock.UserLock
	rng      *rand.Rand
	account  *AccountService
	games    *GameService
	transfer *TransferService
	convert  *ConvertService
	shop     *ShopService
}

func setupServices(t *testing.T) (*fixtures, func()) {
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

	require.NoError(t, repository.Migrate(ctx, pool))

	f := &fixtures{
		users:  repository.NewUserRepository(pool),
		ledger: repository.NewLedgerRepository(pool),
		locks:  lock.NewUserLock(),
		rng:    rand.New(rand.NewSource(1)),
	}
	daily := DailyConfig{RewardMin: 120, RewardMax: 350, Cooldown: 24 * time.Hour}
	f.account = NewAccountService(f.users, f.ledger, f.locks, f.rng, daily)
	f.games = NewGameService(f.users, f.ledger, f.locks, f.rng)
	f.transfer = NewTransferService(f.users, f.ledger, f.locks)
	f.convert = NewConvertService(f.users, f.ledger, f.locks)
	f.shop = NewShopService(f.users, f.ledger, f.locks)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return f, cleanup
}

func seedUser(t *testing.T, f *fixtures, id int64, name string, bronze int64) *model.UserAccount {
	t.Helper()
	ctx := context.Background()

	u, err := f.users.Create(ctx, id, name)
	require.NoError(t, err)
	if bronze > 0 {
		u.Bronze = bronze
		require.NoError(t, f.users.Save(ctx, u))
	}
	return u
}

func TestAccountService_EnsureUser(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	u, created, err := f.account.EnsureUser(ctx, 100, "Ann")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ann", u.FirstName)

	// Second call refreshes a changed first name.
	u, created, err = f.account.EnsureUser(ctx, 100, "Anna")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Anna", u.FirstName)

	got, err := f.account.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
}

func TestAccountService_ClaimDaily(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 101, "Bo", 0)

	reward, _, err := f.account.ClaimDaily(ctx, 101)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reward, int64(120))
	assert.LessOrEqual(t, reward, int64(350))

	u, err := f.account.GetUser(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, reward, u.Bronze)

	_, remaining, err := f.account.ClaimDaily(ctx, 101)
	require.ErrorIs(t, err, game.ErrCooldownActive)
	assert.Greater(t, remaining, time.Duration(0))

	entries, err := f.ledger.GetByUserID(ctx, 101, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.TxTypeDaily, entries[0].Type)
	assert.Equal(t, reward, entries[0].Amount)
}

func TestAccountService_AwardAndSpend(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 102, "Cy", 0)

	u, err := f.account.AwardBronze(ctx, 102, 100, model.TxTypeGuess)
	require.NoError(t, err)
	assert.Equal(t, int64(100), u.Bronze)

	u, err = f.account.SpendBronze(ctx, 102, 40, model.TxTypeHint)
	require.NoError(t, err)
	assert.Equal(t, int64(60), u.Bronze)

	_, err = f.account.SpendBronze(ctx, 102, 1000, model.TxTypeHint)
	require.ErrorIs(t, err, game.ErrInsufficientBalance)

	_, err = f.account.AwardBronze(ctx, 102, 0, model.TxTypeGuess)
	require.ErrorIs(t, err, game.ErrInvalidInput)

	_, err = f.account.SpendBronze(ctx, 9999, 10, model.TxTypeHint)
	require.ErrorIs(t, err, game.ErrNotFound)
}

func TestGameService_Bet(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 103, "Di", 100)

	res, err := f.games.Bet(ctx, 103, "50")
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.Stake)

	u, err := f.account.GetUser(ctx, 103)
	require.NoError(t, err)
	if res.Won {
		assert.Equal(t, int64(150), u.Bronze)
	} else {
		assert.Equal(t, int64(50), u.Bronze)
	}

	// Gated by the last_bet timestamp right after a wager.
	_, err = f.games.Bet(ctx, 103, "10")
	require.ErrorIs(t, err, game.ErrCooldownActive)

	seedUser(t, f, 104, "Ed", 100)
	_, err = f.games.Bet(ctx, 104, "not-a-number")
	require.ErrorIs(t, err, game.ErrInvalidInput)
	_, err = f.games.Bet(ctx, 104, "500")
	require.ErrorIs(t, err, game.ErrInsufficientBalance)
}

func TestGameService_Roll(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 105, "Fay", 0)

	reward, err := f.games.Roll(ctx, 105, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(40), reward)

	u, err := f.account.GetUser(ctx, 105)
	require.NoError(t, err)
	assert.Equal(t, int64(40), u.Bronze)

	_, err = f.games.Roll(ctx, 105, 7)
	require.ErrorIs(t, err, game.ErrInvalidInput)
}

func TestGameService_MineAndSell(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 106, "Gus", 0)

	ore, amount, err := f.games.Mine(ctx, 106)
	require.NoError(t, err)
	assert.NotEmpty(t, ore)
	assert.GreaterOrEqual(t, amount, int64(1))
	assert.LessOrEqual(t, amount, int64(3))

	// The swing cooldown blocks an immediate second dig.
	_, _, err = f.games.Mine(ctx, 106)
	require.ErrorIs(t, err, game.ErrCooldownActive)

	sold, earned, err := f.games.SellOre(ctx, 106, ore)
	require.NoError(t, err)
	assert.Equal(t, amount, sold)
	assert.Greater(t, earned, int64(0))

	u, err := f.account.GetUser(ctx, 106)
	require.NoError(t, err)
	assert.Equal(t, earned, u.Bronze)
	assert.NotContains(t, u.Ores, ore)

	_, _, err = f.games.SellOre(ctx, 106, ore)
	require.ErrorIs(t, err, game.ErrNotFound)
}

func TestGameService_Work(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 107, "Hal", 0)

	res, err := f.games.Work(ctx, 107)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Task)
	assert.GreaterOrEqual(t, res.Reward, int64(1))
	assert.LessOrEqual(t, res.Reward, int64(100))
	assert.False(t, res.BadgeEarned)

	u, err := f.account.GetUser(ctx, 107)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.WorkDone)

	_, err = f.games.Work(ctx, 107)
	require.ErrorIs(t, err, game.ErrCooldownActive)
}

func TestGameService_FightTransfersBronze(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 108, "Iva", 500)
	seedUser(t, f, 109, "Jo", 500)

	res, err := f.games.Fight(ctx, 108, 109)
	require.NoError(t, err)
	assert.NotEmpty(t, res.WinnerName)
	assert.Greater(t, res.Amount, int64(0))

	a, err := f.account.GetUser(ctx, 108)
	require.NoError(t, err)
	b, err := f.account.GetUser(ctx, 109)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), a.Bronze+b.Bronze)

	_, err = f.games.Fight(ctx, 108, 108)
	require.ErrorIs(t, err, game.ErrInvalidMove)

	_, err = f.games.Fight(ctx, 108, 109)
	require.ErrorIs(t, err, game.ErrCooldownActive)
}

func TestGameService_Rob(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 110, "Kim", 200)
	seedUser(t, f, 111, "Lou", 200)

	res, err := f.games.Rob(ctx, 110, 111)
	require.NoError(t, err)
	assert.Equal(t, "Lou", res.VictimName)
	assert.Greater(t, res.Amount, int64(0))

	robber, err := f.account.GetUser(ctx, 110)
	require.NoError(t, err)
	victim, err := f.account.GetUser(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, int64(400), robber.Bronze+victim.Bronze)
	if res.Success {
		assert.Equal(t, int64(1), robber.RobSuccess)
	} else {
		assert.Equal(t, int64(1), robber.RobFail)
	}

	// Broke victims have no tier to draw from.
	seedUser(t, f, 112, "Mo", 200)
	seedUser(t, f, 113, "Ned", 0)
	_, err = f.games.Rob(ctx, 112, 113)
	require.ErrorIs(t, err, robbery.ErrNoLoot)
	require.ErrorIs(t, err, game.ErrNotFound)
}

func TestGameService_RobFailureOnlyCostsRobber(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 130, "Sal", 500)
	victim := seedUser(t, f, 131, "Tam", 0)
	// A platinum-only victim makes most attempts fail.
	victim.Platinum = 50
	require.NoError(t, f.users.Save(ctx, victim))

	expectedPlatinum := int64(50)
	successes := 0
	sawFailure := false
	for attempt := 0; attempt < 60 && !sawFailure; attempt++ {
		res, err := f.games.Rob(ctx, 130, 131)
		require.NoError(t, err)
		assert.Equal(t, currency.TierPlatinum, res.Tier)

		v, err := f.account.GetUser(ctx, 131)
		require.NoError(t, err)
		if res.Success {
			successes++
			expectedPlatinum--
			assert.Equal(t, expectedPlatinum, v.Platinum)
		} else {
			sawFailure = true
			assert.Greater(t, res.Amount, int64(0))
			assert.Equal(t, expectedPlatinum, v.Platinum)
			assert.Equal(t, int64(0), v.Bronze)
		}

		// Reset the robbery cooldown between attempts.
		r, err := f.account.GetUser(ctx, 130)
		require.NoError(t, err)
		r.Cooldowns = map[string]int64{}
		require.NoError(t, f.users.Save(ctx, r))
	}
	require.True(t, sawFailure, "expected at least one failed attempt")

	r, err := f.account.GetUser(ctx, 130)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.RobFail)
	assert.Equal(t, int64(successes), r.RobSuccess)

	// The victim is only ever debited for successful robberies.
	entries, err := f.ledger.GetByUserID(ctx, 131, 100)
	require.NoError(t, err)
	robbed := 0
	for _, e := range entries {
		if e.Type == model.TxTypeRobbed {
			robbed++
		}
	}
	assert.Equal(t, successes, robbed,
		"victim must not be charged for a failed robbery")
}

func TestGameService_FlipSpinReadiness(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 132, "Uma", 100)

	require.NoError(t, f.games.FlipReady(ctx, 132))
	require.NoError(t, f.games.SpinReady(ctx, 132))

	_, err := f.games.Flip(ctx, 132, flip.Heads)
	require.NoError(t, err)

	// Flipping arms only the flip cooldown.
	require.ErrorIs(t, f.games.FlipReady(ctx, 132), game.ErrCooldownActive)
	require.NoError(t, f.games.SpinReady(ctx, 132))

	_, err = f.games.Spin(ctx, 132, spin.Red)
	require.NoError(t, err)
	require.ErrorIs(t, f.games.SpinReady(ctx, 132), game.ErrCooldownActive)

	require.ErrorIs(t, f.games.FlipReady(ctx, 999), game.ErrNotFound)
}

func TestTransferService_Pay(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 114, "Oli", 100)
	seedUser(t, f, 115, "Pia", 0)

	receiver, err := f.transfer.Pay(ctx, 114, 115, 60)
	require.NoError(t, err)
	assert.Equal(t, int64(60), receiver.Bronze)

	sender, err := f.account.GetUser(ctx, 114)
	require.NoError(t, err)
	assert.Equal(t, int64(40), sender.Bronze)

	_, err = f.transfer.Pay(ctx, 114, 115, 0)
	require.ErrorIs(t, err, game.ErrInvalidInput)
	_, err = f.transfer.Pay(ctx, 114, 114, 10)
	require.ErrorIs(t, err, game.ErrInvalidMove)
	_, err = f.transfer.Pay(ctx, 114, 999, 10)
	require.ErrorIs(t, err, game.ErrNotFound)
	_, err = f.transfer.Pay(ctx, 114, 115, 10_000)
	require.ErrorIs(t, err, game.ErrInsufficientBalance)
}

func TestConvertService_MaxAndAmount(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 116, "Quin", 250)

	out, err := f.convert.Max(ctx, 116, true, currency.TierBronze, currency.TierSilver, currency.UpgradeRate)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Gained)
	assert.Equal(t, int64(50), out.SrcAfter)
	assert.Equal(t, int64(2), out.DstAfter)

	// 50 bronze left cannot buy another silver.
	_, err = f.convert.Max(ctx, 116, true, currency.TierBronze, currency.TierSilver, currency.UpgradeRate)
	require.ErrorIs(t, err, currency.ErrNothingToConvert)

	// Downgrading consumes the whole silver balance.
	out, err = f.convert.Max(ctx, 116, false, currency.TierSilver, currency.TierBronze, currency.DowngradeRate)
	require.NoError(t, err)
	assert.Equal(t, int64(200), out.Gained)
	assert.Equal(t, int64(0), out.SrcAfter)
	assert.Equal(t, int64(250), out.DstAfter)

	out, err = f.convert.Amount(ctx, 116, true, currency.TierBronze, currency.TierSilver, currency.UpgradeRate, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Gained)
	assert.Equal(t, int64(50), out.SrcAfter)

	_, err = f.convert.Amount(ctx, 116, true, currency.TierBronze, currency.TierSilver, currency.UpgradeRate, 5)
	require.ErrorIs(t, err, currency.ErrInsufficientBalance)
}

func TestShopService_BuyAndEquip(t *testing.T) {
	f, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, f, 117, "Rae", 300)

	item, err := f.shop.BuyItem(ctx, 117, "Lucky Charm")
	require.NoError(t, err)
	assert.Equal(t, int64(200), item.Price)

	tool, err := f.shop.BuyTool(ctx, 117, "Wooden")
	require.NoError(t, err)
	assert.Equal(t, int64(50), tool.Price)

	u, err := f.account.GetUser(ctx, 117)
	require.NoError(t, err)
	assert.Equal(t, int64(50), u.Bronze)
	assert.Contains(t, u.Items, "Lucky Charm")
	assert.Contains(t, u.Tools, "Wooden")

	_, err = f.shop.BuyTool(ctx, 117, "Wooden")
	require.ErrorIs(t, err, game.ErrInvalidMove)
	_, err = f.shop.BuyItem(ctx, 117, "Royal Crown")
	require.ErrorIs(t, err, game.ErrInsufficientBalance)
	_, err = f.shop.BuyItem(ctx, 117, "Nonsense")
	require.ErrorIs(t, err, game.ErrNotFound)

	_, err = f.shop.Equip(ctx, 117, "Stone")
	require.ErrorIs(t, err, game.ErrInvalidMove)

	tool, err = f.shop.Equip(ctx, 117, "Wooden")
	require.NoError(t, err)
	assert.Equal(t, "Wooden", tool.Name)

	u, err = f.account.GetUser(ctx, 117)
	require.NoError(t, err)
	assert.Equal(t, "Wooden", u.Equipped)
}
