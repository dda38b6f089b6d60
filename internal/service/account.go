// Package service implements the business logic between the Telegram
// handlers and the repositories. Every balance mutation goes through a
// per-user lock and lands in the ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gamebot/internal/currency"
	"gamebot/internal/game"
	"gamebot/internal/model"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
)

// DailyConfig drives the daily reward amounts and claim interval.
type DailyConfig struct {
	RewardMin int64
	RewardMax int64
	Cooldown  time.Duration
}

// AccountService handles profiles, the daily reward, and the shared
// bronze credit/debit primitives the session games build on.
type AccountService struct {
	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	locks  *lock.UserLock
	rng    *rand.Rand
	daily  DailyConfig
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	users *repository.UserRepository,
	ledger *repository.LedgerRepository,
	locks *lock.UserLock,
	rng *rand.Rand,
	daily DailyConfig,
) *AccountService {
	return &AccountService{
		users:  users,
		ledger: ledger,
		locks:  locks,
		rng:    rng,
		daily:  daily,
	}
}

// withUser loads the account, runs fn on it under the user lock, and
// persists the mutated record. fn returning an error aborts the save.
func withUser(
	ctx context.Context,
	users *repository.UserRepository,
	locks *lock.UserLock,
	userID int64,
	fn func(u *model.UserAccount) error,
) (*model.UserAccount, error) {
	var out *model.UserAccount

	err := locks.WithLock(userID, func() error {
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return fmt.Errorf("user %d: %w", userID, game.ErrNotFound)
			}
			return fmt.Errorf("load user %d: %w", userID, err)
		}

		if err := fn(u); err != nil {
			return err
		}

		if err := users.Save(ctx, u); err != nil {
			return fmt.Errorf("save user %d: %w", userID, err)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureUser ensures a profile exists, creating one if necessary, and
// refreshes a changed first name. Returns the account and whether it was
// newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, firstName string) (*model.UserAccount, bool, error) {
	u, created, err := s.users.GetOrCreate(ctx, telegramID, firstName)
	if err != nil {
		return nil, false, fmt.Errorf("ensure user: %w", err)
	}

	if !created && firstName != "" && u.FirstName != firstName {
		u.FirstName = firstName
		if err := s.users.Save(ctx, u); err != nil {
			return nil, false, fmt.Errorf("refresh first name: %w", err)
		}
	}
	return u, created, nil
}

// GetUser retrieves a profile by Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.UserAccount, error) {
	u, err := s.users.GetByID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("user %d: %w", telegramID, game.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

// ClaimDaily grants the daily bronze reward. When the claim interval has
// not elapsed it returns the remaining wait and game.ErrCooldownActive.
func (s *AccountService) ClaimDaily(ctx context.Context, telegramID int64) (int64, time.Duration, error) {
	var reward int64
	var remaining time.Duration

	_, err := withUser(ctx, s.users, s.locks, telegramID, func(u *model.UserAccount) error {
		now := time.Now()
		elapsed := now.Sub(time.Unix(u.LastDaily, 0))
		if u.LastDaily > 0 && elapsed < s.daily.Cooldown {
			remaining = s.daily.Cooldown - elapsed
			return fmt.Errorf("daily reward: %w", game.ErrCooldownActive)
		}

		reward = s.daily.RewardMin + s.rng.Int63n(s.daily.RewardMax-s.daily.RewardMin+1)
		u.Bronze += reward
		u.LastDaily = now.Unix()
		return nil
	})
	if err != nil {
		return 0, remaining, err
	}

	_, _ = s.ledger.Record(ctx, telegramID, currency.TierBronze, reward, model.TxTypeDaily, nil)
	return reward, 0, nil
}

// AwardBronze credits bronze to the account and records it in the ledger.
func (s *AccountService) AwardBronze(ctx context.Context, telegramID int64, amount int64, txType string) (*model.UserAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("award of %d: %w", amount, game.ErrInvalidInput)
	}

	u, err := withUser(ctx, s.users, s.locks, telegramID, func(u *model.UserAccount) error {
		u.Bronze += amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, _ = s.ledger.Record(ctx, telegramID, currency.TierBronze, amount, txType, nil)
	return u, nil
}

// SpendBronze debits bronze from the account, failing with
// game.ErrInsufficientBalance when the wallet cannot cover it.
func (s *AccountService) SpendBronze(ctx context.Context, telegramID int64, amount int64, txType string) (*model.UserAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit of %d: %w", amount, game.ErrInvalidInput)
	}

	u, err := withUser(ctx, s.users, s.locks, telegramID, func(u *model.UserAccount) error {
		if u.Bronze < amount {
			return fmt.Errorf("need %d bronze, have %d: %w", amount, u.Bronze, game.ErrInsufficientBalance)
		}
		u.Bronze -= amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, _ = s.ledger.Record(ctx, telegramID, currency.TierBronze, -amount, txType, nil)
	return u, nil
}
