package service

import (
	"context"
	"fmt"

	"gamebot/internal/currency"
	"gamebot/internal/model"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
)

// ConvertService applies tier conversions to an account.
type ConvertService struct {
	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	locks  *lock.UserLock
}

// NewConvertService creates a new ConvertService instance.
func NewConvertService(
	users *repository.UserRepository,
	ledger *repository.LedgerRepository,
	locks *lock.UserLock,
) *ConvertService {
	return &ConvertService{users: users, ledger: ledger, locks: locks}
}

// ConvertOutcome reports a finished conversion and the balances left on
// both sides of the pair.
type ConvertOutcome struct {
	Gained   int64
	SrcAfter int64
	DstAfter int64
}

// Max converts as much src into dst as the rate allows. Upgrades leave
// the indivisible remainder in src; downgrades consume src entirely.
func (s *ConvertService) Max(ctx context.Context, userID int64, up bool, src, dst string, rate int64) (ConvertOutcome, error) {
	return s.convert(ctx, userID, src, dst, func(u *model.UserAccount) (int64, error) {
		return currency.ConvertMax(u, up, src, dst, rate)
	})
}

// Amount converts a user-chosen amount: dst units wanted for upgrades,
// src units consumed for downgrades. Nothing moves if it cannot be
// afforded.
func (s *ConvertService) Amount(ctx context.Context, userID int64, up bool, src, dst string, rate, amount int64) (ConvertOutcome, error) {
	return s.convert(ctx, userID, src, dst, func(u *model.UserAccount) (int64, error) {
		return currency.ConvertAmount(u, up, src, dst, rate, amount)
	})
}

func (s *ConvertService) convert(
	ctx context.Context,
	userID int64,
	src, dst string,
	apply func(u *model.UserAccount) (int64, error),
) (ConvertOutcome, error) {
	var out ConvertOutcome
	var spent int64

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		before, err := currency.Balance(u, src)
		if err != nil {
			return err
		}

		out.Gained, err = apply(u)
		if err != nil {
			return err
		}

		out.SrcAfter, err = currency.Balance(u, src)
		if err != nil {
			return err
		}
		out.DstAfter, err = currency.Balance(u, dst)
		if err != nil {
			return err
		}
		spent = before - out.SrcAfter
		return nil
	})
	if err != nil {
		return ConvertOutcome{}, err
	}

	desc := fmt.Sprintf("%s -> %s", src, dst)
	_, _ = s.ledger.Record(ctx, userID, src, -spent, model.TxTypeConvert, &desc)
	_, _ = s.ledger.Record(ctx, userID, dst, out.Gained, model.TxTypeConvert, &desc)
	return out, nil
}
