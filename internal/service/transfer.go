package service

import (
	"context"
	"errors"
	"fmt"

	"gamebot/internal/currency"
	"gamebot/internal/game"
	"gamebot/internal/model"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
)

// TransferService moves bronze between two players via /pay.
type TransferService struct {
	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	locks  *lock.UserLock
}

// NewTransferService creates a new TransferService instance.
func NewTransferService(
	users *repository.UserRepository,
	ledger *repository.LedgerRepository,
	locks *lock.UserLock,
) *TransferService {
	return &TransferService{users: users, ledger: ledger, locks: locks}
}

// Pay moves bronze from the sender to the replied-to receiver. The
// receiver must already have a profile; amounts below one and self
// payments are rejected before anything moves.
func (s *TransferService) Pay(ctx context.Context, fromID, toID, amount int64) (*model.UserAccount, error) {
	if amount < 1 {
		return nil, fmt.Errorf("pay amount %d: %w", amount, game.ErrInvalidInput)
	}
	if fromID == toID {
		return nil, fmt.Errorf("self payment: %w", game.ErrInvalidMove)
	}

	var receiver *model.UserAccount
	err := s.lockPair(fromID, toID, func() error {
		sender, err := s.users.GetByID(ctx, fromID)
		if err != nil {
			return wrapNotFound(err, fromID)
		}
		receiver, err = s.users.GetByID(ctx, toID)
		if err != nil {
			return wrapNotFound(err, toID)
		}

		if sender.Bronze < amount {
			return fmt.Errorf("need %d bronze, have %d: %w", amount, sender.Bronze, game.ErrInsufficientBalance)
		}

		sender.Bronze -= amount
		receiver.Bronze += amount

		if err := s.users.Save(ctx, sender); err != nil {
			return fmt.Errorf("save sender: %w", err)
		}
		if err := s.users.Save(ctx, receiver); err != nil {
			return fmt.Errorf("save receiver: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("to %d", toID)
	_, _ = s.ledger.Record(ctx, fromID, currency.TierBronze, -amount, model.TxTypePay, &desc)
	desc = fmt.Sprintf("from %d", fromID)
	_, _ = s.ledger.Record(ctx, toID, currency.TierBronze, amount, model.TxTypePay, &desc)
	return receiver, nil
}

func (s *TransferService) lockPair(a, b int64, fn func() error) error {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	return s.locks.WithLock(first, func() error {
		return s.locks.WithLock(second, fn)
	})
}

func wrapNotFound(err error, id int64) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("user %d: %w", id, game.ErrNotFound)
	}
	return fmt.Errorf("load user %d: %w", id, err)
}
