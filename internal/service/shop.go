package service

import (
	"context"
	"fmt"

	"gamebot/internal/currency"
	"gamebot/internal/game"
	"gamebot/internal/game/mine"
	"gamebot/internal/model"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
	"gamebot/internal/shop"
)

// ShopService handles item and tool purchases and tool equipping.
type ShopService struct {
	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	locks  *lock.UserLock
}

// NewShopService creates a new ShopService instance.
func NewShopService(
	users *repository.UserRepository,
	ledger *repository.LedgerRepository,
	locks *lock.UserLock,
) *ShopService {
	return &ShopService{users: users, ledger: ledger, locks: locks}
}

// BuyItem purchases a catalog item for bronze and adds it to the
// inventory. Duplicates are allowed.
func (s *ShopService) BuyItem(ctx context.Context, userID int64, name string) (shop.Item, error) {
	item, ok := shop.ItemByName(name)
	if !ok {
		return shop.Item{}, fmt.Errorf("item %q: %w", name, game.ErrNotFound)
	}

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		if u.Bronze < item.Price {
			return fmt.Errorf("item costs %d, have %d: %w", item.Price, u.Bronze, game.ErrInsufficientBalance)
		}
		u.Bronze -= item.Price
		u.Items = append(u.Items, item.Name)
		return nil
	})
	if err != nil {
		return shop.Item{}, err
	}

	desc := item.Name
	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, -item.Price, model.TxTypeShop, &desc)
	return item, nil
}

// BuyTool purchases a mining tool. A tool is owned at most once.
func (s *ShopService) BuyTool(ctx context.Context, userID int64, name string) (mine.Tool, error) {
	tool, ok := mine.ToolByName(name)
	if !ok {
		return mine.Tool{}, fmt.Errorf("tool %q: %w", name, game.ErrNotFound)
	}

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		if u.OwnsTool(tool.Name) {
			return fmt.Errorf("tool %q already owned: %w", tool.Name, game.ErrInvalidMove)
		}
		if u.Bronze < tool.Price {
			return fmt.Errorf("tool costs %d, have %d: %w", tool.Price, u.Bronze, game.ErrInsufficientBalance)
		}
		u.Bronze -= tool.Price
		u.Tools = append(u.Tools, tool.Name)
		return nil
	})
	if err != nil {
		return mine.Tool{}, err
	}

	desc := tool.Name + " tool"
	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, -tool.Price, model.TxTypeShop, &desc)
	return tool, nil
}

// Equip sets an owned tool as the active one.
func (s *ShopService) Equip(ctx context.Context, userID int64, name string) (mine.Tool, error) {
	tool, ok := mine.ToolByName(name)
	if !ok {
		return mine.Tool{}, fmt.Errorf("tool %q: %w", name, game.ErrNotFound)
	}

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		if !u.OwnsTool(tool.Name) {
			return fmt.Errorf("tool %q not owned: %w", tool.Name, game.ErrInvalidMove)
		}
		u.Equipped = tool.Name
		return nil
	})
	if err != nil {
		return mine.Tool{}, err
	}
	return tool, nil
}
