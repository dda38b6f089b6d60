package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/service"
	"gamebot/internal/shop"
)

// ShopHandler handles the shop, ore selling and tool equipping.
type ShopHandler struct {
	account *service.AccountService
	games   *service.GameService
	shop    *service.ShopService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(account *service.AccountService, games *service.GameService, shopSvc *service.ShopService) *ShopHandler {
	return &ShopHandler{account: account, games: games, shop: shopSvc}
}

// HandleShop shows the catalog. /buy is an alias.
func (h *ShopHandler) HandleShop(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	u, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	if err != nil {
		return replyError(c, err)
	}
	return c.Reply(shop.FormatShopMessage(u.Bronze), shop.BuildShopKeyboard())
}

// HandleSell offers the held ore stacks for sale.
func (h *ShopHandler) HandleSell(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	u, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	if err != nil {
		return replyError(c, err)
	}

	empty := true
	for _, n := range u.Ores {
		if n > 0 {
			empty = false
			break
		}
	}
	if empty {
		return c.Reply("📦 No ores to sell. Go /mine some first!")
	}
	return c.Reply("Which stack do you want to sell?", shop.BuildSellKeyboard(u.Ores))
}

// HandleEquip offers the owned tools.
func (h *ShopHandler) HandleEquip(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	u, _, err := h.account.EnsureUser(context.Background(), sender.ID, senderName(sender))
	if err != nil {
		return replyError(c, err)
	}

	if len(u.Tools) == 0 {
		return c.Reply("⛏ You don't own any tools yet. Check the /shop.")
	}
	return c.Reply("Pick a tool to equip:", shop.BuildEquipKeyboard(u.Tools))
}

// HandleShopCallback routes shop, sell and equip buttons.
func (h *ShopHandler) HandleShopCallback(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	data := callbackData(c)
	ctx := context.Background()

	switch {
	case strings.HasPrefix(data, shop.CallbackItem):
		item, err := h.shop.BuyItem(ctx, sender.ID, strings.TrimPrefix(data, shop.CallbackItem))
		if err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{Text: "Purchased!"})
		return c.Edit(fmt.Sprintf("%s %s bought %s for %d 🥉.", item.Emoji, senderName(sender), item.Name, item.Price))

	case strings.HasPrefix(data, shop.CallbackTool):
		tool, err := h.shop.BuyTool(ctx, sender.ID, strings.TrimPrefix(data, shop.CallbackTool))
		if err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{Text: "Purchased!"})
		return c.Edit(fmt.Sprintf(
			"⛏ %s bought the %s Pickaxe for %d 🥉. Equip it with /equip.",
			senderName(sender), tool.Name, tool.Price,
		))

	case strings.HasPrefix(data, shop.CallbackSell):
		sold, earned, err := h.games.SellOre(ctx, sender.ID, strings.TrimPrefix(data, shop.CallbackSell))
		if err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{})
		ore := strings.TrimPrefix(data, shop.CallbackSell)
		return c.Edit(fmt.Sprintf("💰 Sold %d× %s for %d 🥉.", sold, ore, earned))

	case strings.HasPrefix(data, shop.CallbackEquip):
		tool, err := h.shop.Equip(ctx, sender.ID, strings.TrimPrefix(data, shop.CallbackEquip))
		if err != nil {
			return respondError(c, err)
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(fmt.Sprintf("⛏ %s Pickaxe equipped (durability %d).", tool.Name, tool.Durability))
	}
	return nil
}
