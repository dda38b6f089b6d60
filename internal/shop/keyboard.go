package shop

import (
	"fmt"
	"sort"

	tele "gopkg.in/telebot.v3"

	"gamebot/internal/game/mine"
)

// Callback data prefixes routed by the shop handler.
const (
	CallbackItem  = "shop_item:" // shop_item:Lucky Charm
	CallbackTool  = "shop_tool:" // shop_tool:Wooden
	CallbackSell  = "sell:"      // sell:Coal
	CallbackEquip = "equip:"     // equip:Wooden
)

// BuildShopKeyboard lists the item section and the tool section, one
// button per product.
func BuildShopKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row

	for _, it := range Items {
		btn := markup.Data(
			fmt.Sprintf("%s %s · %d 🥉", it.Emoji, it.Name, it.Price),
			CallbackItem+it.Name,
		)
		rows = append(rows, markup.Row(btn))
	}
	for _, t := range mine.Tools {
		btn := markup.Data(
			fmt.Sprintf("⛏ %s Pickaxe · %d 🥉", t.Name, t.Price),
			CallbackTool+t.Name,
		)
		rows = append(rows, markup.Row(btn))
	}

	markup.Inline(rows...)
	return markup
}

// BuildSellKeyboard offers one button per held ore stack, in stable
// name order.
func BuildSellKeyboard(ores map[string]int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	names := make([]string, 0, len(ores))
	for name, n := range ores {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var rows []tele.Row
	for _, name := range names {
		label := fmt.Sprintf("%s ×%d · %d 🥉 each", name, ores[name], mine.OreValue(name))
		rows = append(rows, markup.Row(markup.Data(label, CallbackSell+name)))
	}

	markup.Inline(rows...)
	return markup
}

// BuildEquipKeyboard offers one button per owned tool.
func BuildEquipKeyboard(tools []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, name := range tools {
		rows = append(rows, markup.Row(markup.Data("⛏ "+name, CallbackEquip+name)))
	}

	markup.Inline(rows...)
	return markup
}

// FormatShopMessage renders the shop header with the buyer's balance.
func FormatShopMessage(bronze int64) string {
	return fmt.Sprintf("🏪 Shop\n\nYour balance: %d 🥉 bronze\nPick something below:", bronze)
}
