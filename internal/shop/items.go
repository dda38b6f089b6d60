// Package shop holds the item catalog and the inline keyboards for the
// shop, sell and equip flows.
package shop

// Item is a purchasable trinket. Unlike tools, items have no gameplay
// hook yet; they sit in the inventory and show on the profile.
type Item struct {
	Name  string
	Emoji string
	Price int64
}

// Items is the catalog in display order, cheapest first.
var Items = []Item{
	{Name: "Lucky Charm", Emoji: "🍀", Price: 200},
	{Name: "Golden Key", Emoji: "🗝️", Price: 350},
	{Name: "Magic Potion", Emoji: "🧪", Price: 500},
	{Name: "Royal Crown", Emoji: "👑", Price: 900},
}

// ItemByName looks up a catalog item.
func ItemByName(name string) (Item, bool) {
	for _, it := range Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}
