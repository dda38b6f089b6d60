// Package mine implements ore mining, the tool catalog, and ore sale
// pricing.
package mine

import (
	"math/rand"

	"gamebot/internal/game"
	"gamebot/internal/pkg/weighted"
)

// Cooldown is the seconds between mining swings.
const Cooldown = 5

// Ore describes one minable ore type.
type Ore struct {
	Name   string
	Value  int64
	Rarity int64
}

// Ores is the mining table, rarest last. Rarity doubles as the
// selection weight.
var Ores = []Ore{
	{Name: "Coal", Value: 2, Rarity: 60},
	{Name: "Copper", Value: 5, Rarity: 45},
	{Name: "Iron", Value: 12, Rarity: 30},
	{Name: "Gold", Value: 25, Rarity: 15},
	{Name: "Diamond", Value: 100, Rarity: 5},
}

// Tool describes a purchasable mining tool.
type Tool struct {
	Name       string
	Power      int64
	Durability int64
	Price      int64
}

// Tools is the tool catalog, cheapest first.
var Tools = []Tool{
	{Name: "Wooden", Power: 1, Durability: 50, Price: 50},
	{Name: "Stone", Power: 2, Durability: 100, Price: 150},
	{Name: "Iron", Power: 3, Durability: 150, Price: 400},
	{Name: "Platinum", Power: 5, Durability: 275, Price: 3000},
	{Name: "Diamond", Power: 7, Durability: 350, Price: 8000},
	{Name: "Emerald", Power: 9, Durability: 450, Price: 20000},
}

// ToolByName looks up a tool in the catalog.
func ToolByName(name string) (Tool, bool) {
	for _, t := range Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// OreValue returns the sell price per unit of an ore. Unknown ores
// sell for 1 bronze.
func OreValue(name string) int64 {
	for _, o := range Ores {
		if o.Name == name {
			return o.Value
		}
	}
	return 1
}

// Dig performs one mining swing: a rarity-weighted ore draw plus a
// 1 to 3 unit amount.
func Dig(rng *rand.Rand) (string, int64, error) {
	choices := make([]weighted.Choice[string], len(Ores))
	for i, o := range Ores {
		choices[i] = weighted.Choice[string]{Label: o.Name, Weight: o.Rarity}
	}
	ore, err := weighted.Pick(rng, choices)
	if err != nil {
		return "", 0, err
	}
	amount := 1 + rng.Int63n(3)
	return ore, amount, nil
}

// SellAll sells the full stack of one ore out of the given holdings.
// It returns the units sold and the bronze earned, and removes the
// ore from the map.
func SellAll(ores map[string]int64, name string) (int64, int64, error) {
	amount := ores[name]
	if amount <= 0 {
		return 0, 0, game.ErrNotFound
	}
	earned := amount * OreValue(name)
	delete(ores, name)
	return amount, earned, nil
}
