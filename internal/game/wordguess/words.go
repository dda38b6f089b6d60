package wordguess

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"gamebot/internal/game"
)

//go:embed assets/*.json
var assetFS embed.FS

// Hint is the structured payload attached to each word in the pools.
type Hint struct {
	Meaning string `json:"meaning"`
	Example string `json:"example"`
}

var pools = map[Difficulty]map[string]Hint{
	Easy:   mustLoadPool("assets/easy.json"),
	Medium: mustLoadPool("assets/medium.json"),
	Hard:   mustLoadPool("assets/hard.json"),
}

func mustLoadPool(name string) map[string]Hint {
	raw, err := assetFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("wordguess: missing word pool %s: %v", name, err))
	}
	var pool map[string]Hint
	if err := json.Unmarshal(raw, &pool); err != nil {
		panic(fmt.Sprintf("wordguess: bad word pool %s: %v", name, err))
	}
	lowered := make(map[string]Hint, len(pool))
	for w, h := range pool {
		lowered[strings.ToLower(w)] = h
	}
	return lowered
}

// PickWord draws a random word from the difficulty pool.
func PickWord(rng *rand.Rand, d Difficulty) (string, Hint, error) {
	pool := pools[d]
	if len(pool) == 0 {
		return "", Hint{}, game.ErrNotFound
	}
	words := make([]string, 0, len(pool))
	for w := range pool {
		words = append(words, w)
	}
	sort.Strings(words)
	w := words[rng.Intn(len(words))]
	return w, pool[w], nil
}

// InPool reports whether a word belongs to the difficulty's pool.
func InPool(d Difficulty, word string) bool {
	_, ok := pools[d][strings.ToLower(word)]
	return ok
}

// PoolSize returns the number of words available at a difficulty.
func PoolSize(d Difficulty) int {
	return len(pools[d])
}
