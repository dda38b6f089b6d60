// Package wordchain implements the word-chain game: each accepted
// word must start with the last letter of the previous one, come from
// the chosen category list, and not repeat.
package wordchain

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"math/rand"
	"strings"

	"gamebot/internal/game"
)

//go:embed assets/*.txt
var assetFS embed.FS

// Category is one of the selectable word lists.
type Category string

const (
	Cities     Category = "cities"
	Nouns      Category = "nouns"
	Animals    Category = "animals"
	Fruits     Category = "fruits"
	Vegetables Category = "vegetables"
)

// Categories lists every playable category in display order.
var Categories = []Category{Cities, Nouns, Animals, Fruits, Vegetables}

var wordSets = map[Category]map[string]bool{
	Cities:     mustLoadSet("assets/cities.txt"),
	Nouns:      mustLoadSet("assets/nouns.txt"),
	Animals:    mustLoadSet("assets/animals.txt"),
	Fruits:     mustLoadSet("assets/fruits.txt"),
	Vegetables: mustLoadSet("assets/vegetables.txt"),
}

func mustLoadSet(name string) map[string]bool {
	raw, err := assetFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("wordchain: missing word list %s: %v", name, err))
	}
	set := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// ParseCategory validates a category name from a callback.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == strings.ToLower(s) {
			return c, nil
		}
	}
	return "", game.ErrInvalidInput
}

// Session is the chain state for one chat.
type Session struct {
	Category Category
	// LastLetter is the letter the next word must start with.
	LastLetter string
	used       map[string]bool
}

// NewSession starts a chain with a random seed word from the category
// and returns the session together with the bot's opening word.
func NewSession(rng *rand.Rand, c Category) (*Session, string, error) {
	set := wordSets[c]
	if len(set) == 0 {
		return nil, "", game.ErrNotFound
	}
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	first := words[rng.Intn(len(words))]

	s := &Session{
		Category:   c,
		LastLetter: lastLetter(first),
		used:       map[string]bool{first: true},
	}
	return s, first, nil
}

// RejectReason classifies why a word was refused.
type RejectReason int

const (
	// RejectWrongLetter means the word does not start with the
	// required letter.
	RejectWrongLetter RejectReason = iota + 1
	// RejectUnknownWord means the word is not in the category list.
	RejectUnknownWord
	// RejectUsedWord means the word already appeared in this chain.
	RejectUsedWord
)

// Submit plays one word. On acceptance it records the word, advances
// the required letter, and returns that letter. Refusals carry a
// reason and ErrInvalidInput.
func (s *Session) Submit(word string) (string, RejectReason, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	if !strings.HasPrefix(word, s.LastLetter) {
		return "", RejectWrongLetter, game.ErrInvalidInput
	}
	if !wordSets[s.Category][word] {
		return "", RejectUnknownWord, game.ErrInvalidInput
	}
	if s.used[word] {
		return "", RejectUsedWord, game.ErrInvalidInput
	}

	s.used[word] = true
	s.LastLetter = lastLetter(word)
	return s.LastLetter, 0, nil
}

// UsedCount reports how many words the chain has consumed, including
// the bot's seed word.
func (s *Session) UsedCount() int {
	return len(s.used)
}

func lastLetter(w string) string {
	r := []rune(w)
	return string(r[len(r)-1])
}
