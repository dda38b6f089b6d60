package service

import (
	"math/rand"
	"sync"
	"time"
)

// lockedSource makes a rand source safe for the concurrent handler
// goroutines that share one service instance.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewRand returns a concurrency-safe rand suitable for sharing across
// services.
func NewRand() *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())})
}
