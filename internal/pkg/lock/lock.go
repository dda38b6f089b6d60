// Package lock provides per-user mutual exclusion so that commands
// touching the same account never interleave their read-modify-write.
package lock

import (
	"errors"
	"sync"
)

// ErrLockHeld is returned by WithTryLock when the user's lock is
// already taken by another in-flight command.
var ErrLockHeld = errors.New("user lock already held")

// UserLock hands out one mutex per user ID.
type UserLock struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewUserLock creates an empty UserLock.
func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[int64]*sync.Mutex)}
}

func (ul *UserLock) get(userID int64) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	m, ok := ul.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		ul.locks[userID] = m
	}
	return m
}

// Lock blocks until the user's lock is acquired.
func (ul *UserLock) Lock(userID int64) {
	ul.get(userID).Lock()
}

// Unlock releases the user's lock.
func (ul *UserLock) Unlock(userID int64) {
	ul.get(userID).Unlock()
}

// TryLock acquires the user's lock without blocking. It reports
// whether the lock was taken.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.get(userID).TryLock()
}

// WithLock runs fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// WithTryLock runs fn while holding the user's lock, or returns
// ErrLockHeld immediately if the lock is taken.
func (ul *UserLock) WithTryLock(userID int64, fn func() error) error {
	if !ul.TryLock(userID) {
		return ErrLockHeld
	}
	defer ul.Unlock(userID)
	return fn()
}
