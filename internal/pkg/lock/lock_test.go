package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLockSerializesSameUser(t *testing.T) {
	ul := NewUserLock()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ul.WithLock(7, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestUserLockIndependentUsers(t *testing.T) {
	ul := NewUserLock()

	ul.Lock(1)
	// A different user must not be blocked.
	require.True(t, ul.TryLock(2))
	ul.Unlock(2)
	ul.Unlock(1)
}

func TestWithTryLock(t *testing.T) {
	ul := NewUserLock()

	ul.Lock(5)
	err := ul.WithTryLock(5, func() error { return nil })
	assert.ErrorIs(t, err, ErrLockHeld)
	ul.Unlock(5)

	called := false
	err = ul.WithTryLock(5, func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
