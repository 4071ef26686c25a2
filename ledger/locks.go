package ledger

import (
	"context"
	"sync"
)

// userLocks hands out one exclusive lock per user id. Entries are never
// evicted; users are never deleted either.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]chan struct{}
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]chan struct{})}
}

func (l *userLocks) get(userID uint) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.locks[userID]; !exists {
		l.locks[userID] = make(chan struct{}, 1)
	}
	return l.locks[userID]
}

// acquire blocks until the user's lock is free or ctx is done.
func (l *userLocks) acquire(ctx context.Context, userID uint) (func(), error) {
	lock := l.get(userID)
	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
