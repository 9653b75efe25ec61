// Package lock provides the run locks that keep batch runs from overlapping.
package lock

import (
	"context"
	"sync"

	"stock_sync/internal/feature/marketsync/usecase"
)

// LocalLock guards runs inside a single process.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]bool
}

var _ usecase.RunLock = (*LocalLock)(nil)

func NewLocalLock() *LocalLock {
	return &LocalLock{held: map[string]bool{}}
}

// Acquire never waits: it fails with usecase.ErrRunInProgress when key is taken.
func (l *LocalLock) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, usecase.ErrRunInProgress
	}
	l.held[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
