package cart

import (
	"context"
	"sync"

	"mymat/internal/domain"
)

// Registry opens session carts and serializes access to each one, so concurrent requests
// from a single session apply their mutations one after another.
type Registry struct {
	storage Storage
	opts    []Option

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewRegistry(storage Storage, opts ...Option) *Registry {
	return &Registry{storage: storage, opts: opts, locks: map[string]*sessionLock{}}
}

// With loads the session's cart and runs fn with exclusive access to it.
func (r *Registry) With(ctx context.Context, sessionID string, fn func(*Store) error) error {
	l := r.acquire(sessionID)
	defer r.release(sessionID, l)
	return fn(Open(ctx, r.storage, Key(sessionID), r.opts...))
}

// Snapshot returns the session's current lines and totals.
func (r *Registry) Snapshot(ctx context.Context, sessionID string) ([]domain.CartItem, domain.Totals) {
	var (
		items  []domain.CartItem
		totals domain.Totals
	)
	_ = r.With(ctx, sessionID, func(s *Store) error {
		items, totals = s.Items(), s.Totals()
		return nil
	})
	return items, totals
}

func (r *Registry) acquire(id string) *sessionLock {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sessionLock{}
		r.locks[id] = l
	}
	l.refs++
	r.mu.Unlock()
	l.mu.Lock()
	return l
}

func (r *Registry) release(id string, l *sessionLock) {
	l.mu.Unlock()
	r.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, id)
	}
	r.mu.Unlock()
}

// activeLocks is used by tests to check that idle sessions leave nothing behind.
func (r *Registry) activeLocks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
