// Package cart holds a browsing session's cart and mirrors it to persistent storage.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"mymat/internal/domain"
	applog "mymat/internal/log"
)

// StorageKey prefixes every persisted cart; the session id follows after a colon.
const StorageKey = "cart-storage"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Key(sessionID string) string { return StorageKey + ":" + sessionID }

type Option func(*Store)

// WithMutationHook registers a callback run after every mutation with the operation name.
func WithMutationHook(fn func(op string)) Option {
	return func(s *Store) { s.onMutate = fn }
}

// Store is the authoritative list of cart lines for one session. A Store is not safe for
// concurrent use; Registry hands it to one caller at a time.
type Store struct {
	key      string
	storage  Storage
	items    []domain.CartItem
	onMutate func(op string)
}

// Open restores the cart stored under key. Missing or unreadable data yields an empty cart.
func Open(ctx context.Context, storage Storage, key string, opts ...Option) *Store {
	s := &Store{key: key, storage: storage}
	for _, opt := range opts {
		opt(s)
	}
	data, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		applog.Info(nil, "cart.load.fail", map[string]any{"key": key, "error": err.Error()})
	default:
		var items []domain.CartItem
		if err := json.Unmarshal(data, &items); err != nil {
			applog.Info(nil, "cart.load.corrupt", map[string]any{"key": key})
			break
		}
		s.items = sanitize(items)
	}
	return s
}

// sanitize drops lines that break the quantity >= 1 invariant or lost their id.
func sanitize(items []domain.CartItem) []domain.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != "" && it.Quantity >= 1 {
			out = append(out, it)
		}
	}
	return out
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []domain.CartItem { return slices.Clone(s.items) }

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Totals() domain.Totals { return domain.ComputeTotals(s.items) }

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool { return it.ID == id })
}

// Add increments the line for p, or appends p with quantity 1.
func (s *Store) Add(ctx context.Context, p domain.Product) error {
	next := slices.Clone(s.items)
	if i := s.index(p.ID); i >= 0 {
		next[i].Quantity++
	} else {
		p.CreatedAt, p.UpdatedAt = "", ""
		next = append(next, domain.CartItem{Product: p, Quantity: 1})
	}
	return s.commit(ctx, "add", next)
}

// UpdateQuantity sets a line's quantity in place; qty <= 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, id)
	}
	i := s.index(id)
	if i < 0 {
		return nil
	}
	next := slices.Clone(s.items)
	next[i].Quantity = qty
	return s.commit(ctx, "update", next)
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if s.index(id) < 0 {
		return nil
	}
	next := slices.DeleteFunc(slices.Clone(s.items), func(it domain.CartItem) bool { return it.ID == id })
	return s.commit(ctx, "remove", next)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, "clear", nil)
}

// commit swaps in the new snapshot, then writes the whole list. The in-memory state is
// kept even when the write fails.
func (s *Store) commit(ctx context.Context, op string, next []domain.CartItem) error {
	if next == nil {
		next = []domain.CartItem{}
	}
	s.items = next
	if s.onMutate != nil {
		s.onMutate(op)
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save cart %s: %w", s.key, err)
	}
	return nil
}
