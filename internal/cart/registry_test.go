package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"mymat/internal/domain"
)

func TestRegistrySerializesSessionMutations(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStorage())
	p := domain.Product{ID: "p1", Name: "Mat", Price: decimal.NewFromInt(10)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.With(ctx, "sid", func(s *Store) error { return s.Add(ctx, p) })
		}()
	}
	wg.Wait()

	items, totals := r.Snapshot(ctx, "sid")
	if len(items) != 1 || items[0].Quantity != 50 {
		t.Fatalf("lost updates: %+v", items)
	}
	if totals.Items != 50 {
		t.Fatalf("want 50 items in totals, got %d", totals.Items)
	}
	if n := r.activeLocks(); n != 0 {
		t.Fatalf("idle sessions should release their locks, %d left", n)
	}
}
