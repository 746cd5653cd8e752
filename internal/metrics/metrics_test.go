package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExposed(t *testing.T) {
	m := New()
	m.OrdersPlaced.Inc()
	m.StatusChanges.WithLabelValues("pending", "shipped").Inc()
	m.CartMutations.WithLabelValues("add").Add(2)

	if got := testutil.ToFloat64(m.CartMutations.WithLabelValues("add")); got != 2 {
		t.Fatalf("want 2 adds, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	s := string(body)
	for _, want := range []string{
		"mymat_orders_placed_total 1",
		`mymat_order_status_changes_total{from="pending",to="shipped"} 1`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
