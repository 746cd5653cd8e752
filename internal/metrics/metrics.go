// Package metrics owns the Prometheus registry and the shop's counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	OrdersPlaced     prometheus.Counter
	CheckoutFailures *prometheus.CounterVec
	StatusChanges    *prometheus.CounterVec
	CartMutations    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		Registry: reg,
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mymat",
			Name:      "orders_placed_total",
			Help:      "Orders written by checkout.",
		}),
		CheckoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mymat",
			Name:      "checkout_failures_total",
			Help:      "Rejected or failed checkouts by reason.",
		}, []string{"reason"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mymat",
			Name:      "order_status_changes_total",
			Help:      "Order status transitions applied by admins.",
		}, []string{"from", "to"}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mymat",
			Name:      "cart_mutations_total",
			Help:      "Cart store mutations by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.OrdersPlaced, m.CheckoutFailures, m.StatusChanges, m.CartMutations)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
