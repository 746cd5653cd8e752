package domain

import "errors"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// fulfilment position; cancelled sits outside the chain
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	for _, known := range OrderStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) String() string { return string(s) }

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves along pending -> processing -> shipped -> delivered may skip steps,
// cancelled is reachable from any non-terminal status, and nothing moves backwards.
// A same-status update is not a transition.
func CanTransition(from, to OrderStatus) bool {
	if from == to || from.Terminal() {
		return false
	}
	if _, ok := statusRank[from]; !ok {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > statusRank[from]
}

// Predecessors returns the statuses an order may be in for a move to `to` to be legal.
func Predecessors(to OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, from := range OrderStatuses {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}
