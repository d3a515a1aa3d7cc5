package datatable

import (
	"sync"
)

// OrderHistory is the accumulated sort intent of one grid.
// The widget only reports the columns the user just clicked, the history keeps
// the columns sorted earlier underneath them so the remote side always receives
// the full multi column ordering.
type OrderHistory struct {
	order Order
	lock  sync.Mutex
}

func NewOrderHistory(order Order) *OrderHistory {

	h := &OrderHistory{}
	h.Restore(order)
	return h
}

// Merge puts the given directives first, in the given order, followed by the
// previous entries for every other column in their previous relative order.
// The result is stored and a copy is returned for use as the outgoing order.
func (h *OrderHistory) Merge(order Order) Order {

	h.lock.Lock()
	defer h.lock.Unlock()

	order = unique(order)

	touched := map[int]bool{}
	for _, v := range order {
		touched[v.Column] = true
	}

	merged := make(Order, 0, len(order)+len(h.order))
	merged = append(merged, order...)

	for _, v := range h.order {
		if !touched[v.Column] {
			merged = append(merged, v)
		}
	}

	h.order = merged

	return merged.Copy()
}

func (h *OrderHistory) Directives() Order {

	h.lock.Lock()
	defer h.lock.Unlock()

	return h.order.Copy()
}

// Restore replaces the history, used when loading saved state
func (h *OrderHistory) Restore(order Order) {

	h.lock.Lock()
	defer h.lock.Unlock()

	h.order = unique(order)
}

func (h *OrderHistory) Len() int {

	h.lock.Lock()
	defer h.lock.Unlock()

	return len(h.order)
}

// unique keeps the first directive for each column
func unique(order Order) Order {

	seen := make(map[int]bool, len(order))
	ret := make(Order, 0, len(order))

	for _, v := range order {
		if !seen[v.Column] {
			seen[v.Column] = true
			ret = append(ret, v)
		}
	}

	return ret
}
