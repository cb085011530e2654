package task

import (
	"errors"
	"fmt"
	"slices"
)

// ErrSelfDependency is returned when a task is declared to follow itself.
var ErrSelfDependency = errors.New("labels cannot have a dependency on themselves")

// Order clarifies the precedence between two tasks. When Second is
// present, First must complete before Second may start. Without Second,
// the order is a standalone declaration of First.
type Order struct {
	first     Label
	second    Label
	hasSecond bool
}

// Precedes returns the order "first must precede second". A self edge is
// rejected with ErrSelfDependency.
func Precedes(first, second Label) (Order, error) {
	if first == second {
		return Order{}, fmt.Errorf("%w: %s", ErrSelfDependency, first)
	}
	return Order{first: first, second: second, hasSecond: true}, nil
}

// Standalone returns a node declaration for l with no forced successor.
func Standalone(l Label) Order {
	return Order{first: l}
}

// First returns the preceding (or standalone) task.
func (o Order) First() Label {
	return o.first
}

// Second returns the succeeding task and whether it is present.
func (o Order) Second() (Label, bool) {
	return o.second, o.hasSecond
}

// IsNode reports whether o is a standalone declaration.
func (o Order) IsNode() bool {
	return !o.hasSecond
}

// String renders the order as "A -> B", or just "A" for a standalone task.
func (o Order) String() string {
	if !o.hasSecond {
		return o.first.String()
	}
	return o.first.String() + " -> " + o.second.String()
}

// OrderSet is a deduplicated collection of orders. Declaring the same node
// standalone and again with edges keeps every distinct declaration, so a
// label's final edges are the union of everything that mentions it.
type OrderSet map[Order]struct{}

// NewOrderSet returns a set holding orders.
func NewOrderSet(orders ...Order) OrderSet {
	s := make(OrderSet, len(orders))
	for _, o := range orders {
		s.Add(o)
	}
	return s
}

// Add inserts o. Adding an order twice is a no-op.
func (s OrderSet) Add(o Order) {
	s[o] = struct{}{}
}

// Len returns the number of distinct orders.
func (s OrderSet) Len() int {
	return len(s)
}

// Sorted returns the orders ordered by first label, then standalone
// declarations before edges, then second label.
func (s OrderSet) Sorted() []Order {
	out := make([]Order, 0, len(s))
	for o := range s {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b Order) int {
		if c := a.first.Compare(b.first); c != 0 {
			return c
		}
		if a.hasSecond != b.hasSecond {
			if !a.hasSecond {
				return -1
			}
			return 1
		}
		return a.second.Compare(b.second)
	})
	return out
}
