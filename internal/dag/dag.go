// Package dag analyzes directed acyclic graphs of timed tasks. It computes
// the minimum completion time under unlimited parallelism, the peak number
// of simultaneously ready tasks, and every critical path, while detecting
// dependency cycles.
package dag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/critpath/internal/task"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("there's a cycle in the schedule")

// ErrEmptyInput is returned when there are neither orders nor durations.
var ErrEmptyInput = errors.New("input is empty")

// ErrMissingDurations is the sentinel wrapped by MissingDurationsError.
var ErrMissingDurations = errors.New("schedule is missing durations")

// ErrMissingOrders is the sentinel wrapped by MissingOrdersError.
var ErrMissingOrders = errors.New("schedule is missing orders")

// MissingDurationsError lists labels that appear in the orders but have no
// recorded duration. Labels are sorted.
type MissingDurationsError struct {
	Labels []task.Label
}

func (e *MissingDurationsError) Error() string {
	return fmt.Sprintf("%v for: %s", ErrMissingDurations, quoteLabels(e.Labels))
}

func (e *MissingDurationsError) Unwrap() error { return ErrMissingDurations }

// MissingOrdersError lists labels that have a duration but never appear in
// the orders. Labels are sorted.
type MissingOrdersError struct {
	Labels []task.Label
}

func (e *MissingOrdersError) Error() string {
	return fmt.Sprintf("%v for: %s", ErrMissingOrders, quoteLabels(e.Labels))
}

func (e *MissingOrdersError) Unwrap() error { return ErrMissingOrders }

func quoteLabels(labels []task.Label) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("%q", l.String())
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Graph is the adjacency form of a set of orders. Every label mentioned by
// any order has an in-degree entry, including isolated sources.
type Graph struct {
	// successors maps a task to the tasks it precedes. Only labels that
	// appear as the first element of an order have an entry.
	successors map[task.Label][]task.Label
	// inDegree maps every known task to its number of preceding tasks.
	inDegree map[task.Label]int
}

// Build constructs a Graph from a deduplicated set of orders. Successor
// lists come out sorted by label.
func Build(orders task.OrderSet) *Graph {
	g := &Graph{
		successors: make(map[task.Label][]task.Label),
		inDegree:   make(map[task.Label]int),
	}
	for _, o := range orders.Sorted() {
		first := o.First()
		if _, ok := g.inDegree[first]; !ok {
			g.inDegree[first] = 0
		}
		adj := g.successors[first]
		if second, ok := o.Second(); ok {
			adj = append(adj, second)
			g.inDegree[second]++
		}
		g.successors[first] = adj
	}
	return g
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.inDegree)
}

// Has reports whether l is a task of the graph.
func (g *Graph) Has(l task.Label) bool {
	_, ok := g.inDegree[l]
	return ok
}

// Successors returns the tasks that l precedes, sorted. The slice is shared
// with the graph and must not be modified.
func (g *Graph) Successors(l task.Label) []task.Label {
	return g.successors[l]
}

// InDegree returns the number of orders in which l is the successor.
func (g *Graph) InDegree(l task.Label) int {
	return g.inDegree[l]
}

// Labels returns every task of the graph, sorted.
func (g *Graph) Labels() []task.Label {
	labels := make([]task.Label, 0, len(g.inDegree))
	for l := range g.inDegree {
		labels = append(labels, l)
	}
	task.SortLabels(labels)
	return labels
}

// Sources returns tasks with no preceding task, sorted.
func (g *Graph) Sources() []task.Label {
	var sources []task.Label
	for l, deg := range g.inDegree {
		if deg == 0 {
			sources = append(sources, l)
		}
	}
	task.SortLabels(sources)
	return sources
}

// validate checks that durations and orders cover exactly the same labels.
func (g *Graph) validate(durations map[task.Label]task.Duration) error {
	var missing []task.Label
	for _, l := range g.Labels() {
		if _, ok := durations[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		return &MissingDurationsError{Labels: missing}
	}

	if len(durations) != len(g.inDegree) {
		for l := range durations {
			if !g.Has(l) {
				missing = append(missing, l)
			}
		}
		task.SortLabels(missing)
		return &MissingOrdersError{Labels: missing}
	}
	return nil
}
