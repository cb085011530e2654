package dag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/papapumpkin/critpath/internal/task"
)

// Path is a sequence of tasks read from source to sink.
type Path []task.Label

// Duration sums the durations of the tasks on p.
func (p Path) Duration(durations map[task.Label]task.Duration) task.TotalDuration {
	var total task.TotalDuration
	for _, l := range p {
		total += task.TotalDuration(durations[l])
	}
	return total
}

// String joins the labels with DefaultDelimiter.
func (p Path) String() string {
	return strings.Join(task.Strings(p), DefaultDelimiter)
}

// comparePaths puts paths with more tasks first and falls back to the
// lexicographic order of their labels.
func comparePaths(a, b Path) int {
	if len(a) != len(b) {
		return len(b) - len(a)
	}
	return slices.CompareFunc(a, b, task.Label.Compare)
}

// criticalPaths is the reconstructor's output.
type criticalPaths struct {
	paths     []Path
	duration  task.TotalDuration
	truncated bool
}

// findCriticalPaths enumerates every path whose duration equals the
// heaviest sink. When limit is positive, enumeration stops after limit
// paths and the result is marked truncated.
func findCriticalPaths(r *relaxation, limit int) criticalPaths {
	var cp criticalPaths
	for _, sink := range r.sinks {
		cp.duration = max(cp.duration, r.longest[sink])
	}

	var ends []task.Label
	for _, sink := range r.sinks {
		if r.longest[sink] == cp.duration {
			ends = append(ends, sink)
		}
	}
	task.SortLabels(ends)

	// Visit parents in label order so a truncated enumeration always keeps
	// the same subset.
	parents := make(map[task.Label][]task.Label, len(r.parents))
	for l, ps := range r.parents {
		sorted := slices.Clone(ps)
		task.SortLabels(sorted)
		parents[l] = sorted
	}

	for _, sink := range ends {
		if cp.truncated = backtrack(parents, sink, limit, &cp.paths); cp.truncated {
			break
		}
	}

	slices.SortFunc(cp.paths, comparePaths)
	for i := 1; i < len(cp.paths); i++ {
		if comparePaths(cp.paths[i-1], cp.paths[i]) == 0 {
			panic(fmt.Sprintf("dag: duplicate critical path %v", cp.paths[i]))
		}
	}
	return cp
}

// backtrack walks parent links from sink back to every source reachable
// through them, appending each completed path to out source-first. It
// reports whether limit was reached before the walk finished.
func backtrack(parents map[task.Label][]task.Label, sink task.Label, limit int, out *[]Path) bool {
	// Each frame is a partial path stored sink-first.
	stack := []Path{{sink}}
	for len(stack) > 0 {
		tail := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		head := tail[len(tail)-1]
		ps, ok := parents[head]
		if !ok {
			if limit > 0 && len(*out) >= limit {
				return true
			}
			path := slices.Clone(tail)
			slices.Reverse(path)
			*out = append(*out, path)
			continue
		}
		// Push in reverse so the smallest parent is expanded first.
		for i := len(ps) - 1; i >= 0; i-- {
			next := make(Path, len(tail), len(tail)+1)
			copy(next, tail)
			stack = append(stack, append(next, ps[i]))
		}
	}
	return false
}
