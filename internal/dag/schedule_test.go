package dag

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/papapumpkin/critpath/internal/task"
)

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestRelax_LongestAndParents(t *testing.T) {
	t.Parallel()
	// A(1) -> B(2) -> D(1)
	// A(1) -> C(2) -> D(1)
	g := Build(orderSet(t, "A->B", "A->C", "B->D", "C->D"))
	ds := durs{{"A", 1}, {"B", 2}, {"C", 2}, {"D", 1}}.build(t)

	r, err := relax(g, ds, discardLogger())
	if err != nil {
		t.Fatalf("relax: %v", err)
	}

	wantLongest := map[string]task.TotalDuration{"A": 1, "B": 3, "C": 3, "D": 4}
	for name, want := range wantLongest {
		if got := r.longest[label(t, name)]; got != want {
			t.Errorf("longest[%s] = %d, want %d", name, got, want)
		}
	}

	parentsD := slices.Clone(r.parents[label(t, "D")])
	task.SortLabels(parentsD)
	if got := labelNames(parentsD); got != "B,C" {
		t.Errorf("parents[D] = %s, want B,C", got)
	}
	if _, ok := r.parents[label(t, "A")]; ok {
		t.Error("source A has parents")
	}
	if got := labelNames(r.sinks); got != "D" {
		t.Errorf("sinks = %s, want D", got)
	}
	if r.maxParallelism != 2 {
		t.Errorf("maxParallelism = %d, want 2", r.maxParallelism)
	}
}

func TestRelax_StrictlyLongerReplacesParents(t *testing.T) {
	t.Parallel()
	// B(1) finishes before C(5); C must replace B as D's parent.
	g := Build(orderSet(t, "A->B", "A->C", "B->D", "C->D"))
	ds := durs{{"A", 1}, {"B", 1}, {"C", 5}, {"D", 1}}.build(t)

	r, err := relax(g, ds, discardLogger())
	if err != nil {
		t.Fatalf("relax: %v", err)
	}
	if got := labelNames(r.parents[label(t, "D")]); got != "C" {
		t.Errorf("parents[D] = %s, want C", got)
	}
	if got := r.longest[label(t, "D")]; got != 7 {
		t.Errorf("longest[D] = %d, want 7", got)
	}
}

func TestRelax_NoSources(t *testing.T) {
	t.Parallel()
	g := Build(orderSet(t, "A->B", "B->A"))
	_, err := relax(g, durs{{"A", 1}, {"B", 1}}.build(t), discardLogger())
	if !errors.Is(err, ErrCycle) {
		t.Errorf("error = %v, want ErrCycle", err)
	}
}

func TestReadyQueue_PopsSmallestEnd(t *testing.T) {
	t.Parallel()
	ds := durs{{"A", 9}, {"B", 3}, {"C", 5}, {"D", 1}}
	g := Build(orderSet(t, "A", "B", "C", "D"))
	r, err := relax(g, ds.build(t), discardLogger())
	if err != nil {
		t.Fatalf("relax: %v", err)
	}
	// Sinks are recorded in pop order.
	if got := labelNames(r.sinks); got != "D,B,C,A" {
		t.Errorf("pop order = %s, want D,B,C,A", got)
	}
}

// randomDAG creates a layered DAG whose edges always point from a lower to
// a higher index, so it is acyclic by construction.
func randomDAG(rng *rand.Rand, n int) ([]string, durs) {
	var orders []string
	var ds durs
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("T%02d", i)
		ds = append(ds, struct {
			name string
			d    task.Duration
		}{name, task.Duration(rng.IntN(4))})
		orders = append(orders, name)
		for j := i + 1; j < n; j++ {
			if rng.IntN(4) == 0 {
				orders = append(orders, fmt.Sprintf("%s->T%02d", name, j))
			}
		}
	}
	return orders, ds
}

// bruteForce enumerates every source-to-sink path and returns the maximum
// duration and the paths reaching it.
func bruteForce(g *Graph, ds map[task.Label]task.Duration) (task.TotalDuration, int) {
	var best task.TotalDuration
	count := 0
	var walk func(l task.Label, sum task.TotalDuration)
	walk = func(l task.Label, sum task.TotalDuration) {
		sum += task.TotalDuration(ds[l])
		succ := g.Successors(l)
		if len(succ) == 0 {
			switch {
			case sum > best:
				best, count = sum, 1
			case sum == best:
				count++
			}
			return
		}
		for _, s := range succ {
			walk(s, sum)
		}
	}
	for _, src := range g.Sources() {
		walk(src, 0)
	}
	return best, count
}

func TestAnalyze_MatchesBruteForce(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(7, 42))

	for round := 0; round < 40; round++ {
		orders, ds := randomDAG(rng, 3+rng.IntN(10))
		set := orderSet(t, orders...)
		dm := ds.build(t)

		a, err := Analyze(set, dm, Options{})
		if err != nil {
			t.Fatalf("round %d: Analyze: %v", round, err)
		}
		best, count := bruteForce(Build(set), dm)

		if a.MinimumCompletionTime() != best {
			t.Errorf("round %d: makespan = %d, brute force %d", round, a.MinimumCompletionTime(), best)
		}
		if a.CriticalPathCount() != count {
			t.Errorf("round %d: path count = %d, brute force %d", round, a.CriticalPathCount(), count)
		}
		if a.MaxParallelism() < 1 {
			t.Errorf("round %d: max parallelism = %d, want >= 1", round, a.MaxParallelism())
		}
		paths := a.CriticalPaths()
		for _, p := range paths {
			if sum := p.Duration(dm); sum != best {
				t.Errorf("round %d: path %s sums to %d, want %d", round, p, sum, best)
			}
		}
		if !slices.IsSortedFunc(paths, comparePaths) {
			t.Errorf("round %d: paths not sorted: %v", round, pathStrings(paths))
		}
	}
}

func TestAnalyze_IsolatedTasksAllReady(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))

	var orders []string
	var ds durs
	maxDur := task.Duration(0)
	for i := 0; i < 60; i++ {
		name := fmt.Sprintf("n%d", i)
		d := task.Duration(rng.IntN(1000))
		maxDur = max(maxDur, d)
		orders = append(orders, name)
		ds = append(ds, struct {
			name string
			d    task.Duration
		}{name, d})
	}

	a := analyze(t, orders, ds)
	if a.MaxParallelism() != 60 || a.TaskCount() != 60 {
		t.Errorf("parallelism=%d tasks=%d, want 60 60", a.MaxParallelism(), a.TaskCount())
	}
	if a.MinimumCompletionTime() != task.TotalDuration(maxDur) {
		t.Errorf("makespan = %d, want %d", a.MinimumCompletionTime(), maxDur)
	}
	for _, p := range a.CriticalPaths() {
		if len(p) != 1 || p.Duration(ds.build(t)) != task.TotalDuration(maxDur) {
			t.Errorf("unexpected critical path %s", p)
		}
	}
	if !slices.IsSortedFunc(a.CriticalPaths(), comparePaths) {
		t.Error("paths not sorted")
	}
}

func TestAnalyze_WideSumsDoNotOverflow(t *testing.T) {
	t.Parallel()
	// Ten maximal tasks in a chain exceed the Duration range.
	var orders []string
	var ds durs
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("c%d", i)
		ds = append(ds, struct {
			name string
			d    task.Duration
		}{name, 65535})
		if i > 0 {
			orders = append(orders, fmt.Sprintf("c%d->%s", i-1, name))
		}
	}
	a := analyze(t, orders, ds)
	if want := task.TotalDuration(655350); a.MinimumCompletionTime() != want {
		t.Errorf("makespan = %d, want %d", a.MinimumCompletionTime(), want)
	}
}
