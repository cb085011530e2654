package dag

import (
	"container/heap"
	"log/slog"

	"github.com/papapumpkin/critpath/internal/task"
)

// completion is a ready task keyed by the time its longest path finishes.
type completion struct {
	task task.Label
	end  task.TotalDuration
}

// readyQueue is a min-heap of completions ordered by end time only. Equal
// end times pop in an unspecified order.
type readyQueue []completion

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i].end < q[j].end }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(completion)) }

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

// relaxation holds everything the traversal learns about the graph.
type relaxation struct {
	// longest is the duration of the heaviest path ending at each task,
	// including the task itself.
	longest map[task.Label]task.TotalDuration
	// parents lists, per task, every predecessor through which its longest
	// path runs. Sources have no entry.
	parents map[task.Label][]task.Label
	// sinks are tasks that precede nothing.
	sinks []task.Label
	// maxParallelism is the peak ready queue size.
	maxParallelism int
}

// relax runs Kahn's algorithm over g with a min-heap keyed on completion
// time, relaxing longest-path durations along the way. It returns ErrCycle
// when the traversal cannot resolve every task.
//
// Equal completion times pop in no particular order, so maxParallelism can
// differ by one between runs when zero-duration tasks share a predecessor.
func relax(g *Graph, durations map[task.Label]task.Duration, logger *slog.Logger) (*relaxation, error) {
	remaining := make(map[task.Label]int, len(g.inDegree))
	for l, deg := range g.inDegree {
		remaining[l] = deg
	}

	r := &relaxation{
		longest: make(map[task.Label]task.TotalDuration, len(remaining)),
		parents: make(map[task.Label][]task.Label),
	}

	queue := &readyQueue{}
	for l, deg := range remaining {
		if deg != 0 {
			continue
		}
		d := task.TotalDuration(durations[l])
		*queue = append(*queue, completion{task: l, end: d})
		r.longest[l] = d
	}
	if queue.Len() == 0 {
		return nil, ErrCycle
	}
	heap.Init(queue)
	logger.Debug("seeded ready queue", "sources", queue.Len(), "tasks", len(remaining))

	for queue.Len() > 0 {
		r.maxParallelism = max(r.maxParallelism, queue.Len())
		from := heap.Pop(queue).(completion).task

		succ := g.Successors(from)
		if len(succ) == 0 {
			r.sinks = append(r.sinks, from)
			continue
		}
		for _, to := range succ {
			candidate := r.longest[from] + task.TotalDuration(durations[to])
			prev, seen := r.longest[to]
			switch {
			case !seen || candidate > prev:
				r.longest[to] = candidate
				r.parents[to] = []task.Label{from}
			case candidate == prev:
				r.parents[to] = append(r.parents[to], from)
			}

			remaining[to]--
			if remaining[to] == 0 {
				heap.Push(queue, completion{task: to, end: r.longest[to]})
			}
		}
	}

	for l, deg := range remaining {
		if deg != 0 {
			logger.Debug("unresolved task after traversal", "task", l.String(), "in_degree", deg)
			return nil, ErrCycle
		}
	}
	logger.Debug("relaxation done", "sinks", len(r.sinks), "max_parallelism", r.maxParallelism)
	return r, nil
}
