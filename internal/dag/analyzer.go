package dag

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/papapumpkin/critpath/internal/task"
)

// Options tunes Analyze. The zero value enumerates every critical path and
// discards log output.
type Options struct {
	// MaxPaths caps the number of critical paths enumerated. Zero or a
	// negative value means no cap.
	MaxPaths int
	// Logger receives debug traces of the analysis. Nil discards them.
	Logger *slog.Logger
}

// ScheduleAnalysis is the immutable result of Analyze.
type ScheduleAnalysis struct {
	maxParallelism        int
	taskCount             int
	minimumCompletionTime task.TotalDuration
	criticalPaths         []Path
	truncated             bool
}

// MaxParallelism is the peak number of tasks ready at the same simulated
// instant under an earliest-start schedule.
func (a *ScheduleAnalysis) MaxParallelism() int { return a.maxParallelism }

// TaskCount is the number of distinct tasks analyzed.
func (a *ScheduleAnalysis) TaskCount() int { return a.taskCount }

// MinimumCompletionTime is the makespan with unlimited executors.
func (a *ScheduleAnalysis) MinimumCompletionTime() task.TotalDuration {
	return a.minimumCompletionTime
}

// CriticalPathCount is the number of critical paths returned.
func (a *ScheduleAnalysis) CriticalPathCount() int { return len(a.criticalPaths) }

// CriticalPaths returns a copy of the critical paths, longest first, then
// in lexicographic order.
func (a *ScheduleAnalysis) CriticalPaths() []Path {
	out := make([]Path, len(a.criticalPaths))
	for i, p := range a.criticalPaths {
		out[i] = append(Path(nil), p...)
	}
	return out
}

// Truncated reports whether path enumeration stopped at Options.MaxPaths.
func (a *ScheduleAnalysis) Truncated() bool { return a.truncated }

// Analyze validates orders and durations against each other and computes
// the schedule analysis. Time is O((V+E) log V) for the traversal plus the
// size of the critical path enumeration, which can grow exponentially with
// the number of equal-weight branch points; use Options.MaxPaths to bound it.
//
// Errors: ErrEmptyInput, *MissingDurationsError, *MissingOrdersError and
// ErrCycle. All can be matched with errors.Is against the sentinels.
func Analyze(orders task.OrderSet, durations map[task.Label]task.Duration, opts Options) (*ScheduleAnalysis, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if orders.Len() == 0 && len(durations) == 0 {
		return nil, ErrEmptyInput
	}
	g := Build(orders)
	if err := g.validate(durations); err != nil {
		return nil, err
	}
	logger.Debug("built task graph", "tasks", g.Len(), "orders", orders.Len())

	r, err := relax(g, durations, logger)
	if err != nil {
		return nil, err
	}

	cp := findCriticalPaths(r, opts.MaxPaths)
	logger.Debug("found critical paths",
		"count", len(cp.paths), "duration", cp.duration, "truncated", cp.truncated)

	return &ScheduleAnalysis{
		maxParallelism:        r.maxParallelism,
		taskCount:             g.Len(),
		minimumCompletionTime: cp.duration,
		criticalPaths:         cp.paths,
		truncated:             cp.truncated,
	}, nil
}

// WriteText renders a in the line-oriented report format, wrapping paths
// at task.MaxLabelLen plus the delimiter length.
func (a *ScheduleAnalysis) WriteText(w io.Writer, delimiter string) error {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	count := a.CriticalPathCount()

	var b strings.Builder
	fmt.Fprintf(&b, "task_count: %d\n", a.taskCount)
	fmt.Fprintf(&b, "max_parallelism: %d\n", a.maxParallelism)
	fmt.Fprintf(&b, "minimum_completion_time: %d\n", a.minimumCompletionTime)
	fmt.Fprintf(&b, "critical_path_count: %d\n", count)
	if count > 1 {
		b.WriteString("critical_paths:\n")
	} else {
		b.WriteString("critical_path:\n")
	}
	for i, p := range a.criticalPaths {
		if count > 1 {
			fmt.Fprintf(&b, "%d)\n", i+1)
		}
		// strings.Builder writes never fail.
		_ = WritePath(&b, p, delimiter, task.MaxLabelLen)
		if i != count-1 {
			b.WriteString("\n")
		}
	}
	if a.truncated {
		b.WriteString("critical_paths_truncated: true\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the text report using DefaultDelimiter.
func (a *ScheduleAnalysis) String() string {
	var b strings.Builder
	// strings.Builder writes never fail.
	_ = a.WriteText(&b, DefaultDelimiter)
	return b.String()
}
