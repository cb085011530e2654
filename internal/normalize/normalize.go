// Package normalize turns a decoded task file into the inputs of the
// analysis engine and runs it.
package normalize

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/critpath/internal/dag"
	"github.com/papapumpkin/critpath/internal/task"
	"github.com/papapumpkin/critpath/internal/taskfile"
)

// ErrConflictingDuration matches every ConflictingDurationError.
var ErrConflictingDuration = errors.New("conflicting durations")

// ConflictingDurationError reports a task declared twice with different
// durations.
type ConflictingDurationError struct {
	Label  task.Label
	First  task.Duration
	Second task.Duration
	// Line of the second declaration, 0 when unknown.
	Line int
}

func (e *ConflictingDurationError) Error() string {
	msg := fmt.Sprintf("task %q declared with durations %d and %d", e.Label, e.First, e.Second)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *ConflictingDurationError) Unwrap() error { return ErrConflictingDuration }

// Durations collapses duration declarations into a map. Repeating a
// declaration with the same value is allowed.
func Durations(entries []taskfile.DurationEntry) (map[task.Label]task.Duration, error) {
	out := make(map[task.Label]task.Duration, len(entries))
	for _, e := range entries {
		if prev, ok := out[e.Label]; ok && prev != e.Duration {
			return nil, &ConflictingDurationError{Label: e.Label, First: prev, Second: e.Duration, Line: e.Line}
		}
		out[e.Label] = e.Duration
	}
	return out, nil
}

// Orders builds the precedence set. Duplicate declarations collapse.
func Orders(entries []taskfile.OrderEntry) (task.OrderSet, error) {
	set := task.NewOrderSet()
	for _, e := range entries {
		if !e.HasBefore {
			set.Add(task.Standalone(e.Label))
			continue
		}
		o, err := task.Precedes(e.Before, e.Label)
		if err != nil {
			if e.Line > 0 {
				return nil, fmt.Errorf("line %d: %w", e.Line, err)
			}
			return nil, err
		}
		set.Add(o)
	}
	return set, nil
}

// Input is a normalized document ready for analysis.
type Input struct {
	Orders    task.OrderSet
	Durations map[task.Label]task.Duration
}

// Normalize validates the declarations in doc.
func Normalize(doc *taskfile.Document) (*Input, error) {
	durations, err := Durations(doc.Durations)
	if err != nil {
		return nil, err
	}
	orders, err := Orders(doc.Orders)
	if err != nil {
		return nil, err
	}
	return &Input{Orders: orders, Durations: durations}, nil
}

// Process normalizes doc and analyzes the resulting schedule.
func Process(doc *taskfile.Document, opts dag.Options) (*dag.ScheduleAnalysis, error) {
	in, err := Normalize(doc)
	if err != nil {
		return nil, err
	}
	return dag.Analyze(in.Orders, in.Durations, opts)
}
