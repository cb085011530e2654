// Package report renders a schedule analysis for output. Each renderer
// produces a distinct view of the same analysis so callers can pick the
// format that suits the consumer: the line-oriented text report for
// people, JSON or YAML for tools.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/critpath/internal/dag"
	"github.com/papapumpkin/critpath/internal/task"
)

// ErrUnknownFormat is returned by New for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer writes an analysis to w.
type Renderer interface {
	Render(w io.Writer, a *dag.ScheduleAnalysis) error
}

// New returns the renderer for format ("text", "json" or "yaml").
// delimiter only affects the text renderer.
func New(format, delimiter string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return TextRenderer{Delimiter: delimiter}, nil
	case "json":
		return JSONRenderer{Indent: "  "}, nil
	case "yaml", "yml":
		return YAMLRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Summary is the structured form of an analysis.
type Summary struct {
	TaskCount             int                `json:"task_count" yaml:"task_count"`
	MaxParallelism        int                `json:"max_parallelism" yaml:"max_parallelism"`
	MinimumCompletionTime task.TotalDuration `json:"minimum_completion_time" yaml:"minimum_completion_time"`
	CriticalPathCount     int                `json:"critical_path_count" yaml:"critical_path_count"`
	CriticalPaths         [][]string         `json:"critical_paths" yaml:"critical_paths"`
	Truncated             bool               `json:"critical_paths_truncated,omitempty" yaml:"critical_paths_truncated,omitempty"`
}

// Summarize converts a into a Summary.
func Summarize(a *dag.ScheduleAnalysis) Summary {
	paths := a.CriticalPaths()
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = task.Strings(p)
	}
	return Summary{
		TaskCount:             a.TaskCount(),
		MaxParallelism:        a.MaxParallelism(),
		MinimumCompletionTime: a.MinimumCompletionTime(),
		CriticalPathCount:     a.CriticalPathCount(),
		CriticalPaths:         out,
		Truncated:             a.Truncated(),
	}
}

// TextRenderer produces the line-oriented report with wrapped paths.
type TextRenderer struct {
	Delimiter string
}

// Render writes the text report.
func (r TextRenderer) Render(w io.Writer, a *dag.ScheduleAnalysis) error {
	return a.WriteText(w, r.Delimiter)
}

// JSONRenderer produces a single JSON object.
type JSONRenderer struct {
	Indent string
}

// Render writes the JSON summary followed by a newline.
func (r JSONRenderer) Render(w io.Writer, a *dag.ScheduleAnalysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", r.Indent)
	if err := enc.Encode(Summarize(a)); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// YAMLRenderer produces a YAML document.
type YAMLRenderer struct{}

// Render writes the YAML summary.
func (YAMLRenderer) Render(w io.Writer, a *dag.ScheduleAnalysis) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Summarize(a)); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return enc.Close()
}
