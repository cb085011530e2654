// Package telemetry provides a JSONL event stream recording every file
// analysis: when it started, what it found and why it failed. The log is an
// audit trail only; critpath never reads it back.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindAnalysisStart  = "analysis_start"
	KindAnalysisDone   = "analysis_done"
	KindAnalysisFailed = "analysis_failed"
)

// Event represents a single telemetry record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	File      string    `json:"file,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// DoneData is the payload of an analysis_done event.
type DoneData struct {
	TaskCount             int    `json:"task_count"`
	MaxParallelism        int    `json:"max_parallelism"`
	MinimumCompletionTime uint32 `json:"minimum_completion_time"`
	CriticalPathCount     int    `json:"critical_path_count"`
	Truncated             bool   `json:"truncated,omitempty"`
	ElapsedMs             int64  `json:"elapsed_ms"`
}

// FailedData is the payload of an analysis_failed event.
type FailedData struct {
	Error string `json:"error"`
}

// Emitter writes telemetry events as JSON lines. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	w   io.Writer
	c   io.Closer
	enc *json.Encoder
	mu  sync.Mutex
	now func() time.Time
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	e := NewWriterEmitter(f)
	e.c = f
	return e, nil
}

// NewWriterEmitter returns an Emitter writing to w. Close does not close w.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, enc: json.NewEncoder(w), now: time.Now}
}

// Emit writes a single event. A zero Timestamp is filled with the current
// time. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// AnalysisStarted records the start of the analysis of file.
func (e *Emitter) AnalysisStarted(file string) error {
	return e.Emit(Event{Kind: KindAnalysisStart, File: file})
}

// AnalysisDone records a successful analysis.
func (e *Emitter) AnalysisDone(file string, data DoneData) error {
	return e.Emit(Event{Kind: KindAnalysisDone, File: file, Data: data})
}

// AnalysisFailed records a failed analysis.
func (e *Emitter) AnalysisFailed(file string, err error) error {
	return e.Emit(Event{Kind: KindAnalysisFailed, File: file, Data: FailedData{Error: err.Error()}})
}

// Close closes the underlying file, if the Emitter owns one. Calling Close
// on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil || e.c == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.c.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
