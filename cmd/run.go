package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/critpath/internal/config"
	"github.com/papapumpkin/critpath/internal/dag"
	"github.com/papapumpkin/critpath/internal/normalize"
	"github.com/papapumpkin/critpath/internal/report"
	"github.com/papapumpkin/critpath/internal/taskfile"
	"github.com/papapumpkin/critpath/internal/telemetry"
	"github.com/papapumpkin/critpath/internal/ui"
)

// session bundles what every command needs once configuration is loaded.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	printer  *ui.Printer
	renderer report.Renderer
	format   taskfile.Format
	events   *telemetry.Emitter
	prog     string
}

func newSession(cmd *cobra.Command, v *viper.Viper) (*session, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	renderer, err := report.New(cfg.Output, cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	format, err := taskfile.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	events, err := openEvents(cfg.Events)
	if err != nil {
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	return &session{
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})),
		printer:  ui.NewWriter(stderr, useColor(stderr, cfg.NoColor)),
		renderer: renderer,
		format:   format,
		events:   events,
		prog:     cmd.Root().Name(),
	}, nil
}

func openEvents(path string) (*telemetry.Emitter, error) {
	if path == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(path)
}

func useColor(w io.Writer, noColor bool) bool {
	f, ok := w.(*os.File)
	return ok && !noColor && ui.IsTerminal(f)
}

func (s *session) close() {
	if err := s.events.Close(); err != nil {
		s.logger.Warn("closing event log", "error", err)
	}
}

func (s *session) options() dag.Options {
	return dag.Options{MaxPaths: s.cfg.MaxPaths, Logger: s.logger}
}

// analyzeFile loads, normalizes and analyzes one file, recording events on
// the way. Errors are returned as fileErrors.
func (s *session) analyzeFile(path string, opts dag.Options) (*dag.ScheduleAnalysis, error) {
	start := time.Now()
	s.emit(s.events.AnalysisStarted(path))

	a, err := s.process(path, opts)
	if err != nil {
		ferr := &fileError{prog: s.prog, file: path, err: err}
		s.emit(s.events.AnalysisFailed(path, ferr))
		return nil, ferr
	}

	s.emit(s.events.AnalysisDone(path, telemetry.DoneData{
		TaskCount:             a.TaskCount(),
		MaxParallelism:        a.MaxParallelism(),
		MinimumCompletionTime: uint32(a.MinimumCompletionTime()),
		CriticalPathCount:     a.CriticalPathCount(),
		Truncated:             a.Truncated(),
		ElapsedMs:             time.Since(start).Milliseconds(),
	}))
	s.logger.Info("analyzed", "file", path, "tasks", a.TaskCount(), "elapsed", time.Since(start))
	return a, nil
}

func (s *session) process(path string, opts dag.Options) (*dag.ScheduleAnalysis, error) {
	doc, err := taskfile.Load(path, s.format)
	if err != nil {
		return nil, err
	}
	return normalize.Process(doc, opts)
}

func (s *session) emit(err error) {
	if err != nil {
		s.logger.Warn("writing event", "error", err)
	}
}

// fileError prefixes an error with the program and file name. Errors from
// opening the file use fixed wording.
type fileError struct {
	prog string
	file string
	err  error
}

func (e *fileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.prog, e.file, describe(e.err))
}

func (e *fileError) Unwrap() error { return e.err }

func describe(err error) string {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "No such file"
	case errors.Is(err, fs.ErrPermission):
		return "Access to file is denied"
	case errors.As(err, &pathErr):
		return "Encountered an error while opening the file: " + pathErr.Err.Error()
	default:
		return err.Error()
	}
}
