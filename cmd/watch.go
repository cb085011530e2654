package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/critpath/internal/watch"
)

func newWatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run the analysis whenever a task file changes",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			keys := map[string]string{"watch.debounce": "debounce"}
			for k, name := range analysisFlagKeys {
				keys[k] = name
			}
			return bindFlags(v, cmd.Flags(), keys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runWatch(ctx, cmd, v, args[0])
		},
	}
	addAnalysisFlags(cmd)
	cmd.Flags().Duration("debounce", 100*time.Millisecond, "quiet period before re-running")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, v *viper.Viper, file string) error {
	s, err := newSession(cmd, v)
	if err != nil {
		return err
	}
	defer s.close()

	w, err := watch.New(file, watch.Options{Debounce: s.cfg.Watch.Debounce, Logger: s.logger})
	if err != nil {
		return fmt.Errorf("watching %s: %w", file, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", file, err)
	}
	defer w.Stop()

	s.printer.WatchStarted(file)
	s.runOnce(cmd, file)

	for {
		select {
		case <-ctx.Done():
			s.printer.Info("stopped watching " + file)
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			s.printer.WatchRerun(file)
			if change.Kind == watch.ChangeRemoved {
				s.printer.Warn(file + " was removed; waiting for it to reappear")
				continue
			}
			s.runOnce(cmd, file)
		}
	}
}

// runOnce analyzes file and prints the report or the error. Nothing is
// kept between runs.
func (s *session) runOnce(cmd *cobra.Command, file string) {
	a, err := s.analyzeFile(file, s.options())
	if err != nil {
		s.printer.Error(err.Error())
		return
	}
	if err := s.renderer.Render(cmd.OutOrStdout(), a); err != nil {
		s.printer.Error(err.Error())
	}
}
