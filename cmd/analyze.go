package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Report parallelism, completion time and critical paths",
		Long: `Analyze reads each task file and prints its schedule analysis. Files are
analyzed concurrently; reports are printed in argument order. With more than
one file every report is preceded by a "==> file <==" header.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd.Flags(), analysisFlagKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, v, args)
		},
	}

	addAnalysisFlags(cmd)
	return cmd
}

// analysisFlagKeys maps config keys to the flags added by addAnalysisFlags.
var analysisFlagKeys = map[string]string{
	"output":    "output",
	"max_paths": "max-paths",
	"delimiter": "delimiter",
	"format":    "format",
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "text", "output format: text, json, yaml")
	cmd.Flags().Int("max-paths", 10000, "maximum critical paths to enumerate (0 = unlimited)")
	cmd.Flags().String("delimiter", "->", "task delimiter in text paths")
	cmd.Flags().String("format", "", "force the input format: lines, toml, yaml")
}

type analyzeResult struct {
	out bytes.Buffer
	err error
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper, files []string) error {
	s, err := newSession(cmd, v)
	if err != nil {
		return err
	}
	defer s.close()

	results := make([]analyzeResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			r := &results[i]
			a, err := s.analyzeFile(file, s.options())
			if err != nil {
				r.err = err
				return nil
			}
			r.err = s.renderer.Render(&r.out, a)
			return nil
		})
	}
	// Per-file failures are collected in results; the group never fails.
	_ = g.Wait()

	stdout := cmd.OutOrStdout()
	var errs []error
	printed := 0
	for i, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if len(files) > 1 {
			if printed > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "==> %s <==\n", files[i])
		}
		if _, err := stdout.Write(r.out.Bytes()); err != nil {
			return err
		}
		printed++
	}
	return errors.Join(errs...)
}
