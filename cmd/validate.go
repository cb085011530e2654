package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/critpath/internal/dag"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a task file for syntax, completeness and cycles",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd.Flags(), map[string]string{"format": "format"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, v, args[0])
		},
	}
	cmd.Flags().String("format", "", "force the input format: lines, toml, yaml")
	return cmd
}

func runValidate(cmd *cobra.Command, v *viper.Viper, file string) error {
	s, err := newSession(cmd, v)
	if err != nil {
		return err
	}
	defer s.close()

	// A single path is enough to prove the schedule is analyzable.
	a, err := s.analyzeFile(file, dag.Options{MaxPaths: 1, Logger: s.logger})
	if err != nil {
		var ferr *fileError
		if errors.As(err, &ferr) {
			err = ferr.err
		}
		s.printer.ValidateResult(file, 0, errors.New(describe(err)))
		return errValidationFailed
	}
	s.printer.ValidateResult(file, a.TaskCount(), nil)
	return nil
}
