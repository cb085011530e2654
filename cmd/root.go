package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = newRootCmd(viper.GetViper())

// Execute runs the critpath CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree around v. Tests pass a fresh viper
// instance so runs do not share configuration.
func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "critpath",
		Short: "Critical path and parallelism analysis for task schedules",
		Long: `critpath reads a set of tasks with durations and precedence orders and reports
the maximum parallelism, the minimum completion time and every critical path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default .critpath.yaml)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().Bool("no-color", false, "disable coloured status output")
	root.PersistentFlags().String("events", "", "append JSONL analysis events to this file")
	if err := bindFlags(v, root.PersistentFlags(), map[string]string{
		"log_level": "log-level",
		"no_color":  "no-color",
		"events":    "events",
	}); err != nil {
		panic(err)
	}

	root.AddCommand(newAnalyzeCmd(v), newValidateCmd(v), newWatchCmd(v))
	return root
}

// bindFlags binds config keys to the named flags of fs. Subcommands call it
// from PreRunE so that only the running command's flags are bound when
// several commands share a key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".critpath")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("CRITPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && v.ConfigFileUsed() != "" {
			return fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return nil
}
