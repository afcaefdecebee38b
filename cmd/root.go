// Package cmd implements the command-line interface for covert.
// It provides commands for listing outdated packages, running safe update
// sessions, and restoring the environment from a snapshot.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/covert-tool/covert/pkg/config"
	"github.com/covert-tool/covert/pkg/errors"
	"github.com/covert-tool/covert/pkg/logging"
	"github.com/covert-tool/covert/pkg/pip"
)

var exitFunc = os.Exit

var (
	configFlag  string
	verboseFlag bool
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg *config.Config

// logCloser closes the structured log file, when one is configured.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "covert",
	Short: "Safe, incremental Python dependency updater",
	Long: `Covert updates outdated pip packages one at a time, validates each
update against the project test suite, and automatically rolls back
anything that breaks. A full requirement snapshot is taken before the
first install so the environment can always be restored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return errors.NewExitErrorf(errors.ExitConfigError, "cannot determine working directory: %v", err)
		}

		cfg, err = config.LoadConfig(configFlag, workDir)
		if err != nil {
			return errors.NewExitErrorf(errors.ExitConfigError, "invalid configuration: %v", err)
		}

		level := cfg.Logging.Level
		if verboseFlag {
			level = "debug"
		}
		logCloser, err = logging.Setup(logging.Options{
			Level:   level,
			File:    cfg.Logging.File,
			Console: cfg.Logging.ConsoleEnabled(),
		})
		if err != nil {
			return errors.NewExitErrorf(errors.ExitConfigError, "logging setup failed: %v", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the root command and exits with the appropriate code:
//   - 0: Success
//   - 1: Partial failure (some updates failed or were rolled back badly)
//   - 2: Failure (broken baseline, failed backup, critical failure)
//   - 3: Configuration or validation error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(errors.GetExitCode(err))
	}
}

// ExecuteTest runs the root command for testing, returning the error
// instead of exiting.
func ExecuteTest() error {
	return rootCmd.Execute()
}

// checkEnvironment refuses to touch packages outside a virtualenv or as
// root. Updating a system interpreter is how machines get broken.
func checkEnvironment() error {
	if pip.ElevatedPrivileges() {
		return errors.NewExitErrorf(errors.ExitConfigError,
			"refusing to run as root: use a virtual environment and an unprivileged user")
	}
	if !pip.InVirtualenv() {
		return errors.NewExitErrorf(errors.ExitConfigError,
			"no virtual environment detected: activate one before updating packages")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: covert.yml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(restoreCmd)
}
