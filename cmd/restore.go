package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/covert-tool/covert/pkg/backup"
	"github.com/covert-tool/covert/pkg/errors"
	"github.com/covert-tool/covert/pkg/pip"
)

var restoreDryRunFlag bool

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-file]",
	Short: "Restore packages from a requirement snapshot",
	Long: `Reinstall every pinned package recorded in a snapshot. Without an
argument the most recent snapshot in the configured backup directory is
used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	if !restoreDryRunFlag {
		if err := checkEnvironment(); err != nil {
			return err
		}
	}

	workDir, _ := os.Getwd()
	mgr := backup.NewManager(cfg.Backup, pip.New(workDir, 0))

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		latest, err := mgr.Latest()
		if err != nil {
			return errors.NewExitErrorf(errors.ExitFailure, "%v", err)
		}
		if latest == "" {
			return errors.NewExitErrorf(errors.ExitConfigError,
				"no snapshots found in %s", cfg.Backup.Location)
		}
		path = latest
	}

	restored, err := mgr.Restore(context.Background(), path, restoreDryRunFlag)
	if err != nil {
		return errors.NewExitErrorf(errors.ExitFailure, "%v", err)
	}

	if restoreDryRunFlag {
		fmt.Printf("Would restore %d package(s) from %s:\n", len(restored), path)
		for _, p := range restored {
			if p.Version != "" {
				fmt.Printf("  %s==%s\n", p.Name, p.Version)
			} else {
				fmt.Printf("  %s\n", p.Name)
			}
		}
		return nil
	}

	fmt.Printf("Restored %d package(s) from %s\n", len(restored), path)
	return nil
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreDryRunFlag, "dry-run", false, "List what would be restored without installing")
}
