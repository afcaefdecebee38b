package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/covert-tool/covert/pkg/errors"
	"github.com/covert-tool/covert/pkg/output"
	"github.com/covert-tool/covert/pkg/pip"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List packages with available updates",
	RunE:  runOutdated,
}

func runOutdated(cmd *cobra.Command, args []string) error {
	workDir, _ := os.Getwd()
	cli := pip.New(workDir, 0)

	packages, err := cli.ListOutdated(context.Background())
	if err != nil {
		return errors.NewExitErrorf(errors.ExitFailure, "%v", err)
	}

	return output.WriteOutdated(os.Stdout, packages)
}
