package main

import (
	"os"

	"github.com/redweb/donor-registry/config"
	"github.com/redweb/donor-registry/internal/log"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "cli",
		Short:         "Operator commands for the donor registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitializeEnvFile(logger)
		},
	}

	root.AddCommand(newMigrateCmd(logger))
	return root
}

func main() {
	logger := log.NewLoggerWithJSONOutput()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("Command failed", "error", err.Error())
		os.Exit(1)
	}
}
