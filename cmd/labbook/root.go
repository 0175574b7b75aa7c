package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labbook",
		Short: "labbook - generate analysis notebooks for archive entries",
		Long: `labbook generates runnable Jupyter notebooks for analyzing entries in a
host data-archive platform.

Notebooks are rendered from templates, written atomically to a deterministic
path, and can be validated and published back to the host platform.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newBatchCommand())
	cmd.AddCommand(newTemplatesCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newPublishCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
