package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"reclockd/internal/config"
	"reclockd/internal/exitproto"
	"reclockd/internal/guard"
	"reclockd/internal/runner"
)

const version = "0.1.0"

func newRootCommand(exitCode *int) *cobra.Command {
	var configPath string
	var kill bool

	rootCmd := &cobra.Command{
		Use:   "reclockd",
		Short: "Cluster recovery-lock helper",
		Long: `reclockd acquires the exclusive lock on the cluster recovery-lock file
and runs as a leader watchdog, terminating the moment it can no longer
prove the lock is alive. The spawning cluster manager reads a single
status token from standard output: 0 (lock acquired), 1 (not leader),
or 3 (error).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kill {
				return runKill(cmd, exitCode)
			}
			*exitCode = runner.Run(cmd.Context(), runner.Options{ConfigPath: configPath})
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath, "Configuration file path")
	rootCmd.Flags().BoolVar(&kill, "kill", false, "Stop the running instance instead of starting one")

	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// runKill stops the instance named by the pid record. It never touches the
// distributed lock; releasing it is the dying instance's side effect.
func runKill(cmd *cobra.Command, exitCode *int) error {
	result, err := guard.Kill(guard.DefaultRecordPath, programName())
	if err != nil {
		*exitCode = exitproto.TokenError.ExitCode()
		return err
	}
	if result.Signaled {
		fmt.Fprintf(cmd.OutOrStdout(), "sent SIGTERM to pid %d\n", result.Pid)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "no running instance found")
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the reclockd version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reclockd v%s\n", version)
		},
	}
}

func programName() string {
	return filepath.Base(os.Args[0])
}
