// Package cmd wires the arcstest command line: the readiness gate and the
// full environment bootstrap used before an automated test run.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
)

var rootCmd = &cobra.Command{
	Use:   "arcstest",
	Short: "Test-environment orchestration for the arcs web app",
	Long: `arcstest boots the test environment for the arcs web frontend:
it starts the services under test, blocks until the target answers, and
wires request mocking for the run.`,
	// errors are reported by the commands themselves
	SilenceUsage: true,
}

// Execute runs the root command. Called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newWaitCmd())
	rootCmd.AddCommand(newRunCmd())
}

func newLogger() logging.Logger {
	return logging.New(logging.Options{
		Level:    os.Getenv("ARCS_LOG_LEVEL"),
		FilePath: os.Getenv("ARCS_LOG_FILE"),
	})
}
