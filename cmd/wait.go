package cmd

import (
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/readiness"
)

func newWaitCmd() *cobra.Command {
	var targetURL string
	var attempts int
	var timeout time.Duration
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the target server answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetURL == "" {
				return errors.New("--url is required")
			}
			cfg := readiness.ProbeConfig{
				TargetURL:         targetURL,
				MaxAttempts:       attempts,
				PerAttemptTimeout: timeout,
				RetryDelay:        delay,
			}
			report, err := readiness.WaitUntilReady(cfg, cmd.OutOrStdout(), newLogger())
			if err != nil {
				color.Red("NOT READY: %s", err)
				return err
			}
			color.Green("READY after %d attempt(s) in %s", report.Attempts, report.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURL, "url", "", "target URL to probe")
	cmd.Flags().IntVar(&attempts, "attempts", readiness.DefaultMaxAttempts, "maximum probe attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", readiness.DefaultPerAttemptTimeout, "per-attempt timeout")
	cmd.Flags().DurationVar(&delay, "delay", readiness.DefaultRetryDelay, "fixed delay between attempts")
	return cmd
}
