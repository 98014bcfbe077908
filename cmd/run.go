package cmd

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/harness"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mocking"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/readiness"
)

func newRunCmd() *cobra.Command {
	var targetURL string
	var backendCommand string
	var frontendCommand string
	var workDir string
	var trafficDB string
	var attempts int
	var timeout time.Duration
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot the test environment and hold it until interrupted",
		Long: `run starts the backend and frontend services (if commands are given),
waits for the target to answer, and keeps the environment up until
interrupted. Commands are split on whitespace; no shell quoting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetURL == "" && frontendCommand == "" {
				return errors.New("--url or --frontend-cmd is required")
			}

			cfg := harness.BootstrapConfig{
				Probe: readiness.ProbeConfig{
					TargetURL:         targetURL,
					MaxAttempts:       attempts,
					PerAttemptTimeout: timeout,
					RetryDelay:        delay,
				},
				TrafficDB:   trafficDB,
				MockOptions: mocking.OptionsFromEnv(),
			}
			if backendCommand != "" || frontendCommand != "" {
				svc := harness.ServiceConfig{WorkDir: workDir}
				if backendCommand != "" {
					svc.BackendCommand = strings.Fields(backendCommand)
				}
				if frontendCommand != "" {
					svc.FrontendCommand = strings.Fields(frontendCommand)
				}
				cfg.Services = &svc
			}

			env, err := harness.Bootstrap(cfg, cmd.OutOrStdout(), newLogger())
			if err != nil {
				color.Red("bootstrap failed: %s", err)
				return err
			}
			defer env.Teardown()

			color.Green("environment ready after %d attempt(s)", env.Report.Attempts)
			if env.Runner == nil {
				return nil
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURL, "url", "", "target URL to probe (default: spawned frontend)")
	cmd.Flags().StringVar(&backendCommand, "backend-cmd", "", "command to start the backend")
	cmd.Flags().StringVar(&frontendCommand, "frontend-cmd", "", "command to start the frontend")
	cmd.Flags().StringVar(&workDir, "dir", "", "working directory for spawned services")
	cmd.Flags().StringVar(&trafficDB, "traffic-db", "", "sqlite path for intercepted-traffic records")
	cmd.Flags().IntVar(&attempts, "attempts", readiness.DefaultMaxAttempts, "maximum probe attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", readiness.DefaultPerAttemptTimeout, "per-attempt timeout")
	cmd.Flags().DurationVar(&delay, "delay", readiness.DefaultRetryDelay, "fixed delay between attempts")
	return cmd
}
