// Package readiness blocks a test session until the target web app
// answers. The gate runs once per session, before any test executes; a
// failure here aborts the whole run.
package readiness

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
)

const (
	DefaultMaxAttempts       = 30
	DefaultPerAttemptTimeout = 5 * time.Second
	DefaultRetryDelay        = 2 * time.Second
)

// ProbeConfig holds the caller-supplied readiness parameters. The delay is
// fixed, not exponential, so the worst-case wait stays bounded at
// MaxAttempts * (PerAttemptTimeout + RetryDelay).
type ProbeConfig struct {
	TargetURL         string
	MaxAttempts       int
	PerAttemptTimeout time.Duration
	RetryDelay        time.Duration
}

// NewProbeConfig returns a config for the target with the documented
// defaults (30 attempts, 5s per-attempt timeout, 2s delay).
func NewProbeConfig(targetURL string) ProbeConfig {
	return ProbeConfig{
		TargetURL:         targetURL,
		MaxAttempts:       DefaultMaxAttempts,
		PerAttemptTimeout: DefaultPerAttemptTimeout,
		RetryDelay:        DefaultRetryDelay,
	}
}

// Report describes a finished probe.
type Report struct {
	Attempts int
	Elapsed  time.Duration
}

// TimeoutError is returned when the attempt budget is exhausted. It is
// fatal to the test session.
type TimeoutError struct {
	TargetURL string
	Attempts  int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("target %s did not answer after %d attempt(s)", e.TargetURL, e.Attempts)
}

// WaitUntilReady polls the target until it answers or the attempt budget
// runs out. Any HTTP response within the per-attempt timeout counts as
// ready; a timeout or connection failure consumes one attempt and the loop
// sleeps the fixed retry delay before trying again. This is the only
// retrying logic in the harness.
func WaitUntilReady(cfg ProbeConfig, output io.Writer, logger logging.Logger) (Report, error) {
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = logging.NullLogger()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.PerAttemptTimeout <= 0 {
		cfg.PerAttemptTimeout = DefaultPerAttemptTimeout
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}

	client := &http.Client{Timeout: cfg.PerAttemptTimeout}
	fmt.Fprintf(output, "Waiting for %s", cfg.TargetURL)

	start := time.Now()
	attempts := 0
	for {
		attempts++
		fmt.Fprint(output, ".")
		resp, err := client.Get(cfg.TargetURL)
		if err == nil {
			resp.Body.Close()
			fmt.Fprintln(output)
			logger.Printf("target %s answered with HTTP %d on attempt %d", cfg.TargetURL, resp.StatusCode, attempts)
			return Report{Attempts: attempts, Elapsed: time.Since(start)}, nil
		}
		logger.Printf("readiness attempt %d/%d failed: %s", attempts, cfg.MaxAttempts, err)
		if attempts == cfg.MaxAttempts {
			fmt.Fprintln(output)
			return Report{Attempts: attempts, Elapsed: time.Since(start)},
				&TimeoutError{TargetURL: cfg.TargetURL, Attempts: attempts}
		}
		time.Sleep(cfg.RetryDelay)
	}
}
