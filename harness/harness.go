// Package harness boots the test environment for a run: it starts the
// services under test, gates on readiness, and wires the mocking facade
// and the optional traffic recorder.
package harness

import (
	"io"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mocking"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/readiness"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/traffic"
)

// BootstrapConfig configures one session bootstrap. Services may be nil
// when the target environment is already running; TrafficDB may be empty
// to disable recording.
type BootstrapConfig struct {
	Probe       readiness.ProbeConfig
	Services    *ServiceConfig
	TrafficDB   string
	MockOptions mocking.Options
}

// Environment is a booted test environment.
type Environment struct {
	Facade   *mocking.Facade
	Runner   *ServiceRunner
	Recorder *traffic.Recorder
	Report   readiness.Report
}

// Bootstrap runs the session bootstrap in order: services up, readiness
// gate, then facade construction. A readiness failure tears down whatever
// started and aborts before any test can run.
func Bootstrap(cfg BootstrapConfig, output io.Writer, logger logging.Logger) (*Environment, error) {
	if logger == nil {
		logger = logging.NullLogger()
	}
	env := &Environment{}

	if cfg.Services != nil {
		env.Runner = NewServiceRunner(logger)
		if err := env.Runner.Start(*cfg.Services); err != nil {
			return nil, err
		}
		if cfg.Probe.TargetURL == "" {
			cfg.Probe.TargetURL = env.Runner.FrontendURL()
		}
	}

	report, err := readiness.WaitUntilReady(cfg.Probe, output, logger)
	env.Report = report
	if err != nil {
		env.Teardown()
		return nil, err
	}

	if cfg.TrafficDB != "" {
		rec, err := traffic.NewRecorder(cfg.TrafficDB, logger)
		if err != nil {
			env.Teardown()
			return nil, err
		}
		env.Recorder = rec
	}

	env.Facade = mocking.NewFacade(cfg.MockOptions, nil, logger)
	if env.Recorder != nil {
		env.Facade.SetObserver(env.Recorder)
	}
	return env, nil
}

// Teardown stops mocking sessions, closes the recorder, and kills the
// spawned services. Safe to call on a partially-built environment.
func (e *Environment) Teardown() {
	if e.Facade != nil {
		_ = e.Facade.StopTestMocking()
		_ = e.Facade.StopBrowserMocking()
	}
	if e.Recorder != nil {
		_ = e.Recorder.Close()
	}
	if e.Runner != nil {
		e.Runner.Stop()
	}
}
