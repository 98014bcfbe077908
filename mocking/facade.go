// Package mocking is the single entry point surrounding code uses to
// decide whether request mocking applies and which backend services it.
// Call sites never see the backend split: browser mocking is attached at
// page load for dev environments, process mocking brackets a test-file
// run.
package mocking

import (
	"net/http"
	"os"
	"strconv"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/fixtures"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/interception"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

const (
	envBaseURL  = "ARCS_WEB_BASE_URL"
	envDevTools = "ARCS_DEVTOOLS_URL"
	envMockAPI  = "ARCS_UI_MOCK_API"
)

// Options configures the facade. DevToolsURL identifies the browser
// context, MockAPI is the explicit opt-in flag.
type Options struct {
	BaseURL     string
	DevToolsURL string
	MockAPI     bool
}

// OptionsFromEnv reads the recognized ARCS_* environment variables.
// Mocking stays off unless ARCS_UI_MOCK_API parses as true.
func OptionsFromEnv() Options {
	return Options{
		BaseURL:     os.Getenv(envBaseURL),
		DevToolsURL: os.Getenv(envDevTools),
		MockAPI:     boolEnv(envMockAPI),
	}
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// Facade owns at most one browser-backed and one process-backed
// interception session. Backends are constructed lazily inside the Init
// methods, never at package load.
type Facade struct {
	opts     Options
	baseline func() mockwire.HandlerSet
	logger   logging.Logger
	observer interception.Observer

	browser *interception.Session
	test    *interception.Session
}

// NewFacade builds a facade. A nil baseline falls back to the default
// fixture set for the arcs API.
func NewFacade(opts Options, baseline func() mockwire.HandlerSet, logger logging.Logger) *Facade {
	if baseline == nil {
		baseline = fixtures.Default
	}
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Facade{opts: opts, baseline: baseline, logger: logger}
}

// SetObserver attaches an observer (e.g. a traffic recorder) to sessions
// created after this call.
func (f *Facade) SetObserver(o interception.Observer) {
	f.observer = o
}

// Enabled reports whether browser-side mocking applies: a browser context
// must be reachable and the explicit opt-in flag set. Server-side
// execution has neither, which guards against mocking production
// server-rendered requests by accident.
func (f *Facade) Enabled() bool {
	return f.opts.DevToolsURL != "" && f.opts.MockAPI
}

// InitBrowserMocking starts a browser-backed session with the bypass
// policy, so unmocked endpoints still reach the real backend. A no-op when
// Enabled is false. The interceptor persists for the page's lifetime.
func (f *Facade) InitBrowserMocking() error {
	if !f.Enabled() {
		return nil
	}
	if f.browser == nil {
		backend := interception.NewBrowserInterceptor(f.opts.DevToolsURL, f.logger)
		f.browser = interception.NewSession(backend, f.logger)
		if f.observer != nil {
			f.browser.SetObserver(f.observer)
		}
	}
	return f.browser.Start(f.baseline(), interception.PolicyBypass)
}

// StopBrowserMocking tears down the browser session, if any.
func (f *Facade) StopBrowserMocking() error {
	if f.browser == nil {
		return nil
	}
	err := f.browser.Stop()
	f.browser = nil
	return err
}

// InitTestMocking starts a process-backed session with the error policy,
// independent of Enabled, so automated tests fail loudly on any call they
// forgot to mock. A nil client shims http.DefaultClient. The session's
// lifetime is one test-file run, bounded by StopTestMocking.
func (f *Facade) InitTestMocking(client *http.Client) error {
	if f.test == nil {
		backend := interception.NewProcessInterceptor(client)
		f.test = interception.NewSession(backend, f.logger)
		if f.observer != nil {
			f.test.SetObserver(f.observer)
		}
	}
	return f.test.Start(f.baseline(), interception.PolicyError)
}

// OverrideTestMocking prepends handlers to the active process session for
// the current test only.
func (f *Facade) OverrideTestMocking(extra ...mockwire.Handler) error {
	if f.test == nil {
		return interception.ErrNotListening
	}
	return f.test.Override(extra...)
}

// ResetTestMocking restores the process session's baseline handler set
// between tests.
func (f *Facade) ResetTestMocking() {
	if f.test != nil {
		f.test.Reset()
	}
}

// StopTestMocking tears down the process session at the end of a test-file
// run.
func (f *Facade) StopTestMocking() error {
	if f.test == nil {
		return nil
	}
	err := f.test.Stop()
	f.test = nil
	return err
}
