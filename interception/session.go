// Package interception substitutes canned responses for real backend calls.
// A Session owns the active handler set and its lifecycle; the two Backend
// implementations differ only in where they catch the request: inside a
// running browser (BrowserInterceptor) or inside the test process itself
// (ProcessInterceptor). Calling code sees identical behavior from both.
package interception

import (
	"sync"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

// UnmatchedPolicy is the behavior applied when no handler matches an
// intercepted request.
type UnmatchedPolicy int

const (
	// PolicyBypass forwards the request to the real network unmodified, so
	// unmocked endpoints still work in a partially-mocked environment.
	PolicyBypass UnmatchedPolicy = iota
	// PolicyError fails the request synchronously with an
	// UnmatchedRequestError, so a test detects missing mocks immediately.
	PolicyError
	// PolicyWarn forwards like PolicyBypass but emits a diagnostic.
	PolicyWarn
)

func (p UnmatchedPolicy) String() string {
	switch p {
	case PolicyError:
		return "error"
	case PolicyWarn:
		return "warn"
	default:
		return "bypass"
	}
}

// ResolveFunc is how a backend asks its session for a canned response. A
// nil response with a nil error means the request should be forwarded to
// the real network; a non-nil error means the request must fail.
type ResolveFunc func(req mockwire.RequestInfo) (*mockwire.Response, error)

// Backend installs and tears down the request catch point. Install must
// complete before the session reports itself listening.
type Backend interface {
	Install(resolve ResolveFunc) error
	Teardown() error
}

// Outcome classifies what happened to one intercepted request.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeBypassed  Outcome = "bypassed"
	OutcomeUnmatched Outcome = "unmatched"
)

// RequestRecord describes one intercepted request for observers. Status is
// zero unless a mock fulfilled the request.
type RequestRecord struct {
	Method  string
	Path    string
	Status  int
	Outcome Outcome
}

// Observer receives a record for every intercepted request.
type Observer interface {
	RequestIntercepted(RequestRecord)
}

type sessionState int

const (
	stateStopped sessionState = iota
	stateListening
)

// Session wraps a handler set in an active interception lifecycle. State
// transitions are strictly Stopped -> Listening -> Stopped. The handler set
// is owned exclusively by the session and mutated only through Override and
// Reset; the mutex guards it against the backend's transport goroutine.
type Session struct {
	backend  Backend
	logger   logging.Logger
	observer Observer

	mu       sync.Mutex
	state    sessionState
	policy   UnmatchedPolicy
	baseline mockwire.HandlerSet
	active   mockwire.HandlerSet
}

func NewSession(backend Backend, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Session{backend: backend, logger: logger}
}

// SetObserver attaches an observer for intercepted requests. Call before
// Start.
func (s *Session) SetObserver(o Observer) {
	s.observer = o
}

// Start transitions the session from Stopped to Listening, installing the
// backend with the given baseline handler set and unmatched-request policy.
// Returns ErrAlreadyStarted if the session is already listening.
func (s *Session) Start(baseline mockwire.HandlerSet, policy UnmatchedPolicy) error {
	s.mu.Lock()
	if s.state == stateListening {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.baseline = baseline
	s.active = baseline
	s.policy = policy
	s.mu.Unlock()

	if err := s.backend.Install(s.resolveRequest); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = stateListening
	s.mu.Unlock()
	s.logger.Printf("interception listening with %d handler(s), unmatched policy %s", len(baseline), policy)
	return nil
}

// Override prepends handlers to the active set for the remainder of the
// current test. The baseline is not mutated; Reset restores it. Returns
// ErrNotListening if the session is stopped.
func (s *Session) Override(extra ...mockwire.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateListening {
		return ErrNotListening
	}
	merged := make(mockwire.HandlerSet, 0, len(extra)+len(s.active))
	merged = append(merged, extra...)
	merged = append(merged, s.active...)
	s.active = merged
	return nil
}

// Reset discards any per-test overrides, restoring the baseline handler
// set. Idempotent; a no-op on a stopped session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = s.baseline
}

// Stop transitions the session to Stopped, tears down the backend, and
// discards all handler state. Idempotent: stopping an already-stopped
// session is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state == stateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = stateStopped
	s.baseline = nil
	s.active = nil
	s.mu.Unlock()

	err := s.backend.Teardown()
	s.logger.Printf("interception stopped")
	return err
}

// Listening reports whether the session is currently intercepting.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateListening
}

func (s *Session) resolveRequest(req mockwire.RequestInfo) (*mockwire.Response, error) {
	s.mu.Lock()
	handlers := s.active
	policy := s.policy
	s.mu.Unlock()

	if resp, ok := handlers.Resolve(req); ok {
		s.observe(RequestRecord{Method: req.Method, Path: req.Path, Status: resp.Status, Outcome: OutcomeMatched})
		return resp, nil
	}

	switch policy {
	case PolicyError:
		s.observe(RequestRecord{Method: req.Method, Path: req.Path, Outcome: OutcomeUnmatched})
		return nil, &UnmatchedRequestError{Method: req.Method, Path: req.Path}
	case PolicyWarn:
		s.logger.Printf("no mock handler for %s %s, forwarding to real network", req.Method, req.Path)
	}
	s.observe(RequestRecord{Method: req.Method, Path: req.Path, Outcome: OutcomeBypassed})
	return nil, nil
}

func (s *Session) observe(rec RequestRecord) {
	if s.observer != nil {
		s.observer.RequestIntercepted(rec)
	}
}
