package interception

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

type fakeBackend struct {
	resolve   ResolveFunc
	installs  int
	teardowns int
}

func (f *fakeBackend) Install(resolve ResolveFunc) error {
	f.resolve = resolve
	f.installs++
	return nil
}

func (f *fakeBackend) Teardown() error {
	f.resolve = nil
	f.teardowns++
	return nil
}

func datasetsBaseline() mockwire.HandlerSet {
	return mockwire.Register(
		mockwire.Route("GET", "/datasets", mockwire.JSONResponse(200, `[]`)),
	)
}

func getDatasets(t *testing.T, b *fakeBackend) (*mockwire.Response, error) {
	t.Helper()
	require.NotNil(t, b.resolve, "backend must be installed")
	return b.resolve(mockwire.RequestInfo{Method: "GET", Path: "/datasets"})
}

func TestStartTwiceReturnsAlreadyStarted(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)

	require.NoError(t, s.Start(datasetsBaseline(), PolicyError))
	err := s.Start(datasetsBaseline(), PolicyError)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, 1, b.installs, "second start must not reinstall the backend")
}

func TestOverrideRequiresListening(t *testing.T) {
	s := NewSession(&fakeBackend{}, nil)
	err := s.Override(mockwire.Route("GET", "/datasets", mockwire.StatusResponse(500)))
	assert.ErrorIs(t, err, ErrNotListening)
}

func TestStopIsIdempotent(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)

	require.NoError(t, s.Start(datasetsBaseline(), PolicyBypass))
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.Equal(t, 1, b.teardowns)
	assert.False(t, s.Listening())
}

func TestRestartAfterStop(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)

	require.NoError(t, s.Start(datasetsBaseline(), PolicyBypass))
	require.NoError(t, s.Stop())
	require.NoError(t, s.Start(datasetsBaseline(), PolicyBypass))
	assert.Equal(t, 2, b.installs)
	assert.True(t, s.Listening())
}

func TestOverrideAndResetIsolation(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)
	require.NoError(t, s.Start(datasetsBaseline(), PolicyError))

	resp, err := getDatasets(t, b)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	require.NoError(t, s.Override(mockwire.Route("GET", "/datasets", mockwire.StatusResponse(500))))
	resp, err = getDatasets(t, b)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.Status, "override must shadow the baseline handler")

	s.Reset()
	resp, err = getDatasets(t, b)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status, "reset must restore the baseline")
	assert.JSONEq(t, `[]`, string(resp.Body))
}

func TestResetIsIdempotent(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)
	require.NoError(t, s.Start(datasetsBaseline(), PolicyError))

	s.Reset()
	s.Reset()
	resp, err := getDatasets(t, b)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
}

func TestErrorPolicyRaisesUnmatchedRequest(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)
	require.NoError(t, s.Start(datasetsBaseline(), PolicyError))

	_, err := b.resolve(mockwire.RequestInfo{Method: "POST", Path: "/unknown"})
	var unmatched *UnmatchedRequestError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "POST", unmatched.Method)
	assert.Equal(t, "/unknown", unmatched.Path)
}

func TestBypassPolicyForwardsUnmatchedRequest(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, nil)
	require.NoError(t, s.Start(datasetsBaseline(), PolicyBypass))

	resp, err := b.resolve(mockwire.RequestInfo{Method: "POST", Path: "/unknown"})
	require.NoError(t, err)
	assert.Nil(t, resp, "nil response means forward to the real network")
}

func TestWarnPolicyForwardsAndLogs(t *testing.T) {
	var log logging.CapturingLogger
	b := &fakeBackend{}
	s := NewSession(b, &log)
	require.NoError(t, s.Start(datasetsBaseline(), PolicyWarn))

	resp, err := b.resolve(mockwire.RequestInfo{Method: "GET", Path: "/missing"})
	require.NoError(t, err)
	assert.Nil(t, resp)

	var warned bool
	for _, m := range log.Output() {
		if strings.Contains(m.Message, "GET /missing") {
			warned = true
		}
	}
	assert.True(t, warned, "warn policy must emit a diagnostic naming the request")
}

type captureObserver struct {
	records []RequestRecord
}

func (c *captureObserver) RequestIntercepted(r RequestRecord) {
	c.records = append(c.records, r)
}

func TestObserverSeesEveryOutcome(t *testing.T) {
	obs := &captureObserver{}
	b := &fakeBackend{}
	s := NewSession(b, nil)
	s.SetObserver(obs)
	require.NoError(t, s.Start(datasetsBaseline(), PolicyWarn))

	_, _ = b.resolve(mockwire.RequestInfo{Method: "GET", Path: "/datasets"})
	_, _ = b.resolve(mockwire.RequestInfo{Method: "GET", Path: "/missing"})

	require.Len(t, obs.records, 2)
	assert.Equal(t, OutcomeMatched, obs.records[0].Outcome)
	assert.Equal(t, 200, obs.records[0].Status)
	assert.Equal(t, OutcomeBypassed, obs.records[1].Outcome)
	assert.Equal(t, 0, obs.records[1].Status)
}

func TestPolicyStrings(t *testing.T) {
	assert.Equal(t, "bypass", PolicyBypass.String())
	assert.Equal(t, "error", PolicyError.String())
	assert.Equal(t, "warn", PolicyWarn.String())
}
