package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

const sampleYAML = `
routes:
  - method: GET
    path: /api/datasets
    status: 200
    body: '{"data":{"datasets":[]}}'
  - method: GET
    path: /api/datasets/:id
    body: '{"data":{"id":"demo"}}'
  - method: POST
    path: /api/training/runs
    status: 201
    headers:
      X-Request-Id: fixture
    body: '{"data":{"id":"run-0"}}'
`

func resolve(t *testing.T, hs mockwire.HandlerSet, method, path string) *mockwire.Response {
	t.Helper()
	resp, ok := hs.Resolve(mockwire.RequestInfo{Method: method, Path: path})
	require.True(t, ok, "expected %s %s to match", method, path)
	return resp
}

func TestLoadParsesRoutesInOrder(t *testing.T) {
	hs, err := Load([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, hs, 3)

	resp := resolve(t, hs, "GET", "/api/datasets")
	assert.Equal(t, 200, resp.Status)
	assert.JSONEq(t, `{"data":{"datasets":[]}}`, string(resp.Body))

	resp = resolve(t, hs, "GET", "/api/datasets/demo")
	assert.Equal(t, 200, resp.Status, "missing status defaults to 200")

	resp = resolve(t, hs, "POST", "/api/training/runs")
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, "fixture", resp.Headers.Get("X-Request-Id"))
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"),
		"JSON bodies get a content type unless the fixture sets one")
}

func TestLoadRejectsIncompleteRoute(t *testing.T) {
	_, err := Load([]byte("routes:\n  - path: /api/datasets\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method and path are required")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("routes: ["))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	hs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, hs, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultCoversFrontendEndpoints(t *testing.T) {
	hs := Default()

	resp := resolve(t, hs, "GET", "/api/datasets")
	assert.Equal(t, 200, resp.Status)
	assert.True(t, gjson.GetBytes(resp.Body, "data.datasets").IsArray())

	resp = resolve(t, hs, "GET", "/api/datasets/demo")
	assert.Equal(t, "demo", gjson.GetBytes(resp.Body, "data.id").String())

	resp = resolve(t, hs, "POST", "/api/training/runs")
	assert.Equal(t, 201, resp.Status)

	resp = resolve(t, hs, "GET", "/api/safety/status")
	assert.False(t, gjson.GetBytes(resp.Body, "data.estop").Bool())

	_, ok := hs.Resolve(mockwire.RequestInfo{Method: "DELETE", Path: "/api/datasets/demo"})
	assert.False(t, ok, "unlisted operations stay unmatched")
}

func TestBodyVariants(t *testing.T) {
	body := TrainingRun("running")
	assert.Equal(t, "running", gjson.Get(body, "data.status").String())

	body = SimulationState("stepping")
	assert.Equal(t, "stepping", gjson.Get(body, "data.state").String())
}
