// Package fixtures declares the canned API surface used as the baseline
// mock handler set for the arcs web app. Route sets can also be loaded
// from YAML so test suites keep their mock data declarative.
package fixtures

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/mockwire"
)

type routeSpec struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
}

type fileSpec struct {
	Routes []routeSpec `yaml:"routes"`
}

// Load parses YAML route declarations into a handler set, preserving
// declaration order. A missing status defaults to 200.
func Load(data []byte) (mockwire.HandlerSet, error) {
	var f fileSpec
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	handlers := make([]mockwire.Handler, 0, len(f.Routes))
	for i, r := range f.Routes {
		if r.Method == "" || r.Path == "" {
			return nil, fmt.Errorf("route %d: method and path are required", i)
		}
		status := r.Status
		if status == 0 {
			status = 200
		}
		headers := http.Header{}
		for k, v := range r.Headers {
			headers.Set(k, v)
		}
		if r.Body != "" && headers.Get("Content-Type") == "" {
			headers.Set("Content-Type", "application/json")
		}
		body := []byte(r.Body)
		handlers = append(handlers, mockwire.Route(r.Method, r.Path, func(mockwire.RequestInfo) mockwire.Response {
			return mockwire.Response{Status: status, Headers: headers, Body: body}
		}))
	}
	return mockwire.Register(handlers...), nil
}

// LoadFile reads and parses a YAML fixture file.
func LoadFile(path string) (mockwire.HandlerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Canned bodies follow the backend's response envelope: {"data": ...}.
const (
	datasetListBody  = `{"data":{"datasets":[],"total":0}}`
	datasetBody      = `{"data":{"id":"demo","name":"demo","num_episodes":0}}`
	simSessionsBody  = `{"data":[]}`
	simStateBody     = `{"data":{"session_id":"sim-0","state":"idle","sim_time":0}}`
	trainingRunBody  = `{"data":{"id":"run-0","status":"pending","algorithm":"ppo"}}`
	trainingRunsBody = `{"data":[]}`
	safetyStatusBody = `{"data":{"estop":false,"limits_ok":true,"violations":[]}}`
	kinematicsBody   = `{"data":{"joint_angles":[0,0,0,0,0,0],"reachable":true}}`
)

// Default is the baseline handler set covering the endpoints the frontend
// calls during a test run.
func Default() mockwire.HandlerSet {
	return mockwire.Register(
		mockwire.Route("GET", "/api/datasets", mockwire.JSONResponse(200, datasetListBody)),
		mockwire.Route("GET", "/api/datasets/:id", mockwire.JSONResponse(200, datasetBody)),
		mockwire.Route("GET", "/api/simulation/sessions", mockwire.JSONResponse(200, simSessionsBody)),
		mockwire.Route("GET", "/api/simulation/sessions/:id/state", mockwire.JSONResponse(200, simStateBody)),
		mockwire.Route("POST", "/api/training/runs", mockwire.JSONResponse(201, trainingRunBody)),
		mockwire.Route("GET", "/api/training/runs", mockwire.JSONResponse(200, trainingRunsBody)),
		mockwire.Route("GET", "/api/safety/status", mockwire.JSONResponse(200, safetyStatusBody)),
		mockwire.Route("POST", "/api/kinematics/forward", mockwire.JSONResponse(200, kinematicsBody)),
	)
}

// TrainingRun returns the canned training-run body with its status
// replaced, for tests that drive a run through its states.
func TrainingRun(status string) string {
	return mockwire.JSONPatch(trainingRunBody, "data.status", status)
}

// SimulationState returns the canned simulation state body with the state
// field replaced.
func SimulationState(state string) string {
	return mockwire.JSONPatch(simStateBody, "data.state", state)
}
