package harness

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
)

const portScanRange = 100

// FindFreePort returns the first port at or above start that accepts a
// bind.
func FindFreePort(start int) (int, error) {
	for port := start; port < start+portScanRange; port++ {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			l.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port in range %d-%d", start, start+portScanRange-1)
}

// ServiceConfig describes the backend and frontend commands to spawn.
// Either command may be empty when that service is managed elsewhere. Zero
// ports are assigned from the first free port at or above the usual
// defaults (8000 backend, 3000 frontend).
type ServiceConfig struct {
	BackendCommand  []string
	FrontendCommand []string
	BackendPort     int
	FrontendPort    int
	WorkDir         string
}

// ServiceRunner spawns and later kills the services under test. Processes
// inherit the parent environment plus the ARCS_* variables the services
// read their ports and CORS origins from.
type ServiceRunner struct {
	logger logging.Logger
	procs  []*exec.Cmd

	backendPort  int
	frontendPort int
}

func NewServiceRunner(logger logging.Logger) *ServiceRunner {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &ServiceRunner{logger: logger}
}

// Start launches the configured services. Ports are resolved before either
// process starts so the backend's CORS origins can name the frontend port.
func (r *ServiceRunner) Start(cfg ServiceConfig) error {
	var err error
	r.backendPort = cfg.BackendPort
	if r.backendPort == 0 {
		if r.backendPort, err = FindFreePort(8000); err != nil {
			return err
		}
	}
	r.frontendPort = cfg.FrontendPort
	if r.frontendPort == 0 {
		if r.frontendPort, err = FindFreePort(3000); err != nil {
			return err
		}
	}

	if len(cfg.BackendCommand) > 0 {
		env := append(os.Environ(),
			"ARCS_API_PORT="+strconv.Itoa(r.backendPort),
			"ARCS_API_HOST=0.0.0.0",
			"ARCS_API_RELOAD=false",
			fmt.Sprintf("ARCS_API_CORS_ORIGINS=http://localhost:%d,http://127.0.0.1:%d", r.frontendPort, r.frontendPort),
		)
		if err := r.spawn(cfg.BackendCommand, cfg.WorkDir, env); err != nil {
			return err
		}
	}
	if len(cfg.FrontendCommand) > 0 {
		env := append(os.Environ(),
			"PORT="+strconv.Itoa(r.frontendPort),
			fmt.Sprintf("ARCS_API_URL=http://localhost:%d", r.backendPort),
		)
		if err := r.spawn(cfg.FrontendCommand, cfg.WorkDir, env); err != nil {
			r.Stop()
			return err
		}
	}
	return nil
}

// BackendPort returns the port the backend was assigned.
func (r *ServiceRunner) BackendPort() int { return r.backendPort }

// FrontendPort returns the port the frontend was assigned.
func (r *ServiceRunner) FrontendPort() int { return r.frontendPort }

// FrontendURL returns the base URL the readiness gate should probe.
func (r *ServiceRunner) FrontendURL() string {
	return fmt.Sprintf("http://localhost:%d", r.frontendPort)
}

func (r *ServiceRunner) spawn(argv []string, dir string, env []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	r.logger.Printf("starting service: %s", quoteCommand(argv))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", argv[0], err)
	}
	r.procs = append(r.procs, cmd)
	return nil
}

func quoteCommand(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, a := range argv {
		quoted = append(quoted, shellescape.Quote(a))
	}
	return strings.Join(quoted, " ")
}

// Stop kills the spawned services in reverse start order. Safe to call
// more than once.
func (r *ServiceRunner) Stop() {
	for i := len(r.procs) - 1; i >= 0; i-- {
		cmd := r.procs[i]
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	}
	r.procs = nil
}
