package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/monitor"
)

const (
	startupWait  = 3 * time.Second
	pollInterval = 100 * time.Millisecond
)

// Daemon runs the monitor in the foreground and controls a running one.
type Daemon struct {
	cfg      config.MonitorConfig
	pidFile  *PIDFile
	version  string
	monitor  *monitor.Monitor
	metrics  *Metrics
	health   *HealthChecker
	listener net.Listener
}

// Status represents the monitor process status.
type Status struct {
	Running     bool      `json:"running"`
	PID         int       `json:"pid,omitempty"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	Uptime      string    `json:"uptime,omitempty"`
	MetricsAddr string    `json:"metrics_addr,omitempty"`
	PIDFile     string    `json:"pid_file"`
	LogFile     string    `json:"log_file"`
}

// State is written next to the PID file while the monitor runs.
type State struct {
	StartedAt   time.Time `json:"started_at"`
	Version     string    `json:"version,omitempty"`
	MetricsAddr string    `json:"metrics_addr,omitempty"`
}

// NewDaemon creates a daemon for the given monitor configuration.
func NewDaemon(cfg config.MonitorConfig, version string) *Daemon {
	return &Daemon{
		cfg:     cfg,
		pidFile: NewPIDFile(cfg.PIDFile),
		version: version,
	}
}

// Attach sets the monitor to run and the metrics to expose.
func (d *Daemon) Attach(mon *monitor.Monitor, metrics *Metrics) {
	d.monitor = mon
	d.metrics = metrics
	d.health = NewHealthChecker(d.version, mon)
}

// AddProbe registers a named health probe served on /healthz.
func (d *Daemon) AddProbe(name string, probe func() error) {
	if d.health != nil {
		d.health.AddCheck(name, probe)
	}
}

// IsRunning returns true if a monitor process is running.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// GetStatus returns the current monitor process status.
func (d *Daemon) GetStatus() *Status {
	status := &Status{PIDFile: d.pidFile.Path(), LogFile: d.cfg.LogFile}

	pid := d.pidFile.RunningPID()
	if pid == 0 {
		return status
	}
	status.Running = true
	status.PID = pid
	if state, err := d.readState(); err == nil {
		status.StartedAt = state.StartedAt
		status.Uptime = formatUptime(time.Since(state.StartedAt))
		status.MetricsAddr = state.MetricsAddr
	}
	return status
}

// Run runs the monitor in the foreground until ctx ends or a shutdown
// signal arrives. One check runs immediately, then every interval.
func (d *Daemon) Run(ctx context.Context) error {
	if d.monitor == nil {
		return fmt.Errorf("no monitor attached")
	}
	if d.IsRunning() {
		return errors.ErrMonitorRunning
	}

	if err := d.pidFile.Write(); err != nil {
		return err
	}
	defer d.cleanup()

	state := &State{StartedAt: time.Now(), Version: d.version}

	var server *http.Server
	if d.cfg.MetricsAddr != "" {
		var err error
		server, err = d.startServer()
		if err != nil {
			return err
		}
		state.MetricsAddr = d.listener.Addr().String()
	}
	if err := d.writeState(state); err != nil {
		return err
	}

	if _, err := d.monitor.Check(logging.NewRequestContext(ctx)); err != nil {
		logging.Error("initial inactivity check failed", logging.KeyError, err)
	}
	if err := d.monitor.Start(); err != nil {
		return err
	}

	logging.Info("monitor running", "pid", os.Getpid(), "metrics_addr", state.MetricsAddr)
	waitForShutdown(ctx)

	d.monitor.Stop()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Warn("metrics server shutdown", logging.KeyError, err)
		}
	}
	return nil
}

// Addr returns the metrics listener address once Run has started serving.
func (d *Daemon) Addr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

func (d *Daemon) startServer() (*http.Server, error) {
	ln, err := net.Listen("tcp", d.cfg.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", d.cfg.MetricsAddr, err)
	}
	d.listener = ln

	server := &http.Server{
		Handler:           NewMux(d.metrics, d.health),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Error("metrics server stopped", logging.KeyError, err)
		}
	}()
	return server, nil
}

// NewMux routes /metrics and /healthz.
func NewMux(metrics *Metrics, health *HealthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
	if health != nil {
		mux.Handle("/healthz", health)
	}
	return mux
}

func (d *Daemon) cleanup() {
	if err := d.pidFile.Remove(); err != nil {
		logging.Warn("failed to remove PID file", logging.KeyError, err)
	}
	d.removeState()
}

// StartBackground re-executes the binary with args as a detached process
// and waits for it to write its PID file.
func (d *Daemon) StartBackground(args []string) (int, error) {
	if pid := d.pidFile.RunningPID(); pid > 0 {
		return pid, errors.ErrMonitorRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil
	outPath := d.outputPath()
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err == nil {
		if out, err := os.OpenFile(outPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			defer out.Close()
			cmd.Stdout = out
			cmd.Stderr = out
		}
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start monitor: %w", err)
	}
	// Reap the child if it exits early so it does not linger as a zombie.
	go cmd.Wait()

	deadline := time.Now().Add(startupWait)
	for time.Now().Before(deadline) {
		if d.pidFile.IsRunning() {
			return cmd.Process.Pid, nil
		}
		time.Sleep(pollInterval)
	}

	if msg := d.lastOutputError(); msg != "" {
		return 0, fmt.Errorf("monitor failed to start: %s", msg)
	}
	return 0, fmt.Errorf("monitor failed to start (check %s)", outPath)
}

// Stop asks the running monitor to exit and waits up to timeout before
// killing it.
func (d *Daemon) Stop(timeout time.Duration) error {
	pid := d.pidFile.RunningPID()
	if pid == 0 {
		return errors.ErrMonitorNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop monitor: %w", err)
		}
	}

	deadline := time.Now().Add(timeout)
	for IsProcessRunning(pid) {
		if time.Now().After(deadline) {
			logging.Warn("monitor did not exit in time, killing", "pid", pid)
			_ = process.Kill()
			break
		}
		time.Sleep(pollInterval)
	}

	d.cleanup()
	return nil
}

func (d *Daemon) statePath() string {
	return filepath.Join(filepath.Dir(d.cfg.PIDFile), "monitor.json")
}

func (d *Daemon) outputPath() string {
	return filepath.Join(filepath.Dir(d.cfg.PIDFile), "monitor.out")
}

func (d *Daemon) writeState(state *State) error {
	path := d.statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *Daemon) readState() (*State, error) {
	data, err := os.ReadFile(d.statePath())
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *Daemon) removeState() {
	if err := os.Remove(d.statePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove monitor state file", logging.KeyError, err, "path", d.statePath())
	}
}

// lastOutputError scans the tail of the startup output for an error line.
func (d *Daemon) lastOutputError() string {
	data, err := os.ReadFile(d.outputPath())
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := max(len(lines)-10, 0)
	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
			return line
		}
	}
	return ""
}

// formatUptime renders how long ago started was, e.g. "3 hours".
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now.Add(-d), now, "", ""))
}
