package daemon

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"
)

// HealthStatus is the body of /healthz.
type HealthStatus struct {
	Status        string        `json:"status"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	MemoryMB      float64       `json:"memory_mb"`
	Goroutines    int           `json:"goroutines"`
	Version       string        `json:"version,omitempty"`
	LastCheck     *time.Time    `json:"last_check,omitempty"`
	NextCheck     *time.Time    `json:"next_check,omitempty"`
	Checks        []CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of one named health probe.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Schedule reports when the monitor last ran and will run next.
type Schedule interface {
	LastCheck() time.Time
	NextRun() time.Time
}

// HealthChecker aggregates named probes into a health status.
type HealthChecker struct {
	mu        sync.RWMutex
	startTime time.Time
	version   string
	schedule  Schedule
	checks    map[string]func() error
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(version string, schedule Schedule) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		version:   version,
		schedule:  schedule,
		checks:    make(map[string]func() error),
	}
}

// AddCheck adds a named probe.
func (h *HealthChecker) AddCheck(name string, check func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// RemoveCheck removes a named probe.
func (h *HealthChecker) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.checks, name)
}

// Check runs every probe and returns the aggregate status.
func (h *HealthChecker) Check() *HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := &HealthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(memStats.Alloc) / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		Version:       h.version,
	}

	if h.schedule != nil {
		if t := h.schedule.LastCheck(); !t.IsZero() {
			status.LastCheck = &t
		}
		if t := h.schedule.NextRun(); !t.IsZero() {
			status.NextCheck = &t
		}
	}

	h.mu.RLock()
	for name, check := range h.checks {
		result := CheckResult{Name: name, Healthy: true}
		if err := check(); err != nil {
			result.Healthy = false
			result.Error = err.Error()
			status.Status = "unhealthy"
		}
		status.Checks = append(status.Checks, result)
	}
	h.mu.RUnlock()

	sort.Slice(status.Checks, func(i, j int) bool {
		return status.Checks[i].Name < status.Checks[j].Name
	})
	return status
}

// IsHealthy returns true if every probe passes.
func (h *HealthChecker) IsHealthy() bool {
	return h.Check().Status == "healthy"
}

// Uptime returns how long the monitor has been running.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}

// ServeHTTP writes the status as JSON, with 503 when unhealthy.
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status := h.Check()
	w.Header().Set("Content-Type", "application/json")
	if status.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}
