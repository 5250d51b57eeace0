package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	service  string
	version  string
	store    Pinger
	optional map[string]Pinger
}

// NewHealthHandler creates a health handler. optional dependencies are reported but never fail readiness.
func NewHealthHandler(service, version string, store Pinger, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, version: version, store: store, optional: optional}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Service   string           `json:"service"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SystemInfo represents system runtime information
type SystemInfo struct {
	Goroutines  int    `json:"goroutines"`
	MemoryAlloc uint64 `json:"memory_alloc_mb"`
	NumCPU      int    `json:"num_cpu"`
	GoVersion   string `json:"go_version"`
}

func (h *HealthHandler) response(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Service:   h.service,
		Version:   h.version,
		Uptime:    time.Since(startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]Check),
	}
}

func check(ctx context.Context, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}
	return Check{Status: "healthy"}
}

// Health reports 200 when the store answers and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	response := h.response("healthy")
	code := http.StatusOK

	db := check(c.Request.Context(), h.store)
	response.Checks["database"] = db
	if db.Status != "healthy" {
		response.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	if c.Query("detailed") == "true" {
		for name, p := range h.optional {
			response.Checks[name] = check(c.Request.Context(), p)
		}
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		response.System = &SystemInfo{
			Goroutines:  runtime.NumGoroutine(),
			MemoryAlloc: mem.Alloc / 1024 / 1024,
			NumCPU:      runtime.NumCPU(),
			GoVersion:   runtime.Version(),
		}
	}

	c.JSON(code, response)
}

// Ready reports whether the process can take traffic
func (h *HealthHandler) Ready(c *gin.Context) {
	response := h.response("ready")

	db := check(c.Request.Context(), h.store)
	response.Checks["database"] = db
	if db.Status != "healthy" {
		response.Status = "not ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
