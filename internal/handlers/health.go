// internal/handlers/health.go
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/motofleet-be/internal/pkg/config"
	"github.com/ammerola/motofleet-be/internal/workers"
)

// StoreChecker is the part of a storage backend the health checks need. Both the
// postgres database and the in-memory store provide it.
type StoreChecker interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}

// HealthHandler serves /health and /ready. Dependencies left nil (no Redis)
// are reported as disabled rather than failing the check.
type HealthHandler struct {
	store     StoreChecker
	redis     *redis.Client
	inspector *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	store StoreChecker,
	redisClient *redis.Client,
	inspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:     store,
		redis:     redisClient,
		inspector: inspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
	statusDegraded  = "degraded"
)

// HealthStatus is the /health response body
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Storage     string                 `json:"storage"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	Runtime     RuntimeInfo            `json:"runtime"`
}

// ServiceInfo is the status of one dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// RuntimeInfo is process-level information
type RuntimeInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// monitoredQueues are the queues the worker serves
var monitoredQueues = []string{workers.QueueCritical, workers.QueueDefault, workers.QueueLow}

// Health runs every dependency check concurrently. Any unhealthy dependency turns the
// response into a 503 with status "degraded".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]func(context.Context) ServiceInfo{
		"database": h.checkStore,
		"redis":    h.checkRedis,
		"asynq":    h.checkQueues,
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		services = make(map[string]ServiceInfo, len(checks))
	)
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info := timed(ctx, check)
			mu.Lock()
			services[name] = info
			mu.Unlock()
		}()
	}
	wg.Wait()

	health := HealthStatus{
		Status:      statusHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Storage:     h.config.App.StorageDriver,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
		Services:    services,
		Runtime:     runtimeInfo(),
	}

	statusCode := http.StatusOK
	for name, info := range services {
		if info.Status == statusUnhealthy {
			health.Status = statusDegraded
			statusCode = http.StatusServiceUnavailable
			h.logger.WarnContext(ctx, "dependency unhealthy",
				slog.String("dependency", name),
				slog.String("message", info.Message))
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(ctx, h.logger, w, statusCode, health)
}

// Readiness only pings. Queue statistics are left to /health.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	pings := []struct {
		name string
		ping func(context.Context) error
	}{
		{"database", h.pingStore},
		{"redis", h.pingRedis},
	}

	ready := true
	details := make(map[string]string, len(pings))
	for _, p := range pings {
		err := p.ping(ctx)
		switch {
		case errors.Is(err, errDisabled):
			details[p.name] = statusDisabled
		case err != nil:
			ready = false
			details[p.name] = "not ready"
		default:
			details[p.name] = "ready"
		}
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(ctx, h.logger, w, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

var errDisabled = errors.New("disabled")

func (h *HealthHandler) pingStore(ctx context.Context) error {
	if h.store == nil {
		return errDisabled
	}
	return h.store.Ping(ctx)
}

func (h *HealthHandler) pingRedis(ctx context.Context) error {
	if h.redis == nil {
		return errDisabled
	}
	return h.redis.Ping(ctx).Err()
}

func timed(ctx context.Context, check func(context.Context) ServiceInfo) ServiceInfo {
	start := time.Now()
	info := check(ctx)
	if info.Status != statusDisabled {
		info.ResponseTime = time.Since(start).String()
	}
	return info
}

func unhealthy(err error) ServiceInfo {
	return ServiceInfo{Status: statusUnhealthy, Message: err.Error()}
}

func (h *HealthHandler) checkStore(ctx context.Context) ServiceInfo {
	if err := h.pingStore(ctx); err != nil {
		if errors.Is(err, errDisabled) {
			return ServiceInfo{Status: statusDisabled}
		}
		return unhealthy(err)
	}
	return ServiceInfo{Status: statusHealthy, Details: h.store.Health(ctx)}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ServiceInfo {
	if err := h.pingRedis(ctx); err != nil {
		if errors.Is(err, errDisabled) {
			return ServiceInfo{Status: statusDisabled}
		}
		return unhealthy(err)
	}

	stats := h.redis.PoolStats()
	return ServiceInfo{
		Status: statusHealthy,
		Details: map[string]interface{}{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
		},
	}
}

// checkQueues reports the backlog of every worker queue. Archived tasks leave the
// status healthy and only set Message.
func (h *HealthHandler) checkQueues(ctx context.Context) ServiceInfo {
	if h.inspector == nil {
		return ServiceInfo{Status: statusDisabled}
	}

	known, err := h.inspector.Queues()
	if err != nil {
		return unhealthy(err)
	}
	present := make(map[string]bool, len(known))
	for _, q := range known {
		present[q] = true
	}

	queues := make(map[string]interface{}, len(monitoredQueues))
	var dead int
	for _, name := range monitoredQueues {
		if !present[name] {
			queues[name] = map[string]int{"pending": 0}
			continue
		}
		q, err := h.inspector.GetQueueInfo(name)
		if err != nil {
			return unhealthy(err)
		}
		queues[name] = map[string]int{
			"pending":   q.Pending,
			"active":    q.Active,
			"scheduled": q.Scheduled,
			"retry":     q.Retry,
			"archived":  q.Archived,
		}
		dead += q.Archived
	}

	info := ServiceInfo{
		Status:  statusHealthy,
		Details: map[string]interface{}{"queues": queues},
	}
	if dead > 0 {
		info.Message = "tasks archived after exhausting retries"
	}
	if servers, err := h.inspector.Servers(); err == nil {
		info.Details["workers"] = len(servers)
	}
	return info
}

func runtimeInfo() RuntimeInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAllocMB: mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
	}
}
