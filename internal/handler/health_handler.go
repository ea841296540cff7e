package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/training/practice/internal/response"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports datastore reachability and basic runtime stats.
type HealthHandler struct {
	db        Pinger
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler builds a HealthHandler. rdb may be nil when caching is disabled.
func NewHealthHandler(db Pinger, rdb *redis.Client, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

type healthStatus struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	Components map[string]string `json:"components"`
	Goroutines int               `json:"goroutines"`
	HeapAlloc  uint64            `json:"heapAlloc"`
	GoVersion  string            `json:"goVersion"`
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := healthStatus{
		Status:     "UP",
		Uptime:     formatDuration(time.Since(h.startTime)),
		Components: map[string]string{},
		Goroutines: runtime.NumGoroutine(),
		GoVersion:  runtime.Version(),
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	status.HeapAlloc = ms.HeapAlloc

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("Database health check failed")
		status.Status = "DOWN"
		status.Components["db"] = "DOWN"
	} else {
		status.Components["db"] = "UP"
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis health check failed")
			status.Status = "DOWN"
			status.Components["redis"] = "DOWN"
		} else {
			status.Components["redis"] = "UP"
		}
	}

	if status.Status != "UP" {
		response.FailWithData(c, http.StatusServiceUnavailable, "Service unavailable", status)
		return
	}
	response.OK(c, status)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
