package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/session"
)

const (
	// maxHeapMB é o limite de memória usado no health check
	maxHeapMB = 512
	// maxActiveSessions é a capacidade esperada do store em memória
	maxActiveSessions = 10000
)

// HealthHandler handles health check and metrics endpoints
type HealthHandler struct {
	store     *session.Store
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *session.Store, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		version:   version,
		startTime: time.Now(),
	}
}

// LivenessCheck returns basic liveness status
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// DetailedHealthCheck returns comprehensive health information
// @Summary Detailed health check
// @Description Returns memory and session store health
// @Tags health
// @Produce json
// @Success 200 {object} metrics.HealthCheck
// @Failure 503 {object} metrics.HealthCheck
// @Router /health [get]
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	components := make(map[string]metrics.HealthStatus)

	components["memory"] = metrics.CheckMemoryHealth(maxHeapMB)
	components["sessions"] = metrics.CheckSessionStoreHealth(h.store.Size(), maxActiveSessions)

	// Determine overall status
	overallStatus := metrics.DetermineOverallStatus(components)

	healthCheck := metrics.HealthCheck{
		Status:     overallStatus,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, healthCheck)
}

// GetMetrics returns application metrics
// @Summary Get application metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} metrics.MetricsSnapshot
// @Router /metrics [get]
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Get().Snapshot(h.store.Size()))
}

// GetMetricsSummary returns a summary of key metrics
// @Summary Get metrics summary
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics/summary [get]
func (h *HealthHandler) GetMetricsSummary(c *gin.Context) {
	snapshot := metrics.Get().Snapshot(h.store.Size())

	requestSuccessRate := float64(0)
	if snapshot.Requests.Total > 0 {
		requestSuccessRate = float64(snapshot.Requests.Successful) / float64(snapshot.Requests.Total) * 100
	}

	quoteAcceptRate := float64(0)
	totalQuotes := snapshot.Quotes.Submitted + snapshot.Quotes.Rejected + snapshot.Quotes.RateLimited
	if totalQuotes > 0 {
		quoteAcceptRate = float64(snapshot.Quotes.Submitted) / float64(totalQuotes) * 100
	}

	summary := gin.H{
		"uptime_seconds": snapshot.UptimeSeconds,
		"version":        h.version,
		"requests": gin.H{
			"total":        snapshot.Requests.Total,
			"success_rate": requestSuccessRate,
			"avg_latency":  snapshot.Requests.AvgLatencyMs,
		},
		"estimates": gin.H{
			"total":       snapshot.Estimates.Bill + snapshot.Estimates.Appliance,
			"errors":      snapshot.Estimates.Errors,
			"projections": snapshot.Estimates.Projections,
		},
		"quotes": gin.H{
			"submitted":   snapshot.Quotes.Submitted,
			"accept_rate": quoteAcceptRate,
		},
		"sessions": gin.H{
			"active": snapshot.Sessions.Active,
		},
		"system": gin.H{
			"goroutines":  snapshot.System.Goroutines,
			"heap_mb":     snapshot.System.HeapAllocMB,
			"heap_use_mb": snapshot.System.HeapInUseMB,
		},
	}

	c.JSON(http.StatusOK, summary)
}
