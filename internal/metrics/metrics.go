package metrics

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// EndpointMetrics tracks metrics for a specific endpoint
type EndpointMetrics struct {
	Requests     int64
	Errors       int64
	TotalLatency int64
}

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Request metrics
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	// Request latency (in milliseconds)
	TotalLatency int64
	RequestCount int64

	// Estimation metrics
	BillEstimates      int64
	ApplianceEstimates int64
	EstimateErrors     int64
	Projections        int64
	ProjectionErrors   int64

	// Report metrics (por formato)
	ReportsTXT   int64
	ReportsCSV   int64
	ReportsXLSX  int64
	ReportErrors int64

	// Quote metrics
	QuotesSubmitted   int64
	QuotesRejected    int64
	QuotesRateLimited int64

	// Wizard session metrics
	SessionsStarted int64
	SessionsReset   int64

	// Endpoint-specific metrics
	EndpointMetrics map[string]*EndpointMetrics

	// Start time for uptime calculation
	StartTime time.Time
}

// global metrics instance
var globalMetrics *Metrics
var once sync.Once

// Init initializes the global metrics instance
func Init() {
	once.Do(func() {
		globalMetrics = New()
	})
}

// New cria uma instância isolada, usada diretamente nos testes
func New() *Metrics {
	return &Metrics{
		StartTime:       time.Now(),
		EndpointMetrics: make(map[string]*EndpointMetrics),
	}
}

// Get returns the global metrics instance
func Get() *Metrics {
	Init()
	return globalMetrics
}

// IncrementRequests increments request counters
func (m *Metrics) IncrementRequests(success bool, latencyMs int64) {
	atomic.AddInt64(&m.TotalRequests, 1)
	atomic.AddInt64(&m.TotalLatency, latencyMs)
	atomic.AddInt64(&m.RequestCount, 1)

	if success {
		atomic.AddInt64(&m.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&m.FailedRequests, 1)
	}
}

// IncrementEstimate counts an estimation by mode; failures ignore the mode
func (m *Metrics) IncrementEstimate(mode string, success bool) {
	if !success {
		atomic.AddInt64(&m.EstimateErrors, 1)
		return
	}
	switch mode {
	case "bill":
		atomic.AddInt64(&m.BillEstimates, 1)
	case "appliance":
		atomic.AddInt64(&m.ApplianceEstimates, 1)
	}
}

// IncrementProjection increments projection counters
func (m *Metrics) IncrementProjection(success bool) {
	if success {
		atomic.AddInt64(&m.Projections, 1)
	} else {
		atomic.AddInt64(&m.ProjectionErrors, 1)
	}
}

// IncrementReport counts a generated report by format
func (m *Metrics) IncrementReport(format string, success bool) {
	if !success {
		atomic.AddInt64(&m.ReportErrors, 1)
		return
	}
	switch format {
	case "txt":
		atomic.AddInt64(&m.ReportsTXT, 1)
	case "csv":
		atomic.AddInt64(&m.ReportsCSV, 1)
	case "xlsx":
		atomic.AddInt64(&m.ReportsXLSX, 1)
	}
}

// IncrementQuoteSubmitted increments accepted quote requests
func (m *Metrics) IncrementQuoteSubmitted() {
	atomic.AddInt64(&m.QuotesSubmitted, 1)
}

// IncrementQuoteRejected increments quote requests that failed validation
func (m *Metrics) IncrementQuoteRejected() {
	atomic.AddInt64(&m.QuotesRejected, 1)
}

// IncrementQuoteRateLimited increments quote requests blocked by the limiter
func (m *Metrics) IncrementQuoteRateLimited() {
	atomic.AddInt64(&m.QuotesRateLimited, 1)
}

// IncrementSessionStarted increments wizard sessions created
func (m *Metrics) IncrementSessionStarted() {
	atomic.AddInt64(&m.SessionsStarted, 1)
}

// IncrementSessionReset increments wizard sessions finished by the user
func (m *Metrics) IncrementSessionReset() {
	atomic.AddInt64(&m.SessionsReset, 1)
}

// TrackEndpoint tracks metrics for a specific endpoint
func (m *Metrics) TrackEndpoint(path, method string, statusCode int, latencyMs int64) {
	key := method + " " + path

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EndpointMetrics == nil {
		m.EndpointMetrics = make(map[string]*EndpointMetrics)
	}

	em, exists := m.EndpointMetrics[key]
	if !exists {
		em = &EndpointMetrics{}
		m.EndpointMetrics[key] = em
	}

	atomic.AddInt64(&em.Requests, 1)
	atomic.AddInt64(&em.TotalLatency, latencyMs)
	if statusCode >= 400 {
		atomic.AddInt64(&em.Errors, 1)
	}
}

// GetEndpointMetrics returns a copy of endpoint metrics
func (m *Metrics) GetEndpointMetrics() map[string]EndpointMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]EndpointMetrics)
	for k, v := range m.EndpointMetrics {
		result[k] = EndpointMetrics{
			Requests:     atomic.LoadInt64(&v.Requests),
			Errors:       atomic.LoadInt64(&v.Errors),
			TotalLatency: atomic.LoadInt64(&v.TotalLatency),
		}
	}
	return result
}

// GetAverageLatency returns average request latency in milliseconds
func (m *Metrics) GetAverageLatency() float64 {
	count := atomic.LoadInt64(&m.RequestCount)
	if count == 0 {
		return 0
	}
	total := atomic.LoadInt64(&m.TotalLatency)
	return float64(total) / float64(count)
}

// GetUptime returns the application uptime
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.StartTime)
}

// EndpointMetricsSnapshot represents endpoint metrics in a snapshot
type EndpointMetricsSnapshot struct {
	Requests     int64   `json:"requests"`
	Errors       int64   `json:"errors"`
	ErrorRate    float64 `json:"error_rate"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// MetricsSnapshot represents a point-in-time snapshot of all metrics
type MetricsSnapshot struct {
	// Uptime
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`

	// Request metrics
	Requests struct {
		Total        int64   `json:"total"`
		Successful   int64   `json:"successful"`
		Failed       int64   `json:"failed"`
		AvgLatencyMs float64 `json:"avg_latency_ms"`
	} `json:"requests"`

	// Estimation metrics
	Estimates struct {
		Bill             int64 `json:"bill"`
		Appliance        int64 `json:"appliance"`
		Errors           int64 `json:"errors"`
		Projections      int64 `json:"projections"`
		ProjectionErrors int64 `json:"projection_errors"`
	} `json:"estimates"`

	// Report metrics
	Reports struct {
		TXT    int64 `json:"txt"`
		CSV    int64 `json:"csv"`
		XLSX   int64 `json:"xlsx"`
		Errors int64 `json:"errors"`
	} `json:"reports"`

	// Quote metrics
	Quotes struct {
		Submitted   int64 `json:"submitted"`
		Rejected    int64 `json:"rejected"`
		RateLimited int64 `json:"rate_limited"`
	} `json:"quotes"`

	// Session metrics
	Sessions struct {
		Started int64 `json:"started"`
		Reset   int64 `json:"reset"`
		Active  int   `json:"active"`
	} `json:"sessions"`

	// System metrics
	System struct {
		Goroutines   int    `json:"goroutines"`
		HeapAllocMB  uint64 `json:"heap_alloc_mb"`
		HeapInUseMB  uint64 `json:"heap_inuse_mb"`
		StackInUseMB uint64 `json:"stack_inuse_mb"`
		NumGC        uint32 `json:"num_gc"`
	} `json:"system"`

	// Endpoint-specific metrics
	Endpoints map[string]EndpointMetricsSnapshot `json:"endpoints,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
// activeSessions vem do store de sessões, que não pertence a este pacote.
func (m *Metrics) Snapshot(activeSessions int) MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := MetricsSnapshot{}

	// Uptime
	snapshot.UptimeSeconds = m.GetUptime().Seconds()
	snapshot.StartTime = m.StartTime.Format(time.RFC3339)

	// Request metrics
	snapshot.Requests.Total = atomic.LoadInt64(&m.TotalRequests)
	snapshot.Requests.Successful = atomic.LoadInt64(&m.SuccessfulRequests)
	snapshot.Requests.Failed = atomic.LoadInt64(&m.FailedRequests)
	snapshot.Requests.AvgLatencyMs = m.GetAverageLatency()

	// Estimation metrics
	snapshot.Estimates.Bill = atomic.LoadInt64(&m.BillEstimates)
	snapshot.Estimates.Appliance = atomic.LoadInt64(&m.ApplianceEstimates)
	snapshot.Estimates.Errors = atomic.LoadInt64(&m.EstimateErrors)
	snapshot.Estimates.Projections = atomic.LoadInt64(&m.Projections)
	snapshot.Estimates.ProjectionErrors = atomic.LoadInt64(&m.ProjectionErrors)

	// Report metrics
	snapshot.Reports.TXT = atomic.LoadInt64(&m.ReportsTXT)
	snapshot.Reports.CSV = atomic.LoadInt64(&m.ReportsCSV)
	snapshot.Reports.XLSX = atomic.LoadInt64(&m.ReportsXLSX)
	snapshot.Reports.Errors = atomic.LoadInt64(&m.ReportErrors)

	// Quote metrics
	snapshot.Quotes.Submitted = atomic.LoadInt64(&m.QuotesSubmitted)
	snapshot.Quotes.Rejected = atomic.LoadInt64(&m.QuotesRejected)
	snapshot.Quotes.RateLimited = atomic.LoadInt64(&m.QuotesRateLimited)

	// Session metrics
	snapshot.Sessions.Started = atomic.LoadInt64(&m.SessionsStarted)
	snapshot.Sessions.Reset = atomic.LoadInt64(&m.SessionsReset)
	snapshot.Sessions.Active = activeSessions

	// System metrics
	snapshot.System.Goroutines = runtime.NumGoroutine()
	snapshot.System.HeapAllocMB = memStats.HeapAlloc / 1024 / 1024
	snapshot.System.HeapInUseMB = memStats.HeapInuse / 1024 / 1024
	snapshot.System.StackInUseMB = memStats.StackInuse / 1024 / 1024
	snapshot.System.NumGC = memStats.NumGC

	// Endpoint metrics
	endpointMetrics := m.GetEndpointMetrics()
	if len(endpointMetrics) > 0 {
		snapshot.Endpoints = make(map[string]EndpointMetricsSnapshot)
		for k, v := range endpointMetrics {
			em := EndpointMetricsSnapshot{
				Requests: v.Requests,
				Errors:   v.Errors,
			}
			if v.Requests > 0 {
				em.ErrorRate = float64(v.Errors) / float64(v.Requests) * 100
				em.AvgLatencyMs = float64(v.TotalLatency) / float64(v.Requests)
			}
			snapshot.Endpoints[k] = em
		}
	}

	return snapshot
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status  string `json:"status"` // "healthy", "degraded", "unhealthy"
	Message string `json:"message,omitempty"`
	Latency int64  `json:"latency_ms,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     string                  `json:"status"` // "healthy", "degraded", "unhealthy"
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Timestamp  string                  `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
}

// CheckSessionStoreHealth degrada quando o número de sessões ativas passa de 80% do limite
func CheckSessionStoreHealth(active, maxSessions int) HealthStatus {
	if maxSessions <= 0 {
		return HealthStatus{Status: "healthy"}
	}

	if active > maxSessions {
		return HealthStatus{
			Status:  "unhealthy",
			Message: "too many active sessions",
		}
	}

	if active > maxSessions*80/100 {
		return HealthStatus{
			Status:  "degraded",
			Message: "session store near capacity",
		}
	}

	return HealthStatus{Status: "healthy"}
}

// CheckMemoryHealth checks memory usage
func CheckMemoryHealth(maxHeapMB uint64) HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	heapMB := memStats.HeapAlloc / 1024 / 1024

	if heapMB > maxHeapMB {
		return HealthStatus{
			Status:  "unhealthy",
			Message: "heap memory exceeds limit",
		}
	}

	// Warn if using more than 80% of limit
	if heapMB > (maxHeapMB * 80 / 100) {
		return HealthStatus{
			Status:  "degraded",
			Message: "heap memory usage high",
		}
	}

	return HealthStatus{
		Status: "healthy",
	}
}

// DetermineOverallStatus determines overall health from component statuses
func DetermineOverallStatus(components map[string]HealthStatus) string {
	hasUnhealthy := false
	hasDegraded := false

	for _, status := range components {
		switch status.Status {
		case "unhealthy":
			hasUnhealthy = true
		case "degraded":
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return "unhealthy"
	}
	if hasDegraded {
		return "degraded"
	}
	return "healthy"
}
