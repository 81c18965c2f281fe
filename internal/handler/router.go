package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/middleware"
	"github.com/rbbhati/solar-estimator/internal/service"
	"github.com/rbbhati/solar-estimator/internal/session"
	"github.com/rbbhati/solar-estimator/internal/web"
)

// RouterConfig contém as opções HTTP do router
type RouterConfig struct {
	Version      string
	TokenAPI     string
	CookieSecure bool
}

// Dependencies agrupa os serviços usados pelos handlers
type Dependencies struct {
	Store      *session.Store
	CSRF       *middleware.CSRFMiddleware
	Estimation *service.EstimationService
	Reports    *service.ReportService
	Quotes     *service.QuoteService
}

// NewRouter monta o router com o assistente, a API e os endpoints operacionais
func NewRouter(cfg RouterConfig, deps Dependencies) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("carregar templates: %w", err)
	}

	r := gin.New()
	r.Use(middleware.RequestID()) // Request ID + logging estruturado
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.SetHTMLTemplate(tmpl)

	// Operacional (público)
	health := NewHealthHandler(deps.Store, cfg.Version)
	r.GET("/health", health.DetailedHealthCheck)
	r.GET("/health/live", health.LivenessCheck)
	r.GET("/metrics", health.GetMetrics)
	r.GET("/metrics/summary", health.GetMetricsSummary)

	// Assistente HTML (sessão por cookie + CSRF)
	sessions := middleware.NewSessionMiddleware(deps.Store, middleware.SessionConfig{
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
	})
	NewWizardHandler(deps.Store, deps.CSRF, deps.Estimation, deps.Reports, deps.Quotes).Register(r, sessions)

	// API JSON
	api := r.Group("/api/v1")
	api.Use(middleware.BearerAuth(middleware.AuthConfig{
		TokenAPI: cfg.TokenAPI,
	}))
	NewAPIHandler(deps.Estimation, deps.Reports, deps.Quotes).Register(api)

	return r, nil
}
