package main

import (
	stdlog "log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/config"
	"github.com/rbbhati/solar-estimator/internal/estimator"
	"github.com/rbbhati/solar-estimator/internal/handler"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/middleware"
	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/rbbhati/solar-estimator/internal/service"
	"github.com/rbbhati/solar-estimator/internal/session"
)

const Version = "1.0.0"

// csrfCleanupInterval é o intervalo de limpeza dos tokens CSRF expirados
const csrfCleanupInterval = 5 * time.Minute

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	logger.InitAudit()
	metrics.Init()

	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Bool("log_json", cfg.LogJSON).
		Float64("cost_per_kw", cfg.CostPerKW).
		Str("projection_method", string(cfg.ProjectionMethod)).
		Msg("Smart Solar Estimator iniciando")

	// Motor e serviços
	params := estimator.DefaultParams()
	params.CostPerKW = cfg.CostPerKW
	engine := estimator.NewEngine(params)

	estimationService := service.NewEstimationService(engine, model.ProjectionInput{
		Method:           cfg.ProjectionMethod,
		InflationPct:     cfg.GridInflationPct,
		DegradationPct:   cfg.PanelDegradationPct,
		HorizonYears:     estimator.DefaultHorizonYears,
		InstallCostPerKW: cfg.ProjectionCostPerKW,
	})
	reportService := service.NewReportService()
	defer reportService.Close()
	quoteService := service.NewQuoteService(cfg.QuoteRatePerMinute)

	// Sessões do assistente
	store := session.NewStore(cfg.SessionTTL)
	defer store.Stop()

	csrf := middleware.NewCSRFMiddleware(middleware.CSRFConfig{
		TokenDuration: cfg.SessionTTL,
	})
	go func() {
		ticker := time.NewTicker(csrfCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			if removed := csrf.CleanupExpiredTokens(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("Tokens CSRF expirados removidos")
			}
		}
	}()

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	r, err := handler.NewRouter(handler.RouterConfig{
		Version:      Version,
		TokenAPI:     cfg.TokenAPI,
		CookieSecure: cfg.CookieSecure,
	}, handler.Dependencies{
		Store:      store,
		CSRF:       csrf,
		Estimation: estimationService,
		Reports:    reportService,
		Quotes:     quoteService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao montar router")
	}

	// Inicia servidor
	port := cfg.Port
	log.Info().Str("port", port).Msg("Servidor iniciando")

	if err := r.Run(":" + port); err != nil {
		log.Error().Err(err).Msg("Erro ao iniciar servidor")
		os.Exit(1)
	}
}
