package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rbbhati/solar-estimator/internal/estimator"
	"github.com/rbbhati/solar-estimator/internal/model"
)

// Config armazena as configurações da aplicação
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	LogJSON  bool

	// TokenAPI protege a API JSON quando preenchido
	TokenAPI     string
	CookieSecure bool

	CostPerKW           float64
	ProjectionCostPerKW float64
	ProjectionMethod    model.ProjectionMethod
	GridInflationPct    float64
	PanelDegradationPct float64

	SessionTTL         time.Duration
	QuoteRatePerMinute int
}

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()          // ./.env
	_ = godotenv.Load("../.env") // diretório pai ao rodar de cmd/

	return FromEnv(os.Getenv)
}

// FromEnv monta a configuração a partir de uma função de lookup
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:     getenv("PORT"),
		GinMode:  getenv("GIN_MODE"),
		LogLevel: getenv("LOG_LEVEL"),
		TokenAPI: getenv("TOKEN_API"),
	}

	var err error
	if cfg.LogJSON, err = boolEnv(getenv, "LOG_JSON", false); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = boolEnv(getenv, "COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.CostPerKW, err = floatEnv(getenv, "COST_PER_KW", estimator.DefaultCostPerKW); err != nil {
		return nil, err
	}
	if cfg.ProjectionCostPerKW, err = floatEnv(getenv, "PROJECTION_COST_PER_KW", estimator.DefaultInstallCostPerKW); err != nil {
		return nil, err
	}
	if cfg.GridInflationPct, err = floatEnv(getenv, "GRID_INFLATION_PCT", 0); err != nil {
		return nil, err
	}
	if cfg.PanelDegradationPct, err = floatEnv(getenv, "PANEL_DEGRADATION_PCT", 0); err != nil {
		return nil, err
	}

	ttlMin, err := intEnv(getenv, "SESSION_TTL_MIN", 30)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(ttlMin) * time.Minute

	if cfg.QuoteRatePerMinute, err = intEnv(getenv, "QUOTE_RATE_PER_MINUTE", 5); err != nil {
		return nil, err
	}

	cfg.ProjectionMethod = model.ProjectionMethod(strings.ToLower(strings.TrimSpace(getenv("PROJECTION_METHOD"))))

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.GinMode == "" {
		cfg.GinMode = "debug"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.ProjectionMethod == "" {
		cfg.ProjectionMethod = model.ProjectionCumulative
	}

	// Validações
	if !cfg.ProjectionMethod.Valid() {
		return nil, fmt.Errorf("PROJECTION_METHOD inválido: %q", cfg.ProjectionMethod)
	}

	if cfg.CostPerKW <= 0 || cfg.ProjectionCostPerKW <= 0 {
		return nil, fmt.Errorf("custos por kW devem ser positivos")
	}

	if cfg.GridInflationPct < 0 || cfg.PanelDegradationPct < 0 || cfg.PanelDegradationPct >= 100 {
		return nil, fmt.Errorf("GRID_INFLATION_PCT e PANEL_DEGRADATION_PCT fora do intervalo")
	}

	if cfg.SessionTTL <= 0 || cfg.QuoteRatePerMinute <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MIN e QUOTE_RATE_PER_MINUTE devem ser positivos")
	}

	return cfg, nil
}

func floatEnv(getenv func(string) string, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func boolEnv(getenv func(string) string, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}
