package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/model"
	"golang.org/x/time/rate"
)

// limiterIdleTTL é o tempo sem uso após o qual o limitador de uma sessão é descartado
const limiterIdleTTL = 10 * time.Minute

// QuoteService recebe pedidos de orçamento. Não há backend de instaladores:
// um pedido válido é apenas registrado e confirmado.
type QuoteService struct {
	mu        sync.Mutex
	limiters  map[string]*quoteLimiter
	perMinute int
	now       func() time.Time
}

type quoteLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewQuoteService cria o serviço com perMinute pedidos por minuto por sessão
func NewQuoteService(perMinute int) *QuoteService {
	if perMinute <= 0 {
		perMinute = 5
	}
	return &QuoteService{
		limiters:  make(map[string]*quoteLimiter),
		perMinute: perMinute,
		now:       time.Now,
	}
}

// Submit valida e confirma um pedido de orçamento para a sessão key
func (s *QuoteService) Submit(ctx context.Context, key string, req model.QuoteRequest) (*model.QuoteConfirmation, error) {
	log := logger.Get(ctx)

	if !s.allow(key) {
		metrics.Get().IncrementQuoteRateLimited()
		logger.AuditOperation(ctx, logger.AuditActionQuoteRequest, "installer", req.Installer, nil, model.ErrRateLimited)
		return nil, model.ErrRateLimited
	}

	installer, err := catalog.FindInstaller(req.Installer)
	if err != nil {
		metrics.Get().IncrementQuoteRejected()
		logger.AuditOperation(ctx, logger.AuditActionQuoteRequest, "installer", req.Installer, nil, err)
		return nil, err
	}

	if err := ValidateContact(req); err != nil {
		metrics.Get().IncrementQuoteRejected()
		logger.AuditOperation(ctx, logger.AuditActionQuoteRequest, "installer", installer.Name, nil, err)
		return nil, err
	}

	confirmation := &model.QuoteConfirmation{
		ReferenceID:    "Q-" + strings.ToUpper(uuid.NewString()[:8]),
		Installer:      installer.Name,
		EstimatedPrice: installer.IndicativeQuote(req.SystemKW),
		Message:        fmt.Sprintf("Your request to %s has been submitted!", installer.Name),
		SubmittedAt:    s.now().UTC(),
	}

	metrics.Get().IncrementQuoteSubmitted()
	logger.AuditOperation(ctx, logger.AuditActionQuoteRequest, "installer", installer.Name, map[string]interface{}{
		"reference_id": confirmation.ReferenceID,
		"system_kw":    req.SystemKW,
		"monthly_kwh":  req.MonthlyUsageKWh,
	}, nil)

	log.Info().
		Str("installer", installer.Name).
		Str("reference_id", confirmation.ReferenceID).
		Msg("Pedido de orçamento registrado")

	return confirmation, nil
}

// allow consome um token do limitador da sessão, criando-o se necessário
func (s *QuoteService) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	l, ok := s.limiters[key]
	if !ok {
		l = &quoteLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute),
		}
		s.limiters[key] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

func (s *QuoteService) pruneLocked(now time.Time) {
	for key, l := range s.limiters {
		if now.Sub(l.lastSeen) > limiterIdleTTL {
			delete(s.limiters, key)
		}
	}
}
