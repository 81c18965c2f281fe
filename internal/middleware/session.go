package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/session"
)

const (
	// SessionCookieName é o cookie que identifica a sessão do assistente
	SessionCookieName = "solar_session"
	// ContextSessionKey é a chave do id de sessão no contexto Gin
	ContextSessionKey = "session_id"
)

// SessionConfig contains configuration for wizard sessions
type SessionConfig struct {
	CookieName     string // session cookie name
	CookieDomain   string // cookie domain
	CookieSecure   bool   // secure cookie flag
	CookieHTTPOnly bool   // httponly cookie flag
}

// SessionMiddleware liga cada navegador ao seu estado no store
type SessionMiddleware struct {
	config SessionConfig
	store  *session.Store
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(store *session.Store, config SessionConfig) *SessionMiddleware {
	// Set defaults
	if config.CookieName == "" {
		config.CookieName = SessionCookieName
	}

	return &SessionMiddleware{
		config: config,
		store:  store,
	}
}

// Store retorna o store de sessões usado pelo middleware
func (m *SessionMiddleware) Store() *session.Store {
	return m.store
}

// RequireSession garante uma sessão válida; cria uma nova quando o cookie
// está ausente, expirado ou desconhecido.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(m.config.CookieName)
		if err != nil || sessionID == "" {
			sessionID = m.startSession(c)
		} else if _, err := m.store.Get(sessionID); err != nil {
			logger.FromGin(c).Debug().Str("stale_session", sessionID).Msg("Sessão expirada, criando nova")
			sessionID = m.startSession(c)
		}

		// Add session info to context
		c.Set(ContextSessionKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))

		c.Next()
	}
}

func (m *SessionMiddleware) startSession(c *gin.Context) string {
	state := m.store.Create()

	// Set session cookie
	c.SetCookie(
		m.config.CookieName,
		state.ID,
		int(m.store.TTL().Seconds()),
		"/",
		m.config.CookieDomain,
		m.config.CookieSecure,
		m.config.CookieHTTPOnly,
	)

	metrics.Get().IncrementSessionStarted()
	ctx := logger.WithSessionID(c.Request.Context(), state.ID)
	logger.Audit(ctx, logger.AuditEvent{
		Action:   logger.AuditActionSessionStart,
		Resource: "session",
		ClientIP: c.ClientIP(),
		Success:  true,
	})

	return state.ID
}

// SessionID retorna o id de sessão colocado no contexto por RequireSession
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(ContextSessionKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
