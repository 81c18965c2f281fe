package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenHeader is the header name for CSRF token
	CSRFTokenHeader = "X-CSRF-Token"
	// CSRFFormField é o campo oculto dos formulários do assistente
	CSRFFormField = "csrf_token"
	// CSRFTokenLength is the length of the CSRF token in bytes
	CSRFTokenLength = 32
)

// CSRFToken represents a CSRF token with expiration
type CSRFToken struct {
	Token     string
	ExpiresAt time.Time
}

// CSRFConfig contains configuration for CSRF protection
type CSRFConfig struct {
	TokenDuration time.Duration // How long tokens are valid
}

// CSRFMiddleware handles CSRF protection
type CSRFMiddleware struct {
	config CSRFConfig
	tokens map[string]*CSRFToken // sessionID -> CSRFToken
	mu     sync.RWMutex
}

// NewCSRFMiddleware creates a new CSRF middleware
func NewCSRFMiddleware(config CSRFConfig) *CSRFMiddleware {
	// Set defaults
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}

	return &CSRFMiddleware{
		config: config,
		tokens: make(map[string]*CSRFToken),
	}
}

// GenerateToken generates a new CSRF token for a session
func (m *CSRFMiddleware) GenerateToken(sessionID string) (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(bytes)

	m.mu.Lock()
	m.tokens[sessionID] = &CSRFToken{
		Token:     token,
		ExpiresAt: time.Now().Add(m.config.TokenDuration),
	}
	m.mu.Unlock()

	return token, nil
}

// EnsureToken retorna o token vigente da sessão ou gera um novo
func (m *CSRFMiddleware) EnsureToken(sessionID string) (string, error) {
	if token, ok := m.GetToken(sessionID); ok {
		return token, nil
	}
	return m.GenerateToken(sessionID)
}

// ValidateToken validates a CSRF token for a session
func (m *CSRFMiddleware) ValidateToken(sessionID, token string) bool {
	m.mu.RLock()
	csrfToken, exists := m.tokens[sessionID]
	m.mu.RUnlock()

	if !exists {
		return false
	}

	// Check if token is expired
	if time.Now().After(csrfToken.ExpiresAt) {
		m.DeleteToken(sessionID)
		return false
	}

	return subtle.ConstantTimeCompare([]byte(csrfToken.Token), []byte(token)) == 1
}

// DeleteToken removes a CSRF token for a session
func (m *CSRFMiddleware) DeleteToken(sessionID string) {
	m.mu.Lock()
	delete(m.tokens, sessionID)
	m.mu.Unlock()
}

// GetToken retrieves the current CSRF token for a session
func (m *CSRFMiddleware) GetToken(sessionID string) (string, bool) {
	m.mu.RLock()
	csrfToken, exists := m.tokens[sessionID]
	m.mu.RUnlock()

	if !exists || time.Now().After(csrfToken.ExpiresAt) {
		return "", false
	}

	return csrfToken.Token, true
}

// RequireCSRF middleware that validates CSRF tokens for state-changing requests
func (m *CSRFMiddleware) RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only validate for state-changing methods
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		// Session ID set by RequireSession
		sessionID := SessionID(c)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão não encontrada",
				"code":    "SESSION_NOT_FOUND",
			})
			return
		}

		// Header first, then the hidden form field
		token := c.GetHeader(CSRFTokenHeader)
		if token == "" {
			token = c.PostForm(CSRFFormField)
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Token CSRF ausente",
				"code":    "CSRF_TOKEN_MISSING",
			})
			return
		}

		// Validate token
		if !m.ValidateToken(sessionID, token) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Token CSRF inválido ou expirado",
				"code":    "CSRF_TOKEN_INVALID",
			})
			return
		}

		c.Next()
	}
}

// CleanupExpiredTokens removes expired CSRF tokens and returns how many were dropped
func (m *CSRFMiddleware) CleanupExpiredTokens() int {
	now := time.Now()
	removed := 0
	m.mu.Lock()
	for sessionID, token := range m.tokens {
		if now.After(token.ExpiresAt) {
			delete(m.tokens, sessionID)
			removed++
		}
	}
	m.mu.Unlock()
	return removed
}
