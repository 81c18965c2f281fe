package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/rbbhati/solar-estimator/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(t *testing.T) (*gin.Engine, *SessionMiddleware, *CSRFMiddleware) {
	t.Helper()
	store := session.NewStore(time.Minute)
	t.Cleanup(store.Stop)

	sessions := NewSessionMiddleware(store, SessionConfig{CookieHTTPOnly: true})
	csrf := NewCSRFMiddleware(CSRFConfig{})

	r := gin.New()
	r.Use(RequestID(), sessions.RequireSession(), csrf.RequireCSRF())
	r.GET("/whoami", func(c *gin.Context) {
		token, _ := csrf.EnsureToken(SessionID(c))
		c.JSON(http.StatusOK, gin.H{"session": SessionID(c), "csrf": token})
	})
	r.POST("/change", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, sessions, csrf
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("response did not set %s cookie", SessionCookieName)
	return nil
}

func TestRequireSession_CreatesAndReuses(t *testing.T) {
	r, sessions, _ := sessionRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	cookie := sessionCookie(t, w)

	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if sessions.Store().Size() != 1 {
		t.Fatalf("store size = %d, want 1", sessions.Store().Size())
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), cookie.Value) {
		t.Errorf("existing session not reused: %s", w.Body.String())
	}
	if sessions.Store().Size() != 1 {
		t.Errorf("a second session was created")
	}
}

func TestRequireSession_ReplacesUnknownCookie(t *testing.T) {
	r, sessions, _ := sessionRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	cookie := sessionCookie(t, w)
	if cookie.Value == "forged" {
		t.Error("unknown session id must be replaced")
	}
	if _, err := sessions.Store().Get(cookie.Value); err != nil {
		t.Errorf("new session not stored: %v", err)
	}
}

func TestRequireCSRF(t *testing.T) {
	r, _, csrf := sessionRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	cookie := sessionCookie(t, w)
	token, ok := csrf.GetToken(cookie.Value)
	if !ok {
		t.Fatal("token should have been generated on GET")
	}

	post := func(form url.Values, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/change", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(CSRFTokenHeader, header)
		}
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(url.Values{}, ""); code != http.StatusForbidden {
		t.Errorf("missing token: status = %d, want 403", code)
	}
	if code := post(url.Values{CSRFFormField: {"wrong"}}, ""); code != http.StatusForbidden {
		t.Errorf("wrong token: status = %d, want 403", code)
	}
	if code := post(url.Values{CSRFFormField: {token}}, ""); code != http.StatusOK {
		t.Errorf("form token: status = %d, want 200", code)
	}
	if code := post(url.Values{}, token); code != http.StatusOK {
		t.Errorf("header token: status = %d, want 200", code)
	}
}

func TestCSRFTokenExpiry(t *testing.T) {
	csrf := NewCSRFMiddleware(CSRFConfig{TokenDuration: time.Millisecond})
	token, err := csrf.GenerateToken("s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if csrf.ValidateToken("s1", token) {
		t.Error("expired token must not validate")
	}
	if _, err := csrf.GenerateToken("s2"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if removed := csrf.CleanupExpiredTokens(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusOK},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"wrong scheme", "secret", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "secret", "Bearer nope", http.StatusUnauthorized},
		{"valid", "secret", "Bearer secret", http.StatusOK},
		{"case insensitive scheme", "secret", "bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api", BearerAuth(AuthConfig{TokenAPI: tt.token}), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequestIDHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get(HeaderRequestID)) != 8 {
		t.Errorf("generated request id should have 8 chars, got %q", w.Header().Get(HeaderRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "upstream")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != "upstream" {
		t.Errorf("incoming request id should be propagated")
	}
}

func TestSanitizeQuoteRequest(t *testing.T) {
	req := model.QuoteRequest{
		Installer: "  SunPro Installers ",
		Name:      "Asha\x00 <b>Rao</b>\n",
		Phone:     " 9876543210 ",
		Email:     "asha@example.com\t",
	}
	SanitizeQuoteRequest(&req)

	if req.Installer != "SunPro Installers" || req.Phone != "9876543210" || req.Email != "asha@example.com" {
		t.Errorf("unexpected sanitized request: %+v", req)
	}
	if req.Name != "Asha <b>Rao</b>" {
		t.Errorf("name = %q", req.Name)
	}
}

// **Property 1: Sanitized strings are bounded and free of control characters**
func TestSanitizeStringProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sanitized output is bounded and clean", prop.ForAll(
		func(input string, maxLen int) bool {
			out := SanitizeString(input, SanitizeConfig{MaxStringLength: maxLen})
			if len(out) > maxLen {
				return false
			}
			for _, r := range out {
				if r == 0 || r == '\n' || r == '<' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
