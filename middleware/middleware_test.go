package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"medmind-server/logger"
	"medmind-server/metrics"
	"medmind-server/models"
	"medmind-server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	users map[string]*models.User
	err   error
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, services.ErrInvalidToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func userRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "userId": c.GetString(ContextUserID)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	v := &fakeVerifier{users: map[string]*models.User{"good": {ID: "u1", IsActive: true}}}
	r := userRouter(AuthMiddleware(v))

	cases := []struct {
		name    string
		header  string
		url     string
		status  int
		message string
	}{
		{"no header", "", "/me", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "Token good", "/me", http.StatusUnauthorized, "No token provided"},
		{"bad token", "Bearer nope", "/me", http.StatusUnauthorized, "Invalid token"},
		{"query ignored", "", "/me?token=good", http.StatusUnauthorized, "No token provided"},
		{"ok", "Bearer good", "/me", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			body := decode(t, w)
			if tc.message != "" && body["message"] != tc.message {
				t.Fatalf("expected %q, got %v", tc.message, body["message"])
			}
			if tc.status == http.StatusOK && (body["id"] != "u1" || body["userId"] != "u1") {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	r := userRouter(AuthMiddleware(&fakeVerifier{err: errors.New("db down")}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestWebSocketAuthAcceptsQueryToken(t *testing.T) {
	v := &fakeVerifier{users: map[string]*models.User{"good": {ID: "u1"}}}
	r := userRouter(WebSocketAuthMiddleware(v))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token=good", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTokenMiddleware(t *testing.T) {
	tokens, err := services.NewTokenService("secret", time.Hour, "test")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	token, _, err := tokens.Generate(&models.User{ID: "u9", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := gin.New()
	r.GET("/claims", TokenMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(ContextUserID)})
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || decode(t, w)["userId"] != "u9" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", w.Code)
	}
}

func TestInputValidationMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(InputValidationMiddleware(16))
	r.POST("/echo", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(data))
	})

	send := func(body, contentType string) int {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(`{"a":1}`, "application/json; charset=utf-8"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := send(`{"a":"this body is far too long"}`, "application/json"); code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", code)
	}
	if code := send(`a=1`, "application/x-www-form-urlencoded"); code != http.StatusOK {
		t.Fatalf("expected non-JSON body to reach the handler, got %d", code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing security headers: %v", w.Header())
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), Logger(logger.NewWithWriter(&buf, "test", -4)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatalf("expected a generated request id")
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["request_id"] != id || entry["route"] != "/ping" || entry["status"] != float64(http.StatusNoContent) {
		t.Fatalf("unexpected log entry %v", entry)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected incoming request id to be kept")
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.Discard()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false || strings.Contains(w.Body.String(), "kaboom") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("expected allowed origin to be echoed, got %v", w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected foreign origin to be refused, got %d", w.Code)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	w = httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `route="/items/:id"`) {
		t.Fatalf("expected route template label in exposition")
	}
}
