package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/skill-matcher/internal/config"
	"github.com/jonathan/skill-matcher/internal/db"
	"github.com/jonathan/skill-matcher/internal/server/ratelimit"
	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/jonathan/skill-matcher/internal/types"
)

// newTestServer builds a server with rate limiting off. mutate may adjust the
// configuration before the server is created.
func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		RateLimit: &ratelimit.Config{Enabled: false},
		Logger:    zaptest.NewLogger(t),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func newSQLiteStore(t *testing.T) db.Store {
	t.Helper()
	store, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "matcher.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/health", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.CORSOrigin = "https://app.example.com" })

	w := do(t, s, http.MethodOptions, "/analyze", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Empty(t, w.Body.String())
}

func TestNew_RejectsNegativeWeights(t *testing.T) {
	_, err := New(Config{
		Weights:   skills.Weights{skills.Soft: -1},
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weights")
}

func TestNew_Defaults(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxBatch = 500 })
	assert.Equal(t, types.MaxBatchCandidates, s.maxBatch)
	assert.Equal(t, skills.DefaultWeights(), s.weights)
	assert.Nil(t, s.jwtService, "no secret, no auth")
}

func TestRateLimit(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newTestServer(t, func(c *Config) {
		c.Logger = zap.New(core)
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/skills", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1},
			},
		}
	})

	first := do(t, s, http.MethodGet, "/skills", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := do(t, s, http.MethodGet, "/skills", "")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, second)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.NotEmpty(t, second.Header().Get("X-Request-ID"), "limited responses are still tagged")
	assert.Equal(t, "*", second.Header().Get("Access-Control-Allow-Origin"))

	limited := logs.FilterMessage("request").FilterField(zap.Int("status", http.StatusTooManyRequests)).All()
	require.Len(t, limited, 1, "limited responses are logged")
	assert.Equal(t, second.Header().Get("X-Request-ID"), limited[0].ContextMap()["request_id"])

	health := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code, "health is never limited")
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	store := newSQLiteStore(t)
	s := newTestServer(t, func(c *Config) {
		c.Store = store
		c.Logger = zap.NewNop() // the listener goroutine may log after the test ends
	})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/runs", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/analyze", "").Code)
}

func TestFeedbackAuth(t *testing.T) {
	store := newSQLiteStore(t)
	jwtCfg := &config.JWTConfig{Secret: testSecret, ExpirationHours: 1}
	s := newTestServer(t, func(c *Config) {
		c.JWT = jwtCfg
		c.Store = store
	})
	body := `{"category": "programming_skills", "skill": "golang"}`

	w := do(t, s, http.MethodPost, "/feedback", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, s.analyzer.Registry().Snapshot().Skills(skills.Programming), "golang")

	w = do(t, s, http.MethodPost, "/feedback", body, "Authorization", "Bearer forged.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := NewJWTService(jwtCfg).GenerateToken("curator")
	require.NoError(t, err)
	w = do(t, s, http.MethodPost, "/feedback", body, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	events, err := store.ListFeedback(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "curator", events[0].Subject)
	assert.True(t, events[0].Changed)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/skills", "").Code, "reads stay open")
}

func TestStatusRecorder_Flush(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w}
	rec.Flush()
	assert.True(t, w.Flushed)
	assert.Same(t, w, rec.Unwrap())

	_, err := rec.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.status)
	assert.True(t, strings.HasPrefix(w.Body.String(), "x"))
}
