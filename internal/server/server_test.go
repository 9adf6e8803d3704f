package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmw-wellness/apiserver/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	clientDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(clientDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(clientDir, "index.html"), []byte("<html>wellness</html>"), 0o644))

	cfg := config.Config{
		BcryptCost:  bcrypt.MinCost,
		CORSOrigins: []string{"*"},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(dir, "wellness.db"),
		},
		Client: config.ClientConfig{Backend: config.ClientBackendDir, Dir: clientDir},
		MQ:     config.MQConfig{Backend: config.MQBackendNone},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv
}

func call(t *testing.T, srv *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestAPIWaitsForBootstrap(t *testing.T) {
	srv := newTestServer(t)

	rec, body := call(t, srv, http.MethodGet, "/api/plan/5", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database not ready", body["error"])

	rec, body = call(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["dbReady"])

	require.NoError(t, srv.Bootstrap(context.Background()))

	rec, body = call(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["dbReady"])
	assert.Equal(t, "SQLite (embedded file)", body["database"])
}

func TestBootstrapIsRepeatable(t *testing.T) {
	srv := newTestServer(t)

	require.NoError(t, srv.Bootstrap(context.Background()))
	require.NoError(t, srv.Bootstrap(context.Background()))

	_, body := call(t, srv, http.MethodGet, "/api/plan/0", "")
	assert.Len(t, body["fullTable"], 6)
}

func TestUserJourney(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Bootstrap(context.Background()))

	rec, body := call(t, srv, http.MethodPost, "/api/register", `{"name":"Ada","email":"Ada@Example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := body["user"].(map[string]any)["id"].(float64)
	require.EqualValues(t, 1, id)

	rec, _ = call(t, srv, http.MethodPost, "/api/register", `{"name":"Eve","email":"ada@example.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = call(t, srv, http.MethodPost, "/api/score/1", `{"score":8}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, srv, http.MethodPost, "/api/score/1", `{"score":3.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = call(t, srv, http.MethodPost, "/api/login", `{"email":"ADA@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{8.0, 3.5}, body["user"].(map[string]any)["scores"])

	rec, body = call(t, srv, http.MethodGet, "/api/profile/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{8.0, 3.5}, body["scores"])

	rec, body = call(t, srv, http.MethodGet, "/api/plan/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "moderate", body["level"])
	var ids []float64
	for _, entry := range body["recommendations"].([]any) {
		ids = append(ids, entry.(map[string]any)["id"].(float64))
	}
	assert.Equal(t, []float64{1, 4, 5}, ids)

	rec, body = call(t, srv, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])

	rec, _ = call(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wellness_registrations_total{outcome="created"} 1`)
	assert.Contains(t, rec.Body.String(), `wellness_registrations_total{outcome="conflict"} 1`)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := call(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestClientFallback(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := call(t, srv, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>wellness</html>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
