package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/storefront/internal/config"
)

type fakeDB struct {
	err error
}

func (f fakeDB) HealthCheck(context.Context) error { return f.err }

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, s *Server, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	s := NewServer(fakeDB{}, &config.ServerConfig{})

	rec := serve(t, s, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running...", rec.Body.String())
}

func TestHealth(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		rec := serve(t, NewServer(fakeDB{}, &config.ServerConfig{}), http.MethodGet, "/api/health", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "storefront", body["service"])
	})

	t.Run("database down", func(t *testing.T) {
		rec := serve(t, NewServer(fakeDB{err: errors.New("refused")}, &config.ServerConfig{}), http.MethodGet, "/api/health", nil)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
	})
}

func TestCORS(t *testing.T) {
	s := NewServer(fakeDB{}, &config.ServerConfig{CORSOrigins: []string{"https://shop.example.com"}})

	allowed := serve(t, s, http.MethodGet, "/", http.Header{"Origin": {"https://shop.example.com"}})
	assert.Equal(t, "https://shop.example.com", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := serve(t, s, http.MethodGet, "/", http.Header{"Origin": {"https://evil.example.com"}})
	assert.Equal(t, http.StatusForbidden, denied.Code)
}
