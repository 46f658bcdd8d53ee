package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyz(t *testing.T, checks map[string]Pinger) (int, map[string]any) {
	t.Helper()

	r := gin.New()
	r.GET("/readyz", Readiness(checks))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestReadiness_SQLPing(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	code, body := readyz(t, map[string]Pinger{"storage": db.PingContext})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, map[string]any{"storage": "ok"}, body["checks"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadiness_SQLPingFails(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	code, body := readyz(t, map[string]Pinger{"storage": db.PingContext})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, map[string]any{"storage": "unavailable"}, body["checks"])
	assert.NotContains(t, body, "error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadiness_OneFailingDependency(t *testing.T) {
	t.Parallel()

	code, body := readyz(t, map[string]Pinger{
		"storage": func(ctx context.Context) error { return nil },
		"cache":   func(ctx context.Context) error { return errors.New("redis down") },
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]any{"storage": "ok", "cache": "unavailable"}, body["checks"])
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.NoRoute(NotFound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found - /nope", body["message"])
	assert.Equal(t, "Not Found", body["error"])
}

func TestDocs(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/api/docs", SwaggerUI("/api/docs/openapi.yaml"))
	r.GET("/api/docs/openapi.yaml", OpenAPISpec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `url: "/api/docs/openapi.yaml"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/docs/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, w.Body.String(), "/api/auth/login")
}
