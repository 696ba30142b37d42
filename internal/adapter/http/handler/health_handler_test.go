package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy when no dependencies", func(t *testing.T) {
		handler := NewHealthHandler(nil, []string{"openai", "perspective"})

		router := gin.New()
		router.GET("/health", handler.Health)

		req, _ := http.NewRequest("GET", "/health", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		err := json.Unmarshal(w.Body.Bytes(), &status)
		assert.NoError(t, err)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "content-moderator", status.Service)
		assert.NotEmpty(t, status.Timestamp)
		assert.Len(t, status.Timestamp, len("2024-05-01T12:30:00.000Z"))
		assert.Equal(t, "not configured", status.Components["redis"])
		assert.Equal(t, "enabled", status.Components["provider:openai"])
		assert.Equal(t, "enabled", status.Components["provider:perspective"])
	})

	t.Run("unhealthy when redis is down", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{Addr: "localhost:1", MaxRetries: -1})
		defer client.Close()
		handler := NewHealthHandler(client, []string{"openai"})

		router := gin.New()
		router.GET("/health", handler.Health)

		req, _ := http.NewRequest("GET", "/health", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var status HealthStatus
		err := json.Unmarshal(w.Body.Bytes(), &status)
		assert.NoError(t, err)
		assert.Equal(t, "unhealthy", status.Status)
		assert.Contains(t, status.Components["redis"], "error: ")
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ready with a provider", func(t *testing.T) {
		handler := NewHealthHandler(nil, []string{"openai"})

		router := gin.New()
		router.GET("/ready", handler.Ready)

		req, _ := http.NewRequest("GET", "/ready", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("not ready without providers", func(t *testing.T) {
		handler := NewHealthHandler(nil, nil)

		router := gin.New()
		router.GET("/ready", handler.Ready)

		req, _ := http.NewRequest("GET", "/ready", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "no providers enabled")
	})
}
