package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Buchara777/AI-Adventure/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(middleware.GinZapLogger(zap.New(core)))
	r.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.RequestID(c))
	})
	r.GET("/fail", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, logs
}

func TestGinZapLogger(t *testing.T) {
	t.Run("Generates request id and exposes it to handlers", func(t *testing.T) {
		r, logs := newRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))

		id := w.Header().Get(middleware.RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())

		entries := logs.FilterMessage("Request completed").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, id, entries[0].ContextMap()["request_id"])
		}
	})

	t.Run("Keeps incoming request id", func(t *testing.T) {
		r, _ := newRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("Server errors are logged at error level", func(t *testing.T) {
		r, logs := newRouter(t)
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

		entries := logs.FilterMessage("Server error").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		}
	})

	t.Run("Health checks are not logged", func(t *testing.T) {
		r, logs := newRouter(t)
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, 0, logs.Len())
	})
}
