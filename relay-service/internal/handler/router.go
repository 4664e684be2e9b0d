package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/Buchara777/AI-Adventure/shared/middleware"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// RouterOptions configure NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	// RateLimit guards the relay routes. Nil disables limiting.
	RateLimit gin.HandlerFunc
}

var (
	ginMetrics     *ginprometheus.Prometheus
	ginMetricsOnce sync.Once
)

// HTTP metrics register on the default registry, so one collector set is shared by all routers.
func httpMetrics() *ginprometheus.Prometheus {
	ginMetricsOnce.Do(func() {
		ginMetrics = ginprometheus.NewPrometheus("gin")
	})
	return ginMetrics
}

// NewRouter builds the relay HTTP surface: relay routes, /health and /metrics.
func NewRouter(h *RelayHandler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.GinZapLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered", zap.Any("panic", recovered), zap.String("request_id", middleware.RequestID(c)))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    string(models.KindInternal),
			Message: "An unexpected internal error occurred",
		})
	}))

	httpMetrics().Use(router)

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		logger.Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, models.ErrorResponse{
			Code:    ErrCodeMethodNotAllowed,
			Message: "Method not allowed",
		})
	})
	router.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
			Code:    ErrCodeNotFound,
			Message: "Not found",
		})
	})

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	h.RegisterRoutes(router, opts.RateLimit)
	return router
}
