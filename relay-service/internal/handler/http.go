package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Buchara777/AI-Adventure/shared/interfaces"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes bounds a request body, history included.
const DefaultMaxBodyBytes = 1 << 20

// RelayHandler exposes a Relay over HTTP.
type RelayHandler struct {
	relay        interfaces.Relay
	logger       *zap.Logger
	maxBodyBytes int64
}

func NewRelayHandler(relay interfaces.Relay, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{
		relay:        relay,
		logger:       logger.Named("RelayHandler"),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// RegisterRoutes mounts the relay routes. rateLimit may be nil.
func (h *RelayHandler) RegisterRoutes(router gin.IRouter, rateLimit gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{h.limitBody}
	if rateLimit != nil {
		handlers = append([]gin.HandlerFunc{rateLimit}, handlers...)
	}
	group := router.Group("", handlers...)
	group.POST("/continuation", h.continuation)
	group.POST("/scenario", h.scenario)
}

func (h *RelayHandler) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	c.Next()
}

// continuation handles POST /continuation.
func (h *RelayHandler) continuation(c *gin.Context) {
	var req models.ContinuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, models.NewInputError("invalid request body"))
		return
	}

	result, err := h.relay.Continue(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// scenario handles POST /scenario. An empty body means no hint.
func (h *RelayHandler) scenario(c *gin.Context) {
	var req models.SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.handleServiceError(c, models.NewInputError("invalid request body"))
		return
	}

	result, err := h.relay.Seed(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.String(http.StatusOK, result.StartCondition)
}
