package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Buchara777/AI-Adventure/shared/interfaces"
	"github.com/Buchara777/AI-Adventure/shared/middleware"
	"github.com/Buchara777/AI-Adventure/shared/models"
	"github.com/Buchara777/AI-Adventure/shared/schemas"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.Relay = (*HTTPRelayClient)(nil)

const maxResponseBytes = 1 << 20

// HTTPRelayClient talks to the relay service over HTTP.
type HTTPRelayClient struct {
	baseURL    string // e.g. "http://relay-service:8090"
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPRelayClient creates a new HTTP client for the relay service.
func NewHTTPRelayClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPRelayClient {
	return &HTTPRelayClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("HTTPRelayClient"),
	}
}

// Continue implements interfaces.Relay. The reply is normalized again so callers
// always get exactly models.ChoiceCount choices.
func (c *HTTPRelayClient) Continue(ctx context.Context, req models.ContinuationRequest) (*models.ContinuationResult, error) {
	body, err := c.post(ctx, "/continuation", req)
	if err != nil {
		return nil, err
	}
	return schemas.NormalizeContinuation(string(body))
}

// Seed implements interfaces.Relay.
func (c *HTTPRelayClient) Seed(ctx context.Context, req models.SeedRequest) (*models.SeedResult, error) {
	body, err := c.post(ctx, "/scenario", req)
	if err != nil {
		return nil, err
	}
	startCondition := strings.TrimSpace(string(body))
	if startCondition == "" {
		return nil, models.NewUpstreamError("relay returned an empty start condition", nil)
	}
	return &models.SeedResult{StartCondition: startCondition}, nil
}

// post sends payload as JSON and returns the body of a 200 response.
// Every failure is a *models.TurnError.
func (c *HTTPRelayClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("path", path), zap.String("request_id", requestID))

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, models.NewInternalError("failed to marshal request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, models.NewInternalError("failed to create relay request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Relay request failed", zap.Duration("duration", time.Since(startTime)), zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return nil, models.NewUpstreamError("relay request cancelled", err)
		}
		turnErr := models.NewUpstreamError("relay unreachable", err)
		if turnErr.Timeout() {
			turnErr.Message = "relay request timed out"
		}
		return nil, turnErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("Failed to read relay response", zap.Error(err))
		return nil, models.NewUpstreamError("failed to read relay response", err)
	}

	if resp.StatusCode != http.StatusOK {
		turnErr := decodeErrorResponse(resp.StatusCode, body)
		log.Debug("Relay returned an error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", string(turnErr.Kind)),
			zap.Duration("duration", time.Since(startTime)),
		)
		return nil, turnErr
	}

	log.Debug("Relay request succeeded", zap.Duration("duration", time.Since(startTime)))
	return body, nil
}

// decodeErrorResponse rebuilds the error kind from a {code, message} body.
func decodeErrorResponse(statusCode int, body []byte) *models.TurnError {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Code == "" {
		return models.NewUpstreamError(fmt.Sprintf("relay returned status %d", statusCode), err)
	}

	kind := models.ParseErrorKind(errResp.Code)
	if kind == models.KindInternal && errResp.Code != string(models.KindInternal) {
		// Transport-level codes (rate limiting, routing) are not part of the turn taxonomy.
		if statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError {
			kind = models.KindUpstream
		}
	}

	turnErr := &models.TurnError{Kind: kind, Message: errResp.Message}
	if kind == models.KindUpstream && statusCode == http.StatusGatewayTimeout {
		turnErr.Err = context.DeadlineExceeded
	}
	return turnErr
}
