package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Buchara777/AI-Adventure/shared/interfaces"
	"github.com/Buchara777/AI-Adventure/shared/models"
	"github.com/Buchara777/AI-Adventure/shared/schemas"
	"github.com/Buchara777/AI-Adventure/shared/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	OperationContinuation = "continuation"
	OperationSeed         = "seed"

	continuationTemperature = 0.8
	continuationTopP        = 0.95
	seedTemperature         = 0.9

	rawLogLimit = 500
)

var relayTurnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "relay_turns_total",
		Help: "Relay operations by outcome (success or error kind).",
	},
	[]string{"operation", "outcome"},
)

// RelayService is the server-side implementation of interfaces.Relay.
// It holds no per-request state and is safe for concurrent use.
type RelayService struct {
	ai            AIClient
	logger        *zap.Logger
	timeout       time.Duration
	maxInputBytes int
	maxTokens     *int
}

var _ interfaces.Relay = (*RelayService)(nil)

// RelayOption tunes a RelayService.
type RelayOption func(*RelayService)

// WithTimeout bounds every model call.
func WithTimeout(d time.Duration) RelayOption {
	return func(s *RelayService) { s.timeout = d }
}

// WithMaxInputBytes sets the input policy limit for a single field.
func WithMaxInputBytes(n int) RelayOption {
	return func(s *RelayService) { s.maxInputBytes = n }
}

// WithMaxTokens caps completion length. Zero keeps the provider default.
func WithMaxTokens(n int) RelayOption {
	return func(s *RelayService) {
		if n > 0 {
			s.maxTokens = models.IntPtr(n)
		}
	}
}

func NewRelayService(ai AIClient, logger *zap.Logger, opts ...RelayOption) *RelayService {
	s := &RelayService{
		ai:            ai,
		logger:        logger.Named("RelayService"),
		timeout:       60 * time.Second,
		maxInputBytes: utils.DefaultMaxInputBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Continue extends the story. The prompt is always built here from the history
// and the action; the schema is attached to the model call.
func (s *RelayService) Continue(ctx context.Context, req models.ContinuationRequest) (*models.ContinuationResult, error) {
	result, err := s.doContinue(ctx, req)
	s.count(OperationContinuation, err)
	return result, err
}

func (s *RelayService) doContinue(ctx context.Context, req models.ContinuationRequest) (*models.ContinuationResult, error) {
	if err := s.validateContinuation(req); err != nil {
		return nil, err
	}

	systemInstruction := req.SystemInstruction
	if strings.TrimSpace(systemInstruction) == "" {
		systemInstruction = models.DefaultSystemInstruction
	}
	prompt := utils.FormatInputForContinuation(req.History, strings.TrimSpace(req.Action))

	raw, err := s.generate(ctx, systemInstruction, prompt, GenerationParams{
		Operation:   OperationContinuation,
		Temperature: models.Float64Ptr(continuationTemperature),
		TopP:        models.Float64Ptr(continuationTopP),
		MaxTokens:   s.maxTokens,
		Schema:      schemas.ContinuationSchema(),
	})
	if err != nil {
		return nil, err
	}

	result, err := schemas.NormalizeContinuation(raw)
	if err != nil {
		var turnErr *models.TurnError
		if errors.As(err, &turnErr) {
			s.logger.Warn("Model output rejected by normalizer",
				zap.String("kind", string(turnErr.Kind)),
				zap.String("reason", turnErr.Message),
				zap.String("raw", utils.StringShort(turnErr.Raw, rawLogLimit)),
			)
		}
		return nil, err
	}
	return result, nil
}

// Seed generates a start condition. The text is returned trimmed and otherwise as the model wrote it.
func (s *RelayService) Seed(ctx context.Context, req models.SeedRequest) (*models.SeedResult, error) {
	result, err := s.doSeed(ctx, req)
	s.count(OperationSeed, err)
	return result, err
}

func (s *RelayService) doSeed(ctx context.Context, req models.SeedRequest) (*models.SeedResult, error) {
	if err := utils.CheckInput("hint", req.Hint, s.maxInputBytes); err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, "", utils.FormatInputForScenario(req.Hint), GenerationParams{
		Operation:   OperationSeed,
		Temperature: models.Float64Ptr(seedTemperature),
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, err
	}
	return &models.SeedResult{StartCondition: strings.TrimSpace(raw)}, nil
}

func (s *RelayService) validateContinuation(req models.ContinuationRequest) error {
	if strings.TrimSpace(req.Action) == "" {
		return models.NewInputError("action must not be empty")
	}
	if err := utils.CheckInput("action", req.Action, s.maxInputBytes); err != nil {
		return err
	}
	if err := utils.CheckInput("systemInstruction", req.SystemInstruction, s.maxInputBytes*utils.SystemInstructionFactor); err != nil {
		return err
	}
	return nil
}

// generate calls the model under the relay timeout and classifies failures as upstream errors.
func (s *RelayService) generate(ctx context.Context, systemPrompt, userInput string, params GenerationParams) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, _, err := s.ai.GenerateText(callCtx, systemPrompt, userInput, params)
	if err == nil {
		return raw, nil
	}

	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = errors.Join(err, context.DeadlineExceeded)
	}
	turnErr := models.NewUpstreamError("model call failed", err)
	if turnErr.Timeout() {
		turnErr.Message = "model call timed out"
	}
	s.logger.Warn("Model call failed",
		zap.String("operation", params.Operation),
		zap.Bool("timeout", turnErr.Timeout()),
		zap.Error(err),
	)
	return "", turnErr
}

func (s *RelayService) count(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(models.KindOf(err))
	}
	relayTurnsTotal.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}
