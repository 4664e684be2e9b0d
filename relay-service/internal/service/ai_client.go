package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Buchara777/AI-Adventure/relay-service/internal/config"

	"github.com/ollama/ollama/api"
	openaigo "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GenerationParams настраивают один вызов модели.
// Используем указатели, чтобы отличить 0/0.0 от отсутствия.
type GenerationParams struct {
	Operation   string // metrics label: "continuation" or "seed"
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	// Schema requests structured JSON output. Nil means free text.
	Schema *jsonschema.Definition
}

// ErrAIGenerationFailed - ошибка при генерации текста AI
var ErrAIGenerationFailed = errors.New("AI text generation failed")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "operation", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "operation"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20), // 250, 500, ..., 5000
		},
		[]string{"model", "operation"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(50, 50, 20), // 50, 100, ..., 1000
		},
		[]string{"model", "operation"},
	)
)

// UsageInfo содержит информацию об использовании токенов
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AIClient интерфейс для взаимодействия с AI API
type AIClient interface {
	// GenerateText генерирует текст на основе системного промта, ввода пользователя и параметров.
	// systemPrompt may be empty.
	GenerateText(ctx context.Context, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error)
}

func observeUsage(model, operation string, duration time.Duration, usage UsageInfo) {
	aiRequestsTotal.With(prometheus.Labels{"model": model, "operation": operation, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": model, "operation": operation}).Observe(duration.Seconds())
	if usage.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": model, "operation": operation}).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": model, "operation": operation}).Observe(float64(usage.CompletionTokens))
	}
}

func countFailure(model, operation, status string) {
	aiRequestsTotal.With(prometheus.Labels{"model": model, "operation": operation, "status": status}).Inc()
}

// --- OpenAI Client Implementation ---

// openAIClient реализует AIClient с использованием go-openai.
// Works against any OpenAI-compatible endpoint, Gemini included.
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}
	log := c.logger.With(zap.String("operation", params.Operation))

	if strings.TrimSpace(userInput) == "" {
		countFailure(c.model, params.Operation, "error")
		return "", usageInfo, fmt.Errorf("%w: user input is empty", ErrAIGenerationFailed)
	}

	messages := make([]openaigo.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openaigo.ChatCompletionMessage{
		Role:    openaigo.ChatMessageRoleUser,
		Content: userInput,
	})

	request := openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32Val(params.Temperature),
		MaxTokens:   intVal(params.MaxTokens),
		TopP:        float32Val(params.TopP),
	}
	if params.Schema != nil {
		request.ResponseFormat = &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaigo.ChatCompletionResponseFormatJSONSchema{
				Name:   params.Operation,
				Schema: params.Schema,
			},
		}
	}

	startTime := time.Now()
	log.Debug("Sending request to AI",
		zap.String("model", c.model),
		zap.Int("system_prompt_bytes", len(systemPrompt)),
		zap.Int("user_input_bytes", len(userInput)),
		zap.Bool("structured", params.Schema != nil),
	)

	resp, err := c.client.CreateChatCompletion(ctx, request)
	duration := time.Since(startTime)

	if err != nil {
		log.Warn("AI API error", zap.Duration("duration", duration), zap.Error(err))
		countFailure(c.model, params.Operation, "error")
		return "", usageInfo, fmt.Errorf("%w: %w", ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		log.Warn("AI API returned an empty response", zap.Duration("duration", duration))
		countFailure(c.model, params.Operation, "error_empty_response")
		return "", usageInfo, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	usageInfo.PromptTokens = resp.Usage.PromptTokens
	usageInfo.CompletionTokens = resp.Usage.CompletionTokens
	usageInfo.TotalTokens = resp.Usage.TotalTokens
	observeUsage(c.model, params.Operation, duration, usageInfo)

	generatedText := resp.Choices[0].Message.Content
	log.Debug("AI response received",
		zap.Duration("duration", duration),
		zap.Int("response_length", len(generatedText)),
		zap.Int("prompt_tokens", usageInfo.PromptTokens),
		zap.Int("completion_tokens", usageInfo.CompletionTokens),
	)

	return generatedText, usageInfo, nil
}

// --- Вспомогательная функция для конвертации *float64 в float32 ---
func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 1.0
	}
	return float32(*f64)
}

// --- Вспомогательная функция для конвертации *int в int ---
func intVal(i *int) int {
	if i == nil {
		return 0 // 0 = лимит по умолчанию у провайдера
	}
	return *i
}

// -----------------------------------------------------------------

// --- Ollama Client Implementation ---

// ollamaClient реализует AIClient с использованием ollama/api
type ollamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// newOllamaClient создает новый клиент для взаимодействия с Ollama
func newOllamaClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	httpClient := &http.Client{
		Timeout: cfg.AITimeout,
	}

	// api.NewClient требует URL без суффикса /v1
	ollamaBaseURL := strings.TrimSuffix(cfg.AIBaseURL, "/")
	ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/v1")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL '%s': %w", ollamaBaseURL, err)
	}

	client := api.NewClient(parsedURL, httpClient)
	logger.Info("Ollama client created",
		zap.String("base_url", ollamaBaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)

	return &ollamaClient{
		client: client,
		model:  cfg.AIModel,
		logger: logger,
	}, nil
}

func (c *ollamaClient) GenerateText(ctx context.Context, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}
	log := c.logger.With(zap.String("operation", params.Operation))

	if strings.TrimSpace(userInput) == "" {
		countFailure(c.model, params.Operation, "error")
		return "", usageInfo, fmt.Errorf("%w: user input is empty", ErrAIGenerationFailed)
	}

	messages := make([]api.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, api.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: userInput})

	options := map[string]interface{}{}
	if params.Temperature != nil {
		options["temperature"] = *params.Temperature
	}
	if params.TopP != nil {
		options["top_p"] = *params.TopP
	}
	if params.MaxTokens != nil && *params.MaxTokens > 0 {
		options["num_predict"] = *params.MaxTokens
	}

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   func(b bool) *bool { return &b }(false), // Не стримим
		Options:  options,
	}
	if params.Schema != nil {
		format, err := json.Marshal(params.Schema)
		if err != nil {
			countFailure(c.model, params.Operation, "error")
			return "", usageInfo, fmt.Errorf("%w: failed to encode schema: %w", ErrAIGenerationFailed, err)
		}
		req.Format = format
	}

	startTime := time.Now()
	log.Debug("Sending request to Ollama",
		zap.String("model", c.model),
		zap.Int("system_prompt_bytes", len(systemPrompt)),
		zap.Int("user_input_bytes", len(userInput)),
	)

	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r // Сохраняем последний (полный) ответ
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Ollama API timeout", zap.Duration("duration", duration), zap.Error(err))
		} else {
			log.Warn("Ollama API error", zap.Duration("duration", duration), zap.Error(err))
		}
		countFailure(c.model, params.Operation, "error")
		return "", usageInfo, fmt.Errorf("%w: %w", ErrAIGenerationFailed, err)
	}

	if strings.TrimSpace(resp.Message.Content) == "" {
		log.Warn("Ollama API returned an empty response", zap.Duration("duration", duration))
		countFailure(c.model, params.Operation, "error_empty_response")
		return "", usageInfo, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	usageInfo.PromptTokens = resp.PromptEvalCount
	usageInfo.CompletionTokens = resp.EvalCount
	usageInfo.TotalTokens = resp.PromptEvalCount + resp.EvalCount
	observeUsage(c.model, params.Operation, duration, usageInfo)

	log.Debug("Ollama response received",
		zap.Duration("duration", duration),
		zap.Int("response_length", len(resp.Message.Content)),
	)

	return resp.Message.Content, usageInfo, nil
}

// --- Factory Function ---

// NewAIClient создает клиент AI в зависимости от cfg.AIClientType.
func NewAIClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	logger = logger.Named("AIClient")
	switch strings.ToLower(cfg.AIClientType) {
	case config.AIClientTypeOpenAI:
		openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
		openaiConfig.BaseURL = strings.TrimSuffix(cfg.AIBaseURL, "/")
		openaiConfig.HTTPClient = &http.Client{
			Timeout: cfg.AITimeout,
		}
		client := openaigo.NewClientWithConfig(openaiConfig)
		logger.Info("OpenAI-compatible client created",
			zap.String("base_url", openaiConfig.BaseURL),
			zap.String("model", cfg.AIModel),
			zap.Duration("timeout", cfg.AITimeout),
		)
		return &openAIClient{
			client: client,
			model:  cfg.AIModel,
			logger: logger,
		}, nil
	case config.AIClientTypeOllama:
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI client type: '%s'", cfg.AIClientType)
	}
}
