package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Buchara777/AI-Adventure/shared/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AIClientTypeOpenAI = "openai"
	AIClientTypeOllama = "ollama"
)

// Config holds the relay service configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort string `envconfig:"RELAY_SERVER_PORT" default:"8090"`

	// Настройки AI. По умолчанию OpenAI-совместимый эндпоинт Gemini.
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AIModel      string        `envconfig:"AI_MODEL" default:"gemini-1.5-flash-latest"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	AIMaxTokens  int           `envconfig:"AI_MAX_TOKENS" default:"0"` // 0 = provider default
	// Секретное поле БЕЗ envconfig тега
	AIAPIKey string

	MaxInputBytes int `envconfig:"MAX_INPUT_BYTES" default:"4096"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	RateLimitPerMinute uint `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`
	// Пустой адрес = in-memory хранилище лимитера
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	// Секретное поле БЕЗ envconfig тега (если пароль используется)
	RedisPassword string
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch strings.ToLower(c.AIClientType) {
	case AIClientTypeOpenAI:
		if c.AIAPIKey == "" {
			return fmt.Errorf("AI API key is required for AI_CLIENT_TYPE=%s", AIClientTypeOpenAI)
		}
	case AIClientTypeOllama:
	default:
		return fmt.Errorf("unsupported AI_CLIENT_TYPE %q", c.AIClientType)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %v", c.AITimeout)
	}
	if c.MaxInputBytes <= 0 {
		return fmt.Errorf("MAX_INPUT_BYTES must be positive, got %d", c.MaxInputBytes)
	}
	if c.RateLimitPerMinute == 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// LoadConfig loads configuration from the optional .env file, environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Ключ читается один раз при старте. Для ollama он не нужен.
	apiKey, err := utils.ReadSecret("GEMINI_API_KEY", "ai_api_key")
	if err == nil {
		cfg.AIAPIKey = apiKey
	} else if strings.EqualFold(cfg.AIClientType, AIClientTypeOpenAI) {
		return nil, fmt.Errorf("failed to load AI API key: %w", err)
	}

	// Загружаем НЕОБЯЗАТЕЛЬНЫЕ секреты
	if cfg.RedisAddr != "" {
		if redisPass, err := utils.ReadSecret("REDIS_PASSWORD", "redis_password"); err == nil {
			cfg.RedisPassword = redisPass
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Конфигурация загружена:")
	log.Printf("  Env: %s, Port: %s, Log level: %s", cfg.Env, cfg.ServerPort, cfg.LogLevel)
	log.Printf("  AI Client: %s, Base URL: %s, Model: %s, Timeout: %v", cfg.AIClientType, cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
	log.Printf("  Max input bytes: %d, Rate limit: %d/min, Redis: %s", cfg.MaxInputBytes, cfg.RateLimitPerMinute, cfg.maskedRedis())
	if cfg.AIAPIKey != "" {
		log.Println("  AI API Key: [ЗАГРУЖЕН]")
	}

	return &cfg, nil
}

func (c *Config) maskedRedis() string {
	if c.RedisAddr == "" {
		return "[in-memory]"
	}
	if c.RedisPassword != "" {
		return c.RedisAddr + " (password: ********)"
	}
	return c.RedisAddr
}
