package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию игрового клиента
type Config struct {
	RelayURL       string        `envconfig:"RELAY_URL" default:"http://localhost:8090"`
	RelayTimeout   time.Duration `envconfig:"RELAY_TIMEOUT" default:"90s"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"warn"`
	RevealInterval time.Duration `envconfig:"REVEAL_INTERVAL" default:"20ms"`

	// Пустые значения заменяются значениями по умолчанию из models
	StartCondition    string `envconfig:"START_CONDITION"`
	SystemInstruction string `envconfig:"SYSTEM_INSTRUCTION"`
}

// SessionConfig returns the settings a new session starts with.
func (c *Config) SessionConfig() models.SessionConfig {
	return models.SessionConfig{
		StartCondition:    c.StartCondition,
		SystemInstruction: c.SystemInstruction,
	}
}

// LoadConfig загружает конфигурацию из .env (если есть) и переменных окружения
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	if strings.TrimSpace(cfg.StartCondition) == "" {
		cfg.StartCondition = models.DefaultStartCondition
	}
	if strings.TrimSpace(cfg.SystemInstruction) == "" {
		cfg.SystemInstruction = models.DefaultSystemInstruction
	}
	if cfg.RelayTimeout <= 0 {
		return nil, fmt.Errorf("RELAY_TIMEOUT must be positive, got %v", cfg.RelayTimeout)
	}
	if cfg.RevealInterval < 0 {
		return nil, fmt.Errorf("REVEAL_INTERVAL must not be negative, got %v", cfg.RevealInterval)
	}

	return &cfg, nil
}
