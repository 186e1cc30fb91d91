package client

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the API client configuration. Every field can be set from the
// environment; CLI flags override what the environment provides.
type Config struct {
	BaseURL       string        `env:"MENTORHUB_API_URL" envDefault:"http://localhost:8080/api"`
	Timeout       time.Duration `env:"MENTORHUB_TIMEOUT" envDefault:"30s"`
	CacheDir      string        `env:"MENTORHUB_CACHE_DIR"`
	MaxRetries    uint          `env:"MENTORHUB_MAX_RETRIES" envDefault:"3"`
	RetryInterval time.Duration `env:"MENTORHUB_RETRY_INTERVAL" envDefault:"250ms"`
	RateLimit     float64       `env:"MENTORHUB_RATE_LIMIT" envDefault:"10"`
	Token         string        `env:"MENTORHUB_TOKEN"`
	Debug         bool          `env:"MENTORHUB_DEBUG"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse client config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080/api",
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RetryInterval: 250 * time.Millisecond,
		RateLimit:     10,
	}
}
