package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultTemperature is applied when LLM_TEMPERATURE is unset or outside
// the valid [0, 1] range.
const defaultTemperature = 0.7

// Config holds all configuration for the clipsense server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// AuthConfig controls the optional static bearer-token check. When
// TokenBcrypt is empty, authentication is disabled.
type AuthConfig struct {
	TokenBcrypt     string
	RateLimitPerMin int
}

// LLMConfig selects and configures the backend providers. Provider "auto"
// resolves to the best available provider at processing time.
type LLMConfig struct {
	Provider   string
	Mistral    MistralConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
}

type MistralConfig struct {
	APIKey      string
	APIURL      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type OpenRouterConfig struct {
	APIKey      string
	APIURL      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type OllamaConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

var validProviders = map[string]bool{
	"auto":       true,
	"mistral":    true,
	"openrouter": true,
	"ollama":     true,
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value
// is missing or invalid.
func Load() (*Config, error) {
	temperature := envFloat("LLM_TEMPERATURE", defaultTemperature)
	if temperature < 0 || temperature > 1 {
		temperature = defaultTemperature
	}
	maxTokens := envInt("LLM_MAX_TOKENS", 1000)
	timeout := envDurationSecs("LLM_TIMEOUT_SECS", 30*time.Second)

	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CLIPSENSE_PORT", 8080),
			Env:  envString("CLIPSENSE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Auth: AuthConfig{
			TokenBcrypt:     os.Getenv("CLIPSENSE_API_TOKEN_BCRYPT"),
			RateLimitPerMin: envInt("CLIPSENSE_RATE_LIMIT_PER_MIN", 60),
		},
		LLM: LLMConfig{
			Provider: envString("LLM_PROVIDER", "auto"),
			Mistral: MistralConfig{
				APIKey:      os.Getenv("MISTRAL_API_KEY"),
				APIURL:      envString("MISTRAL_API_URL", "https://api.mistral.ai/v1/chat/completions"),
				Model:       envString("MISTRAL_MODEL", "mistral-tiny"),
				Temperature: temperature,
				MaxTokens:   maxTokens,
				Timeout:     timeout,
			},
			OpenRouter: OpenRouterConfig{
				APIKey:      os.Getenv("OPENROUTER_API_KEY"),
				APIURL:      envString("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
				Model:       envString("OPENROUTER_MODEL", "Mistral Small"),
				Temperature: temperature,
				MaxTokens:   maxTokens,
				Timeout:     timeout,
			},
			Ollama: OllamaConfig{
				BaseURL:     envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:       envString("OLLAMA_MODEL", "mistral"),
				Temperature: temperature,
				MaxTokens:   maxTokens,
				// Local inference is slower than hosted APIs.
				Timeout: envDurationSecs("OLLAMA_TIMEOUT_SECS", 60*time.Second),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("LLM_PROVIDER must be one of auto, mistral, openrouter, ollama; got %q", c.LLM.Provider)
	}

	if c.LLM.Provider == "mistral" && c.LLM.Mistral.APIKey == "" {
		return fmt.Errorf("MISTRAL_API_KEY is required when LLM_PROVIDER is mistral")
	}
	if c.LLM.Provider == "openrouter" && c.LLM.OpenRouter.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required when LLM_PROVIDER is openrouter")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
