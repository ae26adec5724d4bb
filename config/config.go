package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Serper   SerperConfig
	Pipeline PipelineConfig
	Variants VariantsConfig
	Auth     AuthConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerperConfig holds search API configuration
type SerperConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	NumResults    int           `mapstructure:"num_results"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

// PipelineConfig holds thresholds and fan-out limits shared by the pipelines
type PipelineConfig struct {
	AnomalyThreshold   float64 `mapstructure:"anomaly_threshold"`
	ArbitrageThreshold float64 `mapstructure:"arbitrage_threshold"`
	MaxConcurrency     int     `mapstructure:"max_concurrency"`
}

// VariantsConfig selects and configures the variant extractor
type VariantsConfig struct {
	Mode      string        `mapstructure:"mode"` // "rules" or "ollama"
	OllamaURL string        `mapstructure:"ollama_url"`
	Model     string        `mapstructure:"model"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// AuthConfig holds the shared API credential. Auth is disabled when both are empty.
type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether API routes require basic auth
func (a AuthConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

var (
	environments = []string{"development", "test", "production"}
	variantModes = []string{"rules", "ollama"}
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricescout/")

	// PRICESCOUT_SERPER_API_KEY -> serper.api_key
	v.SetEnvPrefix("PRICESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Search defaults
	v.SetDefault("serper.api_key", "")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.timeout", "30s")
	v.SetDefault("serper.num_results", 5)
	v.SetDefault("serper.rate_per_second", 5)
	v.SetDefault("serper.burst", 10)

	// Pipeline defaults
	v.SetDefault("pipeline.anomaly_threshold", 0.10)
	v.SetDefault("pipeline.arbitrage_threshold", 20.0)
	v.SetDefault("pipeline.max_concurrency", 6)

	// Variant extraction defaults
	v.SetDefault("variants.mode", "rules")
	v.SetDefault("variants.ollama_url", "http://localhost:11434")
	v.SetDefault("variants.model", "llama3")
	v.SetDefault("variants.cache_ttl", "24h")

	// Auth is off unless both are set
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if !slices.Contains(environments, config.Server.Environment) {
		return fmt.Errorf("environment must be one of %v, got: %s", environments, config.Server.Environment)
	}

	if !slices.Contains(variantModes, config.Variants.Mode) {
		return fmt.Errorf("variants mode must be 'rules' or 'ollama', got: %s", config.Variants.Mode)
	}

	if config.Variants.Mode == "ollama" && config.Variants.OllamaURL == "" {
		return fmt.Errorf("ollama URL is required when variants mode is 'ollama'")
	}

	if config.Serper.NumResults < 1 || config.Serper.NumResults > 10 {
		return fmt.Errorf("serper num_results must be between 1 and 10, got: %d", config.Serper.NumResults)
	}

	if config.Pipeline.AnomalyThreshold <= 0 {
		return fmt.Errorf("anomaly threshold must be positive, got: %v", config.Pipeline.AnomalyThreshold)
	}

	if config.Pipeline.ArbitrageThreshold < 0 {
		return fmt.Errorf("arbitrage threshold must not be negative, got: %v", config.Pipeline.ArbitrageThreshold)
	}

	if (config.Auth.Username == "") != (config.Auth.Password == "") {
		return fmt.Errorf("auth username and password must be set together")
	}

	return nil
}

// loadEnvFile exports KEY=VALUE pairs from ./.env.
// A missing file is not an error and variables already set are never overridden.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return scanner.Err()
}
