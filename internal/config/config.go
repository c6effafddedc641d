package config

import (
	"flag"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/rag-assistant/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8501"`

	// External RAG engine
	RAGConnectorCfg RAGConnectorConfig `envPrefix:"RAG_"`

	// Default credential used when the user does not provide a key
	DefaultAPIKey string `env:"OPENAI_API_KEY"`

	// Model parameters offered in the sidebar
	ModelCfg ModelConfig

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Browser session configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Origins allowed to call the JSON API from a browser
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type RAGConnectorConfig struct {
	HTTPClientConfig
	QueryEndpoint          string               `env:"QUERY_ENDPOINT" envDefault:"/query"`
	EphemeralQueryEndpoint string               `env:"EPHEMERAL_QUERY_ENDPOINT" envDefault:"/query/ephemeral"`
	HealthEndpoint         string               `env:"HEALTH_ENDPOINT" envDefault:"/health"`
	Probe                  pkgRetry.RetryConfig `envPrefix:"PROBE_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"110s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:8000"`
}

type ModelConfig struct {
	Models             []string `env:"MODELS" envSeparator:"," envDefault:"gpt-4o-mini,gpt-4o,gpt-4-turbo,gpt-3.5-turbo"`
	DefaultModel       string   `env:"DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	DefaultTemperature float64  `env:"DEFAULT_TEMPERATURE" envDefault:"0.2"`
	DefaultK           int      `env:"DEFAULT_K" envDefault:"4"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64  `env:"MAX_FILE_SIZE" envDefault:"20971520"`   // 20 MiB
	MaxTotalSize  int64  `env:"MAX_TOTAL_SIZE" envDefault:"52428800"`  // 50 MiB
	MaxFileCount  int    `env:"MAX_FILE_COUNT" envDefault:"10"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB kept in memory
	TempDir       string `env:"TEMP_DIR"`                              // os.TempDir() when empty
}

type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	SecureCookie    bool          `env:"SECURE_COOKIE" envDefault:"false"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse(env.Options{})
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse builds and validates a Config from the process environment, or
// from opts.Environment when it is set.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	models := cfg.ModelCfg
	if len(models.Models) == 0 {
		errors = append(errors, "MODELS must list at least one model")
	} else if !slices.Contains(models.Models, models.DefaultModel) {
		errors = append(errors, fmt.Sprintf("DEFAULT_MODEL %q is not in MODELS", models.DefaultModel))
	}

	if models.DefaultTemperature < 0 || models.DefaultTemperature > 1 {
		errors = append(errors, fmt.Sprintf("DEFAULT_TEMPERATURE must be between 0 and 1, got %g", models.DefaultTemperature))
	}

	if models.DefaultK < 1 || models.DefaultK > 50 {
		errors = append(errors, fmt.Sprintf("DEFAULT_K must be between 1 and 50, got %d", models.DefaultK))
	}

	upload := cfg.FileUploadCfg
	if upload.MaxFileCount < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_COUNT must be positive, got %d", upload.MaxFileCount))
	}

	if upload.MaxFileSize <= 0 || upload.MaxTotalSize < upload.MaxFileSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_TOTAL_SIZE (%d) must be at least FILE_UPLOAD_MAX_FILE_SIZE (%d)", upload.MaxTotalSize, upload.MaxFileSize))
	}

	if cfg.SessionCfg.TTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}

	if cfg.RAGConnectorCfg.Probe.Attempts < 1 {
		errors = append(errors, "RAG_PROBE_ATTEMPTS must be at least 1")
	}

	if !cfg.EnableMocks && cfg.RAGConnectorCfg.Url == "" {
		errors = append(errors, "RAG_SERVICE_URL is required unless ENABLE_MOCKS is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
