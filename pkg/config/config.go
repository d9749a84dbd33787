package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Zoom     ZoomConfig
	LLM      LLMConfig
	Worker   WorkerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_minutes"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration. Redis backs webhook event
// deduplication; when Host is empty the service falls back to an
// in-process store.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:""`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ZoomConfig holds recording-provider credentials
type ZoomConfig struct {
	AccountID     string `envconfig:"ZOOM_ACCOUNT_ID"`
	ClientID      string `envconfig:"ZOOM_CLIENT_ID"`
	ClientSecret  string `envconfig:"ZOOM_CLIENT_SECRET"`
	WebhookSecret string `envconfig:"ZOOM_WEBHOOK_SECRET_TOKEN"`
	BaseURL       string `envconfig:"ZOOM_API_URL" default:"https://api.zoom.us/v2"`
	OAuthURL      string `envconfig:"ZOOM_OAUTH_URL" default:"https://zoom.us/oauth/token"`
}

// LLMConfig holds text-generation backend configuration
type LLMConfig struct {
	APIKey      string        `envconfig:"LLM_API_KEY"`
	BaseURL     string        `envconfig:"LLM_API_URL" default:"https://api.openai.com/v1"`
	Model       string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`
	Temperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"8000"`
}

// WorkerConfig holds pipeline worker pool configuration
type WorkerConfig struct {
	Count        int           `envconfig:"WORKER_COUNT" default:"2"`
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	JobTimeout   time.Duration `envconfig:"WORKER_JOB_TIMEOUT" default:"5m"`
	MaxRetries   int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Redis); err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Zoom); err != nil {
		return nil, fmt.Errorf("failed to load zoom config: %w", err)
	}
	if err := envconfig.Process("", &cfg.LLM); err != nil {
		return nil, fmt.Errorf("failed to load llm config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Worker); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Zoom.AccountID == "" || c.Zoom.ClientID == "" || c.Zoom.ClientSecret == "" {
		return fmt.Errorf("ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID and ZOOM_CLIENT_SECRET are required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Zoom.WebhookSecret == "" {
		// Verification is skipped without a secret. Acceptable for local
		// development only.
		log.Printf("Warning: ZOOM_WEBHOOK_SECRET_TOKEN not set, webhook signature verification disabled")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
