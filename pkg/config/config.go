package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Webhook  WebhookConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080" validate:"required"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development" validate:"oneof=development staging production test"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" default:"localhost" validate:"required"`
	Port           string        `envconfig:"DB_PORT" default:"5432" validate:"required"`
	User           string        `envconfig:"DB_USER" default:"postgres" validate:"required"`
	Password       string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name           string        `envconfig:"DB_NAME" default:"meeting_digest" validate:"required"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns       int           `envconfig:"DB_MAX_CONNS" default:"25" validate:"gte=1"`
	MinConns       int           `envconfig:"DB_MIN_CONNS" default:"5" validate:"gte=0"`
	AutoMigrate    bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"30s" validate:"gt=0"`
}

// RedisConfig holds Redis configuration. Change notifications are disabled when Enabled is false.
type RedisConfig struct {
	Enabled       bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host          string `envconfig:"REDIS_HOST" default:"localhost"`
	Port          string `envconfig:"REDIS_PORT" default:"6379"`
	Password      string `envconfig:"REDIS_PASSWORD"`
	DB            int    `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`
	ChangeChannel string `envconfig:"REDIS_CHANGE_CHANNEL" default:"meetings:transcripts:changed" validate:"required"`
	AlertChannel  string `envconfig:"REDIS_ALERT_CHANNEL" default:"meetings:pipeline:alerts" validate:"required"`
}

// StorageConfig holds object storage configuration. Audio links are plain when Enabled is false.
type StorageConfig struct {
	Enabled         bool          `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"meeting-audio"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL"`
	PresignExpiry   time.Duration `envconfig:"STORAGE_PRESIGN_EXPIRY" default:"1h" validate:"gt=0"`
}

// PipelineConfig tunes the reconciler and its trigger controller
type PipelineConfig struct {
	MinSpacing        time.Duration `envconfig:"PIPELINE_MIN_SPACING" default:"2m" validate:"gte=0"`
	Interval          time.Duration `envconfig:"PIPELINE_INTERVAL" default:"5m" validate:"gt=0"`
	FailureThreshold  int           `envconfig:"PIPELINE_FAILURE_THRESHOLD" default:"3" validate:"gte=1"`
	AutoEnabled       bool          `envconfig:"PIPELINE_AUTO_ENABLED" default:"true"`
	RunTimeout        time.Duration `envconfig:"PIPELINE_RUN_TIMEOUT" default:"5m" validate:"gt=0"`
	Workers           int           `envconfig:"RECONCILE_WORKERS" default:"4" validate:"gte=1,lte=64"`
	CandidateTimeout  time.Duration `envconfig:"RECONCILE_CANDIDATE_TIMEOUT" default:"30s" validate:"gt=0"`
	StoreTimeout      time.Duration `envconfig:"STORE_TIMEOUT" default:"10s" validate:"gt=0"`
	MaxSentences      int           `envconfig:"SUMMARY_MAX_SENTENCES" default:"3" validate:"gte=1"`
	MaxKeyPoints      int           `envconfig:"SUMMARY_MAX_KEY_POINTS" default:"5" validate:"gte=1"`
	MinSentenceLength int           `envconfig:"SUMMARY_MIN_SENTENCE_LENGTH" default:"15" validate:"gte=10,lte=20"`
}

// WebhookConfig holds the shared secret for store change webhooks. The route is
// disabled when the secret is empty.
type WebhookConfig struct {
	Secret string `envconfig:"WEBHOOK_SECRET"`
}

// Load loads configuration from the environment, reading .env first when present
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
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
