// Package config loads migration settings from the environment. A .env
// file, when present, is read by main before this runs.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything a migration run needs. Connection strings and
// credentials only ever come from the environment.
type Config struct {
	// LegacyDatabaseURL is the read-only DSN of the legacy Django database.
	LegacyDatabaseURL string `env:"LEGACY_DATABASE_URL" env-required:"true"`

	// TargetDatabaseURL is the Supabase/Postgres DSN written to.
	TargetDatabaseURL string `env:"TARGET_DATABASE_URL" env-required:"true"`

	// BatchSize is the number of records per bulk insert.
	BatchSize int `env:"BATCH_SIZE" env-default:"100"`

	// MaxRetries bounds retries of one failed bulk insert.
	MaxRetries int `env:"MAX_RETRIES" env-default:"3"`

	// BatchInterval paces consecutive batches.
	BatchInterval time.Duration `env:"BATCH_INTERVAL" env-default:"100ms"`

	// CreateRelationships toggles the secondary join-record writes.
	CreateRelationships bool `env:"CREATE_RELATIONSHIPS" env-default:"true"`

	// ValidateData toggles required-field checks and post-run count
	// validation.
	ValidateData bool `env:"VALIDATE_DATA" env-default:"true"`

	// QueueEmbeddings toggles the embedding side channel.
	QueueEmbeddings bool `env:"QUEUE_EMBEDDINGS" env-default:"false"`

	Embedding EmbeddingConfig

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogFile  string `env:"LOG_FILE" env-default:""`
}

// EmbeddingConfig holds the settings for the embed worker. Only needed
// when running `embed run`.
type EmbeddingConfig struct {
	BaseURL   string `env:"EMBEDDING_BASE_URL" env-default:""`
	APIKey    string `env:"EMBEDDING_API_KEY" env-default:""`
	Model     string `env:"EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	ChunkSize int    `env:"EMBEDDING_CHUNK_SIZE" env-default:"50"`
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	if cfg.BatchInterval < 0 {
		return nil, fmt.Errorf("BATCH_INTERVAL must not be negative, got %s", cfg.BatchInterval)
	}
	return &cfg, nil
}
