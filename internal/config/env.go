// Package config loads service configuration from the environment with
// sensible defaults for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// ServerConfig defines the HTTP generation service.
type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	MaxUploadMB     int64
	BatchLimit      int
	MaxConcurrent   int
	ShutdownTimeout time.Duration
}

// StorageConfig selects where generated presentations are persisted.
type StorageConfig struct {
	Backend    string // "local" | "s3"
	LocalDir   string
	S3Bucket   string
	S3Region   string
	S3Prefix   string
	PutTimeout time.Duration
}

// DeckConfig carries generation defaults.
type DeckConfig struct {
	DefaultTemplate string
	DefaultAuthor   string
	OutputDir       string
	TempDir         string
	TempMaxAge      time.Duration
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Axiom   AxiomConfig
	Server  ServerConfig
	Storage StorageConfig
	Deck    DeckConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/deckgen.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_deckgen",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Server = ServerConfig{
		Addr:            getEnv("HTTP_ADDR", ":8080"),
		RequestTimeout:  parseDuration(getEnv("REQUEST_TIMEOUT", "60s"), 60*time.Second),
		MaxUploadMB:     int64(parseInt(getEnv("MAX_UPLOAD_MB", "50"), 50)),
		BatchLimit:      parseInt(getEnv("BATCH_LIMIT", "50"), 50),
		MaxConcurrent:   parseInt(getEnv("MAX_CONCURRENT", "8"), 8),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}

	cfg.Storage = StorageConfig{
		Backend:    getEnv("STORAGE_BACKEND", "local"),
		LocalDir:   getEnv("STORAGE_LOCAL_DIR", "output"),
		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Region:   getEnv("S3_REGION", "us-east-1"),
		S3Prefix:   getEnv("S3_PREFIX", "decks"),
		PutTimeout: parseDuration(getEnv("STORAGE_PUT_TIMEOUT", "30s"), 30*time.Second),
	}

	cfg.Deck = DeckConfig{
		DefaultTemplate: getEnv("DECK_TEMPLATE", ""),
		DefaultAuthor:   getEnv("DECK_AUTHOR", "deckgen"),
		OutputDir:       getEnv("DECK_OUTPUT_DIR", "output"),
		TempDir:         getEnv("DECK_TEMP_DIR", os.TempDir()),
		TempMaxAge:      parseDuration(getEnv("DECK_TEMP_MAX_AGE", "1h"), time.Hour),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
