package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StorageDir = "dir"
	StorageS3  = "s3"
)

type Config struct {
	// Application
	AppEnv string `validate:"required,oneof=development production test"`

	// Observability (optional)
	SentryDSN string

	// Corpus
	ContentPath   string   `validate:"required_if=Storage dir"`
	Extensions    []string `validate:"min=1,dive,required"`
	IncludeDrafts bool
	Workers       int `validate:"min=1,max=256"`

	// Storage backend: "dir" (local directory) or "s3"
	Storage string `validate:"required,oneof=dir s3"`

	// Storage - S3-compatible (MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string `validate:"required_if=Storage s3"`
	S3Bucket    string `validate:"required_if=Storage s3"`
	S3Prefix    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
}

// Load reads the config from the environment, after loading .env if present.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:    envString("APP_ENV", "development"),
		SentryDSN: envString("SENTRY_DSN", ""),

		ContentPath:   envString("CONTENT_PATH", "content/blog"),
		Extensions:    envList("POST_EXTENSIONS", []string{".md", ".markdown"}),
		IncludeDrafts: envBool("INCLUDE_DRAFTS", false),
		Workers:       envInt("LOAD_WORKERS", 8),

		Storage: envString("STORAGE", StorageDir),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3Prefix:    envString("S3_PREFIX", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. Callers that override fields after Load
// (CLI flags) run it again.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
