// Package config loads SpecCade's runtime configuration from the
// environment, following the same getEnv/getEnvAsInt/getEnvAsBool idiom
// the rest of this codebase's lineage uses for configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the environment-driven settings a host process (CLI or
// worker) needs to run the generation pipeline.
type Config struct {
	// LogLevel and LogFormat control pkg/logger construction.
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "console" or "json"

	// BudgetProfile names the active spec.BudgetProfile by name.
	BudgetProfile string `json:"budget_profile"`

	// OutputDir is the base directory generated outputs are written under.
	OutputDir string `json:"output_dir"`

	// BackendVersion is stamped into every report (§6.5).
	BackendVersion string `json:"backend_version"`

	// CacheBackend selects the cache.Provider implementation: "local",
	// "s3", "gcs", "azure", or "redis". Empty disables caching.
	CacheBackend   string `json:"cache_backend"`
	CacheLocalDir  string `json:"cache_local_dir"`
	CacheIndexPath string `json:"cache_index_path"`

	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	GCSBucket   string `json:"gcs_bucket"`
	AzureAcct   string `json:"azure_account"`
	AzureKey    string `json:"azure_key"`
	AzureBucket string `json:"azure_container"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// MetricsEnabled registers the metrics.Recorder collectors.
	MetricsEnabled bool `json:"metrics_enabled"`
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:       getEnv("SPECCADE_LOG_LEVEL", "info"),
		LogFormat:      getEnv("SPECCADE_LOG_FORMAT", "console"),
		BudgetProfile:  getEnv("SPECCADE_BUDGET_PROFILE", "default"),
		OutputDir:      getEnv("SPECCADE_OUTPUT_DIR", "./out"),
		BackendVersion: getEnv("SPECCADE_BACKEND_VERSION", "dev"),
		CacheBackend:   getEnv("SPECCADE_CACHE_BACKEND", ""),
		CacheLocalDir:  getEnv("SPECCADE_CACHE_DIR", "./cache"),
		CacheIndexPath: getEnv("SPECCADE_CACHE_INDEX", "./cache/index.db"),
		S3Bucket:       getEnv("SPECCADE_S3_BUCKET", ""),
		S3Region:       getEnv("SPECCADE_S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("SPECCADE_S3_ENDPOINT", ""),
		GCSBucket:      getEnv("SPECCADE_GCS_BUCKET", ""),
		AzureAcct:      getEnv("SPECCADE_AZURE_ACCOUNT", ""),
		AzureKey:       getEnv("SPECCADE_AZURE_KEY", ""),
		AzureBucket:    getEnv("SPECCADE_AZURE_CONTAINER", ""),
		RedisAddr:      getEnv("SPECCADE_REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("SPECCADE_REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("SPECCADE_REDIS_DB", 0),
		MetricsEnabled: getEnvAsBool("SPECCADE_METRICS_ENABLED", false),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, cfg.LogLevel) {
		errs = append(errs, "SPECCADE_LOG_LEVEL must be one of: debug, info, warn, error, fatal")
	}

	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		errs = append(errs, "SPECCADE_LOG_FORMAT must be 'console' or 'json'")
	}

	switch cfg.CacheBackend {
	case "", "local":
	case "s3":
		if cfg.S3Bucket == "" {
			errs = append(errs, "SPECCADE_S3_BUCKET is required when SPECCADE_CACHE_BACKEND=s3")
		}
	case "gcs":
		if cfg.GCSBucket == "" {
			errs = append(errs, "SPECCADE_GCS_BUCKET is required when SPECCADE_CACHE_BACKEND=gcs")
		}
	case "azure":
		if cfg.AzureAcct == "" || cfg.AzureKey == "" || cfg.AzureBucket == "" {
			errs = append(errs, "SPECCADE_AZURE_ACCOUNT, SPECCADE_AZURE_KEY and SPECCADE_AZURE_CONTAINER are required when SPECCADE_CACHE_BACKEND=azure")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			errs = append(errs, "SPECCADE_REDIS_ADDR is required when SPECCADE_CACHE_BACKEND=redis")
		}
	default:
		errs = append(errs, "SPECCADE_CACHE_BACKEND must be one of: local, s3, gcs, azure, redis")
	}

	if cfg.OutputDir == "" {
		errs = append(errs, "SPECCADE_OUTPUT_DIR is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
