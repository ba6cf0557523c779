package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T, envVars map[string]string) func() {
	t.Helper()
	original := make(map[string]string)

	for key, value := range envVars {
		original[key] = os.Getenv(key)
		os.Setenv(key, value)
	}

	return func() {
		for key := range envVars {
			if v, ok := original[key]; ok && v != "" {
				os.Setenv(key, v)
			} else {
				os.Unsetenv(key)
			}
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"SPECCADE_LOG_LEVEL":      "",
		"SPECCADE_LOG_FORMAT":     "",
		"SPECCADE_BUDGET_PROFILE": "",
		"SPECCADE_CACHE_BACKEND":  "",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "default", cfg.BudgetProfile)
	assert.Equal(t, "", cfg.CacheBackend)
}

func TestLoadInvalidLogLevel(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{"SPECCADE_LOG_LEVEL": "verbose"})
	defer cleanup()

	_, err := Load()
	require.Error(t, err)
}

func TestLoadS3BackendRequiresBucket(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"SPECCADE_CACHE_BACKEND": "s3",
		"SPECCADE_S3_BUCKET":     "",
	})
	defer cleanup()

	_, err := Load()
	require.Error(t, err)
}

func TestLoadS3BackendWithBucket(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"SPECCADE_CACHE_BACKEND": "s3",
		"SPECCADE_S3_BUCKET":     "speccade-cache",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "speccade-cache", cfg.S3Bucket)
}

func TestGetEnvAsBool(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{"SPECCADE_METRICS_ENABLED": "true"})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MetricsEnabled)
}
