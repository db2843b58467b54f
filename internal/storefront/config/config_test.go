package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogetmarket/internal/storefront/config"
	"gogetmarket/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	cfg, err := config.Load(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.GetAddress())
	assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "storefront", cfg.Storage.KeyPrefix)
	assert.Equal(t, 4*time.Second, cfg.Stores.ToastDuration)
	assert.Equal(t, 5*time.Second, cfg.Stores.TransientErrorTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Stores.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.Shutdown.GetTimeout())
	assert.Equal(t, logger.Production, cfg.Logging.GetEnvironment())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 3, cfg.Resilience.MaxRetries)
}

func TestLoad_Environment(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "redis")
	t.Setenv("STOREFRONT_REDIS_HOST", "cache")
	t.Setenv("STOREFRONT_TOAST_DURATION", "2500ms")
	t.Setenv("STOREFRONT_LOGGER_MODE", "development")

	cfg, err := config.Load(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Client().Address())
	assert.Equal(t, 2500*time.Millisecond, cfg.Stores.Settings().ToastDuration)
	assert.Equal(t, logger.Development, cfg.Logging.GetEnvironment())
}

func TestLoad_EnvFile(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())
	path := filepath.Join(t.TempDir(), "storefront.env")
	content := "STOREFRONT_STORAGE_BACKEND=postgres\nSTOREFRONT_POSTGRES_DB=market\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(ctx, path)

	require.NoError(t, err)
	assert.Equal(t, config.BackendPostgres, cfg.Storage.Backend)
	assert.Contains(t, cfg.Postgres.Pool().DSN(), "/market?sslmode=disable")
}

func TestLoad_UnknownBackend(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "etcd")

	_, err := config.Load(ctx, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidBackend)
}

func TestResilienceConfig_Conversion(t *testing.T) {
	cfg := config.ResilienceConfig{
		MaxRetries:       2,
		InitialBackoff:   50 * time.Millisecond,
		MaxBackoff:       time.Second,
		FailureThreshold: 7,
		ResetTimeout:     10 * time.Second,
	}

	retry := cfg.Retry()
	assert.Equal(t, 3, retry.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, retry.InitialBackoff)
	assert.Equal(t, time.Second, retry.MaxBackoff)

	breaker := cfg.Breaker()
	assert.Equal(t, 7, breaker.ErrorThreshold)
	assert.Equal(t, 10*time.Second, breaker.Timeout)
}
