// Package config содержит конфигурацию сервиса витрины.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "gogetmarket/pkg/config"
	"gogetmarket/pkg/logger"
)

// Константы ошибок и сообщений для конфигурации.
const (
	ServiceName         = "storefront"
	LogConfigLoaded     = "storefront configuration loaded"
	ErrFailedLoadConfig = "failed to load storefront configuration"
	ErrInvalidBackend   = "unknown storage backend"
)

// Config - полная конфигурация витрины.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Stores     StoresConfig     `yaml:"stores"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// Load читает конфигурацию из envPath (если файл есть) и окружения.
func Load(ctx context.Context, envPath string) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}
	if !cfg.Storage.Backend.Valid() {
		log.Error(ctx, ErrInvalidBackend, zap.String("backend", string(cfg.Storage.Backend)))
		return nil, fmt.Errorf("%s: %q", ErrInvalidBackend, cfg.Storage.Backend)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout),
		zap.String("storage_backend", string(cfg.Storage.Backend)),
		zap.String("storage_key_prefix", cfg.Storage.KeyPrefix),
		zap.Duration("session_ttl", cfg.Stores.SessionTTL),
		zap.Duration("toast_duration", cfg.Stores.ToastDuration),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled))

	return cfg, nil
}
