package config

import (
	"time"

	"gogetmarket/internal/storefront/app"
	"gogetmarket/internal/storefront/resilience"
)

// StoresConfig - длительности, которыми управляют хранилища.
type StoresConfig struct {
	SessionTTL            time.Duration `yaml:"session_ttl" env:"STOREFRONT_SESSION_TTL" env-default:"30m"`
	ToastDuration         time.Duration `yaml:"toast_duration" env:"STOREFRONT_TOAST_DURATION" env-default:"4s"`
	TransientErrorTimeout time.Duration `yaml:"transient_error_timeout" env:"STOREFRONT_TRANSIENT_ERROR_TIMEOUT" env-default:"5s"`
	// IdleClientTimeout - через сколько простоя набор хранилищ клиента выгружается из памяти.
	IdleClientTimeout time.Duration `yaml:"idle_client_timeout" env:"STOREFRONT_IDLE_CLIENT_TIMEOUT" env-default:"30m"`
}

// Settings переводит конфигурацию в параметры хранилищ.
func (c *StoresConfig) Settings() app.Settings {
	return app.Settings{
		SessionTTL:            c.SessionTTL,
		ToastDuration:         c.ToastDuration,
		TransientErrorTimeout: c.TransientErrorTimeout,
	}
}

// ResilienceConfig - повторы и автомат защиты для вызовов бэкенда.
type ResilienceConfig struct {
	MaxRetries       int           `yaml:"max_retries" env:"STOREFRONT_RETRY_MAX" env-default:"3"`
	InitialBackoff   time.Duration `yaml:"initial_backoff" env:"STOREFRONT_RETRY_INITIAL_BACKOFF" env-default:"100ms"`
	MaxBackoff       time.Duration `yaml:"max_backoff" env:"STOREFRONT_RETRY_MAX_BACKOFF" env-default:"2s"`
	FailureThreshold int           `yaml:"failure_threshold" env:"STOREFRONT_BREAKER_FAILURE_THRESHOLD" env-default:"5"`
	ResetTimeout     time.Duration `yaml:"reset_timeout" env:"STOREFRONT_BREAKER_RESET_TIMEOUT" env-default:"30s"`
}

// Breaker возвращает настройки автомата защиты.
func (c *ResilienceConfig) Breaker() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.ErrorThreshold = c.FailureThreshold
	cfg.Timeout = c.ResetTimeout
	return cfg
}

// Retry возвращает настройки повторов. MaxRetries не считает первую попытку.
func (c *ResilienceConfig) Retry() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = c.MaxRetries + 1
	cfg.InitialBackoff = c.InitialBackoff
	cfg.MaxBackoff = c.MaxBackoff
	return cfg
}

// MetricsConfig - экспорт метрик Prometheus.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"STOREFRONT_METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path" env:"STOREFRONT_METRICS_PATH" env-default:"/metrics"`
}
