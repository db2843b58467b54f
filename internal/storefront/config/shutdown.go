package config

import "time"

// ShutdownConfig - таймаут корректного завершения.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"STOREFRONT_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5"`
}

// GetTimeout возвращает таймаут в виде Duration.
func (c *ShutdownConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
