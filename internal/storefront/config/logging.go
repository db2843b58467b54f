package config

import "gogetmarket/pkg/logger"

// LoggingConfig - параметры логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"STOREFRONT_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"STOREFRONT_LOGGER_MODE" env-default:"production"`
}

// GetEnvironment возвращает режим работы логгера.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	if c.Mode == string(logger.Development) {
		return logger.Development
	}
	return logger.Production
}
