// Package config загружает конфигурацию сервисов из .env файла и переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"gogetmarket/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded"
	msgEnvFileMissing       = "env file not found, reading process environment"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load заполняет T из файла envPath, если он существует, иначе из окружения.
// Переменные окружения всегда имеют приоритет над значениями из файла.
func Load[T any](ctx context.Context, serviceName, envPath string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))
	log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, envPath))

	var cfg T
	var err error

	if envPath != "" {
		if _, statErr := os.Stat(envPath); statErr == nil {
			err = cleanenv.ReadConfig(envPath, &cfg)
		} else if errors.Is(statErr, os.ErrNotExist) {
			log.Debug(ctx, msgEnvFileMissing, zap.String(attrPath, envPath))
			err = cleanenv.ReadEnv(&cfg)
		} else {
			err = statErr
		}
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}

	if err != nil {
		log.Error(ctx, errFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}
