// Package app содержит хранилища состояния витрины: сессию, корзину, избранное,
// уведомления и монитор сети.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/ports/scheduler"
	"gogetmarket/internal/storefront/ports/storage"
	"gogetmarket/pkg/logger"
)

// Значения по умолчанию.
const (
	DefaultToastDuration         = 4 * time.Second
	DefaultTransientErrorTimeout = 5 * time.Second
	DefaultKeyPrefix             = "storefront"
)

// Deps - общие зависимости хранилищ одного клиента.
type Deps struct {
	Bus       bus.Bus
	Scheduler scheduler.Scheduler
	// Storage может быть nil - тогда состояние не сохраняется.
	Storage   storage.SnapshotStorage
	KeyPrefix string
	ClientID  string
	Logger    *logger.Logger
}

func (d Deps) logger(component string) *logger.Logger {
	log := d.Logger
	if log == nil {
		log = logger.Log(context.Background())
	}
	fields := []zap.Field{zap.String("component", component)}
	if d.ClientID != "" {
		fields = append(fields, zap.String(logger.ClientID, d.ClientID))
	}
	return log.With(fields...)
}

func (d Deps) snapshot(kind string, log *logger.Logger) snapshotter {
	prefix := d.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return snapshotter{
		storage: d.Storage,
		key:     SnapshotKey(prefix, d.ClientID, kind),
		log:     log,
	}
}
