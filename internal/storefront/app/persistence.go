package app

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"gogetmarket/internal/storefront/ports/storage"
	"gogetmarket/pkg/logger"
)

// Виды снимков.
const (
	SnapshotSession  = "session"
	SnapshotCart     = "cart"
	SnapshotWishlist = "wishlist"
)

const (
	LogSnapshotMissing  = "no saved state, starting empty"
	LogSnapshotLoadErr  = "failed to load saved state, starting empty"
	LogSnapshotParseErr = "saved state is corrupt, starting empty"
	LogSnapshotSaveErr  = "failed to save state"
	LogSnapshotHydrated = "state restored"
)

// SnapshotKey строит ключ вида <prefix>:<client>:<kind>.
func SnapshotKey(prefix, clientID, kind string) string {
	parts := []string{prefix}
	if clientID != "" {
		parts = append(parts, clientID)
	}
	return strings.Join(append(parts, kind), ":")
}

// snapshotter сохраняет и восстанавливает JSON-снимок хранилища.
// Ошибки хранилища не прерывают работу: они логируются.
type snapshotter struct {
	storage storage.SnapshotStorage
	key     string
	log     *logger.Logger
}

// hydrate заполняет v и возвращает true, если снимок найден и разобран.
func (s snapshotter) hydrate(ctx context.Context, v any) bool {
	if s.storage == nil {
		return false
	}
	log := s.log.With(zap.String("key", s.key))

	payload, err := s.storage.Load(ctx, s.key)
	if err != nil {
		log.Warn(ctx, LogSnapshotLoadErr, zap.Error(err))
		return false
	}
	if payload == nil {
		log.Debug(ctx, LogSnapshotMissing)
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		log.Warn(ctx, LogSnapshotParseErr, zap.Error(err))
		return false
	}

	log.Debug(ctx, LogSnapshotHydrated)
	return true
}

func (s snapshotter) persist(ctx context.Context, v any) {
	if s.storage == nil {
		return
	}
	log := s.log.With(zap.String("key", s.key))

	payload, err := json.Marshal(v)
	if err != nil {
		log.Error(ctx, LogSnapshotSaveErr, zap.Error(err))
		return
	}
	if err := s.storage.Save(ctx, s.key, payload); err != nil {
		log.Error(ctx, LogSnapshotSaveErr, zap.Error(err))
	}
}
