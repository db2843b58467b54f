package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/ports/storage"
	"gogetmarket/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodLoad   = "load"
	LogMethodSave   = "save"
	LogMethodDelete = "delete"

	ErrorFailedToLoad   = "failed to load snapshot"
	ErrorFailedToSave   = "failed to save snapshot"
	ErrorFailedToDelete = "failed to delete snapshot"
	ErrorFailedToClose  = "failed to close snapshot storage"
)

// RedisStorage хранит снимки строками Redis. ttl == 0 - без срока жизни.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

var _ storage.SnapshotStorage = (*RedisStorage)(nil)

// NewRedisStorage создает хранилище поверх готового клиента.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

// Load получает снимок по ключу.
func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLoad), zap.String("key", key))

	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToLoad, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLoad, err)
	}

	return payload, nil
}

// Save записывает снимок и продлевает срок жизни ключа.
func (s *RedisStorage) Save(ctx context.Context, key string, payload []byte) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave), zap.String("key", key))

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}

	return nil
}

// Delete удаляет снимок.
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.String("key", key))

	if err := s.client.Del(ctx, key).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStorage) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
