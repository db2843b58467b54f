// Package storage определяет хранилище JSON-снимков состояния хранилищ витрины.
package storage

import "context"

// SnapshotStorage - хранилище ключ-значение для снимков.
type SnapshotStorage interface {
	// Load возвращает (nil, nil), если ключа нет.
	Load(ctx context.Context, key string) ([]byte, error)

	Save(ctx context.Context, key string, payload []byte) error

	Delete(ctx context.Context, key string) error

	Close() error
}
