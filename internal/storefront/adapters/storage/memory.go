// Package storage содержит реализации хранилища снимков: в памяти, Redis и Postgres.
package storage

import (
	"context"
	"sync"

	"gogetmarket/internal/storefront/ports/storage"
)

// MemoryStorage хранит снимки в памяти процесса. Данные теряются при перезапуске.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.SnapshotStorage = (*MemoryStorage)(nil)

// NewMemoryStorage создает пустое хранилище.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Keys возвращает число сохраненных ключей.
func (s *MemoryStorage) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStorage) Close() error {
	return nil
}
