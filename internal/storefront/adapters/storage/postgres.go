package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/ports/storage"
	"gogetmarket/pkg/logger"
)

// DB - часть пула pgx, нужная хранилищу. Ей удовлетворяют *pgxpool.Pool и pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	querySelectSnapshot = `SELECT payload FROM state_snapshots WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`
	queryUpsertSnapshot = `INSERT INTO state_snapshots (key, payload, expires_at, updated_at) VALUES ($1, $2, $3, NOW())
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = NOW()`
	queryDeleteSnapshot = `DELETE FROM state_snapshots WHERE key = $1`
)

// PostgresStorage хранит снимки в таблице state_snapshots (JSONB).
// Пулом владеет вызывающий код, Close его не закрывает.
type PostgresStorage struct {
	db  DB
	ttl time.Duration
	now func() time.Time
}

var _ storage.SnapshotStorage = (*PostgresStorage)(nil)

// NewPostgresStorage создает хранилище. ttl == 0 - снимки не истекают.
func NewPostgresStorage(db DB, ttl time.Duration) *PostgresStorage {
	return &PostgresStorage{db: db, ttl: ttl, now: time.Now}
}

func (s *PostgresStorage) Load(ctx context.Context, key string) ([]byte, error) {
	log := logger.Log(ctx).With(zap.String("method", "PostgresStorage.Load"), zap.String("key", key))

	var payload []byte
	err := s.db.QueryRow(ctx, querySelectSnapshot, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "snapshot not found")
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToLoad, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLoad, err)
	}

	return payload, nil
}

func (s *PostgresStorage) Save(ctx context.Context, key string, payload []byte) error {
	log := logger.Log(ctx).With(zap.String("method", "PostgresStorage.Save"), zap.String("key", key))

	var expiresAt *time.Time
	if s.ttl > 0 {
		at := s.now().Add(s.ttl)
		expiresAt = &at
	}

	if _, err := s.db.Exec(ctx, queryUpsertSnapshot, key, payload, expiresAt); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}

	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", "PostgresStorage.Delete"), zap.String("key", key))

	if _, err := s.db.Exec(ctx, queryDeleteSnapshot, key); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return nil
}
