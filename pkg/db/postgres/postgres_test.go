package postgres_test

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogetmarket/pkg/db/postgres"
)

func TestConfigDSN(t *testing.T) {
	t.Run("defaults sslmode to disable", func(t *testing.T) {
		cfg := postgres.Config{Host: "db", Port: 5432, User: "market", Password: "secret", Database: "storefront"}

		assert.Equal(t, "postgres://market:secret@db:5432/storefront?sslmode=disable", cfg.DSN())
	})

	t.Run("escapes credentials", func(t *testing.T) {
		cfg := postgres.Config{Host: "db", Port: 5432, User: "market", Password: "p@ss word", Database: "storefront", SSLMode: "require"}

		assert.Equal(t, "postgres://market:p%40ss%20word@db:5432/storefront?sslmode=require", cfg.DSN())
	})
}

func TestNewUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, postgres.Config{Host: "127.0.0.1", Port: 1, User: "u", Password: "p", Database: "d"})
	require.Error(t, err)
	assert.Nil(t, db)
}

func TestMigrateFSMissingDir(t *testing.T) {
	err := postgres.MigrateFS(context.Background(), fstest.MapFS{}, "absent", "postgres://u:p@127.0.0.1:1/d?sslmode=disable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), postgres.ErrOpenMigrationSource)
}
