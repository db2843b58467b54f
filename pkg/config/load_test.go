package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogetmarket/pkg/config"
)

type sampleConfig struct {
	Name  string `env:"SAMPLE_NAME" env-default:"market"`
	Limit int    `env:"SAMPLE_LIMIT" env-default:"4"`
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults without env file", func(t *testing.T) {
		cfg, err := config.Load[sampleConfig](ctx, "sample", "")
		require.NoError(t, err)
		assert.Equal(t, "market", cfg.Name)
		assert.Equal(t, 4, cfg.Limit)
	})

	t.Run("missing env file falls back to environment", func(t *testing.T) {
		t.Setenv("SAMPLE_LIMIT", "7")

		cfg, err := config.Load[sampleConfig](ctx, "sample", filepath.Join(t.TempDir(), "absent.env"))
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Limit)
	})

	t.Run("reads env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.env")
		require.NoError(t, os.WriteFile(path, []byte("SAMPLE_NAME=storefront\n"), 0o600))

		cfg, err := config.Load[sampleConfig](ctx, "sample", path)
		require.NoError(t, err)
		assert.Equal(t, "storefront", cfg.Name)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("SAMPLE_LIMIT", "many")

		cfg, err := config.Load[sampleConfig](ctx, "sample", "")
		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}
