package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"etsy_source/internal/config"
	"etsy_source/internal/service"
	"etsy_source/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		ShopID:      "shop-1",
		Token:       "secret",
		TypeName:    "Etsy",
		StoreDriver: "memory",
		RunMode:     "once",
	}
}

func TestInitDependencies_Memory(t *testing.T) {
	deps, err := initDependencies(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &store.MemoryStore{}, deps.Store)
	assert.Nil(t, deps.DB)
	assert.Nil(t, deps.Repo)
	assert.Equal(t, 1, deps.Host.Sources())
	assert.Equal(t, "EtsyProduct", deps.Source.TypeName())
}

func TestInitDependencies_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "db"
	cfg.DBDriver = "sqlite"
	cfg.DatabaseURL = ":memory:"

	deps, err := initDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	assert.NotNil(t, deps.DB)
	assert.NotNil(t, deps.Repo)
	assert.IsType(t, &store.DBStore{}, deps.Store)
}

func TestInitDependencies_MissingOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Token = ""

	_, err := initDependencies(context.Background(), cfg, zap.NewNop())
	var cfgErr *service.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Missing token option.", err.Error())
}

func TestInitDependencies_UnknownStore(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "redis"

	_, err := initDependencies(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}

func TestRun_UnknownMode(t *testing.T) {
	cfg := testConfig()
	cfg.RunMode = "daemon"

	err := run(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown RUN_MODE")
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger(&config.Config{Env: "production"}))
	assert.NotNil(t, newLogger(&config.Config{LogFormat: "json", LogLevel: "debug"}))
}
