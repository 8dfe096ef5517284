package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "blob", cfg.Model.Source)
	assert.Equal(t, "input_df", cfg.Model.InputKey)
	assert.Equal(t, "modelfile", cfg.Model.LocalDir)
	assert.Equal(t, "readydemo", cfg.Storage.Container)
	assert.Equal(t, "factory.model", cfg.Storage.ModelBlob)
	assert.Equal(t, "factory.schema", cfg.Storage.SchemaBlob)
	assert.Equal(t, "none", cfg.Collector.Kind)
	assert.Equal(t, 30*time.Second, cfg.Registry.Timeout)
	assert.False(t, cfg.Storage.Configured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MODEL_SOURCE", "local")
	t.Setenv("MODEL_LOCAL_PATH", "/models/factory.model")
	t.Setenv("STORAGE_ACCOUNT_NAME", "demoaccount")
	t.Setenv("STORAGE_ACCOUNT_KEY", "a2V5")
	t.Setenv("REGISTRY_TIMEOUT", "not-a-duration")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Model.Source)
	assert.Equal(t, "/models/factory.model", cfg.Model.LocalPath)
	assert.True(t, cfg.Storage.Configured())
	assert.Equal(t, 30*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "registry", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/registry?sslmode=disable", d.DSN())
}
