package logger

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-scoring-service/internal/config"
)

func TestInit_LevelAndFormat(t *testing.T) {
	closer := Init(config.LoggerConfig{Level: "debug", Format: "json"})
	defer closer.Close()

	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, isJSON)

	Init(config.LoggerConfig{Level: "bogus", Format: "text"})
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.log")
	closer := Init(config.LoggerConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1})

	log.Info("model loaded")
	require.NoError(t, closer.Close())
	log.SetOutput(os.Stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model loaded")
}
