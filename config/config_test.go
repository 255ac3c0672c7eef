package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-portal/storage"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	t.Setenv("API_BASE_URL", "https://api.example.test/")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test,,")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "7")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "https://api.example.test", APIBaseURL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, CORSOrigins)
	assert.Equal(t, 7*time.Second, HTTPTimeout)
	assert.Equal(t, "memory", StorageDriver)
	assert.Equal(t, "4200", Port)
	assert.Equal(t, int64(20), LoginRateLimit)
	assert.False(t, IsProduction())
}

func TestCheckSessionSecret(t *testing.T) {
	assert.NoError(t, checkSessionSecret("development", DevSessionSecret))
	assert.NoError(t, checkSessionSecret("development", ""))
	assert.NoError(t, checkSessionSecret("production", "a-real-secret"))

	assert.Error(t, checkSessionSecret("production", DevSessionSecret))
	assert.Error(t, checkSessionSecret("Production", ""))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	assert.Equal(t, logrus.ErrorLevel, parseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
}

func TestOpenStorageFileAndMemory(t *testing.T) {
	prevDriver, prevFile := StorageDriver, StorageFile
	defer func() { StorageDriver, StorageFile = prevDriver, prevFile }()

	StorageDriver = "memory"
	s, closeFn, err := OpenStorage(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s)
	assert.NoError(t, closeFn())

	StorageDriver = "file"
	StorageFile = filepath.Join(t.TempDir(), "storage.json")
	s, _, err = OpenStorage(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, s)

	StorageDriver = "cassandra"
	_, _, err = OpenStorage(context.Background())
	assert.Error(t, err)
}
