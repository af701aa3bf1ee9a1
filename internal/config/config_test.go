package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY", "key")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Media.DownloadTimeout)
	assert.Equal(t, int64(50<<20), cfg.Media.MaxAudioSize)
	assert.Equal(t, "ffmpeg", cfg.Transcoder.Binary)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("missing minio credentials", func(t *testing.T) {
		t.Setenv("MINIO_ACCESS_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "MINIO_ACCESS_KEY")
	})

	t.Run("default secret in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("MINIO_ACCESS_KEY", "key")
		t.Setenv("MINIO_SECRET_KEY", "secret")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("non-positive transcoder timeout", func(t *testing.T) {
		t.Setenv("MINIO_ACCESS_KEY", "key")
		t.Setenv("MINIO_SECRET_KEY", "secret")
		t.Setenv("FFMPEG_TIMEOUT", "0s")
		_, err := Load()
		assert.ErrorContains(t, err, "FFMPEG_TIMEOUT")
	})
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, int32(25), cfg.MaxConns)

	t.Setenv("DB_RETRY_DELAY", "soon")
	_, err = LoadDatabaseConfig()
	assert.ErrorContains(t, err, "DB_RETRY_DELAY")
}
