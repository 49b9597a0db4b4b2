package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 10, cfg.App.DefaultFPS)
	assert.Equal(t, "1200:-1", cfg.App.DefaultScale)
	assert.Equal(t, "public", cfg.App.PublicDir)
	assert.Equal(t, "uploads", cfg.App.UploadDir)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, time.Duration(0), cfg.App.ConversionTimeout)
	assert.Equal(t, time.Duration(0), cfg.Server.Timeout, "no write deadline unless conversions have one")
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "http://localhost:3000", cfg.App.BaseURL)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  host: "0.0.0.0"
  port: "8080"
  timeout: 3m
app:
  base_url: "https://gifs.example.com/"
  default_fps: 15
  conversion_timeout: 90s
kafka:
  enabled: true
  brokers: ["kafka:9092"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://gifs.example.com", cfg.App.BaseURL)
	assert.Equal(t, 15, cfg.App.DefaultFPS)
	assert.Equal(t, 90*time.Second, cfg.App.ConversionTimeout)
	assert.Equal(t, 3*time.Minute, cfg.Server.Timeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	// untouched keys keep their defaults
	assert.Equal(t, "1200:-1", cfg.App.DefaultScale)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("APP_DEFAULT_SCALE", "480:-1")

	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "480:-1", cfg.App.DefaultScale)
	assert.Equal(t, "http://localhost:9999", cfg.App.BaseURL)
}

func TestParseConfigRejectsInvalidFPS(t *testing.T) {
	t.Setenv("APP_DEFAULT_FPS", "0")

	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)

	_, err = ParseConfig(v)
	assert.Error(t, err)
}

func TestParseConfigServerTimeoutMustCoverConversions(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		conversion string
		wantErr    bool
	}{
		{name: "no deadlines at all", server: "0s", conversion: "0s"},
		{name: "conversion deadline only", server: "0s", conversion: "2m"},
		{name: "write deadline with room to answer", server: "150s", conversion: "2m"},
		{name: "write deadline without conversion deadline", server: "5m", conversion: "0s", wantErr: true},
		{name: "write deadline shorter than conversion", server: "1m", conversion: "2m", wantErr: true},
		{name: "write deadline without headroom", server: "2m10s", conversion: "2m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SERVER_TIMEOUT", tt.server)
			t.Setenv("APP_CONVERSION_TIMEOUT", tt.conversion)

			v, err := loadConfig(t.TempDir())
			require.NoError(t, err)

			_, err = ParseConfig(v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("GIF_TEST_KEY", "value")

	assert.Equal(t, "value", GetEnv("GIF_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("GIF_TEST_MISSING_KEY", "fallback"))
}
