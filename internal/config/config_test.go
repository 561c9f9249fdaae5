package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "", cfg.YtdlpPath)
	assert.Equal(t, 720, cfg.MinVideoHeight)
	assert.Equal(t, 60*time.Second, cfg.InspectTimeout())
	assert.Equal(t, 30*time.Minute, cfg.CatalogCacheTTL())
	assert.Equal(t, 15*time.Minute, cfg.SearchSessionTTL())
	assert.Equal(t, filepath.Join(dir, "catalogs.db"), cfg.CatalogFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MIN_VIDEO_HEIGHT", "0")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("YTDLP_PATH", "/opt/bin/yt-dlp")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 0, cfg.MinVideoHeight)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/opt/bin/yt-dlp", cfg.YtdlpPath)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "warn")

	v := viper.New()
	v.Set("LOG_LEVEL", "debug")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero timeout", "INSPECT_TIMEOUT_SECONDS", "0"},
		{"negative height", "MIN_VIDEO_HEIGHT", "-1"},
		{"zero session ttl", "SEARCH_SESSION_TTL_MINUTES", "0"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_DIR", t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := LoadFrom(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
