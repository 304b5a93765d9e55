package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name   string
		list   string
		single string
		want   []string
	}{
		{name: "list trimmed", list: " a , b,,c ", single: "z", want: []string{"a", "b", "c"}},
		{name: "single fallback", list: "", single: " only ", want: []string{"only"}},
		{name: "blank list uses single", list: " , ", single: "x", want: []string{"x"}},
		{name: "placeholder ignored", list: "", single: "YOUR_YOUTUBE_API_KEY", want: []string{}},
		{name: "nothing", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAPIKeys(tt.list, tt.single))
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8088")
	t.Setenv("YOUTUBE_API_KEYS", "k1,k2")
	t.Setenv("KV_URL", "redis://kv:6379/0")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CACHE_MAX_ENTRIES", "7")
	t.Setenv("QUOTA_SHARED", "true")
	t.Setenv("QUOTA_RESET_COOLDOWN", "90s")

	LoadConfig()

	assert.Equal(t, 8088, C.App.Port)
	assert.Equal(t, "redis://kv:6379/0", C.RedisClient.URL)
	assert.Equal(t, 7, C.Cache.MaxEntries)
	assert.Equal(t, 60, C.Cache.ExpiryMarginSeconds)
	assert.True(t, C.YouTube.QuotaShared)
	assert.Equal(t, 90*time.Second, C.ResetCooldown())
	assert.Equal(t, []string{"k1", "k2"}, GetYouTubeConfig().APIKeys)
	assert.Equal(t, "KR", GetYouTubeConfig().RegionCode)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "PORT", "REDIS_URL", "KV_URL", "DATABASE_URL", "CACHE_MAX_ENTRIES", "QUOTA_RESET_COOLDOWN", "YOUTUBE_API_KEYS", "YOUTUBE_API_KEY"} {
		t.Setenv(key, "")
	}

	LoadConfig()

	assert.Equal(t, 10001, C.App.Port)
	assert.Equal(t, 100, C.Cache.MaxEntries)
	assert.Empty(t, C.RedisClient.URL)
	assert.Equal(t, time.Duration(0), C.ResetCooldown())
	assert.Empty(t, GetYouTubeConfig().APIKeys)
}

func TestResetCooldown_Invalid(t *testing.T) {
	c := Config{YouTube: YouTube{ResetCooldown: "soon"}}
	assert.Equal(t, time.Duration(0), c.ResetCooldown())
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("VIEWTRAP_TEST_ONE=from-file\nVIEWTRAP_TEST_TWO=\"quoted\"\n"), 0o600))
	t.Setenv("VIEWTRAP_TEST_ONE", "from-env")
	t.Setenv("VIEWTRAP_TEST_TWO", "")
	require.NoError(t, os.Unsetenv("VIEWTRAP_TEST_TWO"))

	loaded := LoadEnvFromFile(filepath.Join(dir, "missing.env"), path)

	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "from-env", os.Getenv("VIEWTRAP_TEST_ONE"))
	assert.Equal(t, "quoted", os.Getenv("VIEWTRAP_TEST_TWO"))
}
