package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir so a real user config is never read
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadConfig(LoadOptions{EnvFile: filepath.Join(home, "missing.env")})
	require.NoError(t, err)

	require.Equal(t, "https://wizard-world-api.herokuapp.com", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 24*time.Hour, cfg.Cache.MaxAge)
	require.Equal(t, 5*time.Minute, cfg.Cache.CollectionStaleTime)
	require.Equal(t, 10*time.Minute, cfg.Cache.ItemStaleTime)
	require.Equal(t, filepath.Join(home, ".local", "share", "grimoire", "cache"), cfg.Cache.Dir)
	require.Equal(t, "/", cfg.UI.DefaultRoute)
	require.Empty(t, cfg.Auth.UsersFile)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "config.yaml", `
api:
  base_url: http://localhost:9999
  timeout: 5s
cache:
  dir: ~/grimoire-cache
  item_stale_time: 1m
auth:
  users_file: ~/users.yaml
ui:
  browser: firefox
  browser_args: ["--new-window"]
logging:
  level: debug
`)
	t.Setenv("GRIMOIRE_CACHE_ITEM_STALE_TIME", "2m")
	t.Setenv("GRIMOIRE_CACHE_BUSTER", "v2")

	cfg, err := LoadConfig(LoadOptions{ConfigFile: path, EnvFile: filepath.Join(home, "missing.env")})
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, filepath.Join(home, "grimoire-cache"), cfg.Cache.Dir)
	require.Equal(t, filepath.Join(home, "users.yaml"), cfg.Auth.UsersFile)
	require.Equal(t, 2*time.Minute, cfg.Cache.ItemStaleTime, "env beats file")
	require.Equal(t, 5*time.Minute, cfg.Cache.CollectionStaleTime, "unset keys keep defaults")
	require.Equal(t, "v2", cfg.Cache.Buster)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "firefox", cfg.UI.Browser)
	require.Equal(t, []string{"--new-window"}, cfg.UI.BrowserArgs)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	home := isolate(t)
	envFile := writeFile(t, home, ".env", "GRIMOIRE_UI_DEFAULT_ROUTE=/spells\n")
	t.Cleanup(func() { os.Unsetenv("GRIMOIRE_UI_DEFAULT_ROUTE") })

	cfg, err := LoadConfig(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	require.Equal(t, "/spells", cfg.UI.DefaultRoute)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	home := isolate(t)
	_, err := LoadConfig(LoadOptions{
		ConfigFile: filepath.Join(home, "nope.yaml"),
		EnvFile:    filepath.Join(home, "missing.env"),
	})
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = " " }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative max age", func(c *Config) { c.Cache.MaxAge = -time.Second }},
		{"zero item stale time", func(c *Config) { c.Cache.ItemStaleTime = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"relative route", func(c *Config) { c.UI.DefaultRoute = "spells" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestSetupLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "grimoire.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)
	logger.Debug("hello", "key", "value")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"app":"grimoire"`)
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "WARN", parseLogLevel("Warning").String())
	require.Equal(t, "INFO", parseLogLevel("nonsense").String())
}
