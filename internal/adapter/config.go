package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. GRIMOIRE_API_BASE_URL
const EnvPrefix = "GRIMOIRE"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Auth    AuthConfig    `mapstructure:"auth"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the remote API settings
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds query-cache and persistence settings
type CacheConfig struct {
	Dir                 string        `mapstructure:"dir"` // Empty = memory only
	MaxAge              time.Duration `mapstructure:"max_age"`
	CollectionStaleTime time.Duration `mapstructure:"collection_stale_time"`
	ItemStaleTime       time.Duration `mapstructure:"item_stale_time"`
	Buster              string        `mapstructure:"buster"`
}

// AuthConfig holds credential settings
type AuthConfig struct {
	UsersFile string `mapstructure:"users_file"` // Empty = built-in demo users
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultRoute string   `mapstructure:"default_route"`
	Browser      string   `mapstructure:"browser"`      // Empty = auto-detect
	BrowserArgs  []string `mapstructure:"browser_args"` // Extra arguments before the URL
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// LoadOptions points Load at explicit files. Zero values use the defaults.
type LoadOptions struct {
	ConfigFile string // Explicit config.yaml; otherwise searched in ConfigDir() and "."
	EnvFile    string // Defaults to ".env" in the working directory
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://wizard-world-api.herokuapp.com",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Dir:                 defaultCachePath(),
			MaxAge:              24 * time.Hour,
			CollectionStaleTime: 5 * time.Minute,
			ItemStaleTime:       10 * time.Minute,
			Buster:              "",
		},
		UI: UIConfig{
			DefaultRoute: "/",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "grimoire", "grimoire.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "grimoire", "grimoire.log")
	}
}

// ConfigDir returns the default config directory for the current OS
func ConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "grimoire")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "grimoire")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "grimoire", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "grimoire", "cache")
	}
}

// LoadConfig loads configuration from defaults, config file, .env and the
// environment, in increasing order of precedence.
func LoadConfig(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// .env never overrides variables already set in the process
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading env file: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Cache.Dir = ExpandHome(cfg.Cache.Dir)
	cfg.Auth.UsersFile = ExpandHome(cfg.Auth.UsersFile)
	cfg.Logging.File = ExpandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)

	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.max_age", cfg.Cache.MaxAge)
	v.SetDefault("cache.collection_stale_time", cfg.Cache.CollectionStaleTime)
	v.SetDefault("cache.item_stale_time", cfg.Cache.ItemStaleTime)
	v.SetDefault("cache.buster", cfg.Cache.Buster)

	v.SetDefault("auth.users_file", cfg.Auth.UsersFile)

	v.SetDefault("ui.default_route", cfg.UI.DefaultRoute)
	v.SetDefault("ui.browser", cfg.UI.Browser)
	v.SetDefault("ui.browser_args", cfg.UI.BrowserArgs)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate rejects settings the rest of the program cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must be set")
	}
	durations := []struct {
		key string
		val time.Duration
	}{
		{"api.timeout", c.API.Timeout},
		{"cache.max_age", c.Cache.MaxAge},
		{"cache.collection_stale_time", c.Cache.CollectionStaleTime},
		{"cache.item_stale_time", c.Cache.ItemStaleTime},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.val)
		}
	}
	if _, ok := levelNames[strings.ToUpper(c.Logging.Level)]; !ok {
		return fmt.Errorf("logging.level %q is not one of DEBUG, INFO, WARN, ERROR", c.Logging.Level)
	}
	if !strings.HasPrefix(c.UI.DefaultRoute, "/") {
		return fmt.Errorf("ui.default_route %q must start with /", c.UI.DefaultRoute)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
