// Package config loads roomviz configuration from a TOML file with
// environment-variable overrides.
//
// Resolution order, later wins:
//  1. Built-in defaults
//  2. The TOML config file (--config flag, ROOMVIZ_CONFIG, or the default
//     XDG path)
//  3. ROOMVIZ_* environment variables
//
// A .env file in the working directory is loaded first when present, so
// local development can keep overrides out of the shell profile.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

const appName = "roomviz"

// Config is the full roomviz configuration.
type Config struct {
	Server    Server    `toml:"server"`
	Generator Generator `toml:"generator"`
	Assets    Assets    `toml:"assets"`
	Store     StoreCfg  `toml:"store"`
}

// Server configures the HTTP API.
type Server struct {
	Listen string `toml:"listen"`
}

// Generator configures the floor generation backend.
type Generator struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
	// RatePerSec throttles generation requests; 0 disables the limiter.
	RatePerSec float64 `toml:"rate_per_sec"`
}

// Assets configures where product samples and branding assets live.
// Base may be a local directory or an http(s) URL.
type Assets struct {
	Base     string `toml:"base"`
	Catalog  string `toml:"catalog"`
	LogoPath string `toml:"logo_path"`
}

// StoreCfg configures the durable artifact store.
type StoreCfg struct {
	// Backend is "file", "redis", or "none".
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// duration wraps time.Duration for TOML string parsing ("30s", "2m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns the built-in defaults. The data directory follows the
// XDG convention.
func Default() Config {
	return Config{
		Server: Server{Listen: ":8321"},
		Generator: Generator{
			BaseURL:    "http://localhost:8000",
			Timeout:    duration{120 * time.Second},
			RatePerSec: 0,
		},
		Assets: Assets{
			Base:     "assets",
			Catalog:  "assets/products.csv",
			LogoPath: "branding/logo",
		},
		Store: StoreCfg{
			Backend: "file",
			Dir:     defaultDataDir(),
		},
	}
}

// Load builds the configuration. path selects the TOML file explicitly; an
// empty path falls back to ROOMVIZ_CONFIG and then the default location,
// where a missing file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("ROOMVIZ_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigPath()
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := errors.ValidateURL(c.Generator.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "generator base URL")
	}
	switch c.Store.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown store backend %q (want file, redis, or none)", c.Store.Backend)
	}
	if c.Store.Backend == "redis" && c.Store.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store backend redis requires redis_addr")
	}
	return nil
}

// applyEnv overrides config fields from ROOMVIZ_* variables.
func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("ROOMVIZ_LISTEN", &cfg.Server.Listen)
	setString("ROOMVIZ_GENERATOR_URL", &cfg.Generator.BaseURL)
	setString("ROOMVIZ_ASSETS_BASE", &cfg.Assets.Base)
	setString("ROOMVIZ_CATALOG", &cfg.Assets.Catalog)
	setString("ROOMVIZ_LOGO_PATH", &cfg.Assets.LogoPath)
	setString("ROOMVIZ_STORE_BACKEND", &cfg.Store.Backend)
	setString("ROOMVIZ_STORE_DIR", &cfg.Store.Dir)
	setString("ROOMVIZ_REDIS_ADDR", &cfg.Store.RedisAddr)

	if v := os.Getenv("ROOMVIZ_GENERATOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generator.Timeout = duration{d}
		}
	}
	if v := os.Getenv("ROOMVIZ_GENERATOR_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Generator.RatePerSec = f
		}
	}
}

// GeneratorTimeout returns the configured generation timeout.
func (c Config) GeneratorTimeout() time.Duration {
	return c.Generator.Timeout.Duration
}

// defaultConfigPath returns the XDG config file path
// (~/.config/roomviz/config.toml).
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.toml")
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// defaultDataDir returns the XDG data directory (~/.local/share/roomviz).
func defaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName+"-data")
	}
	return filepath.Join(home, ".local", "share", appName)
}
