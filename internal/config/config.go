package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Limits  LimitsConfig
	Cache   CacheConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	DiagPort int
	MaxConns int
}

// Addr is the listen address of the web server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DiagAddr is the listen address of the diagnostics server, or "" when
// diagnostics are disabled.
func (s ServerConfig) DiagAddr() string {
	if s.DiagPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.Host, s.DiagPort)
}

type StorageConfig struct {
	Driver  string
	DataDir string
	DSN     string
}

type LogConfig struct {
	Level       string
	Development bool
}

type LimitsConfig struct {
	SubmitRPS   float64
	SubmitBurst int
}

type CacheConfig struct {
	QuestionTTL string
}

// QuestionTTLDuration parses Cache.QuestionTTL, falling back to ten minutes.
func (c CacheConfig) QuestionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.QuestionTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:     8092,
			DiagPort: 9092,
			MaxConns: 256,
		},
		Storage: StorageConfig{
			Driver:  "sqlite",
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Limits: LimitsConfig{
			SubmitRPS:   5,
			SubmitBurst: 20,
		},
		Cache: CacheConfig{
			QuestionTTL: "10m",
		},
	}
}

// Load reads configuration from the JSON config file, a .env file in the
// working directory and environment variables.
//
// The config file lives at $XDG_CONFIG_HOME/qaboard/config.json. Values in
// .env never override variables already set in the environment, and
// QABOARD_* environment variables override the config file.
func Load() (Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()
	return loadWith(newFileBackend(ConfigFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	switch cfg.Storage.Driver {
	case "sqlite":
	case "postgres":
		if cfg.Storage.DSN == "" {
			return Config{}, fmt.Errorf("missing required config: storage DSN for the postgres driver. " +
				"Set it via environment variable QABOARD_STORAGE_DSN")
		}
	default:
		return Config{}, fmt.Errorf("unsupported storage driver %q (want sqlite or postgres)", cfg.Storage.Driver)
	}

	return cfg, nil
}
