package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env"       env:"APP_ENV"   env-default:"dev"`
	HttpPort string `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	// RootDir is where VERSION and .git are looked up.
	RootDir string `yaml:"root_dir" env:"APP_ROOT" env-default:"."`

	DescribeTimeout time.Duration `yaml:"describe_timeout" env:"VERSION_DESCRIBE_TIMEOUT" env-default:"5s"`
	GitBinary       string        `yaml:"git_binary"       env:"VERSION_GIT_BINARY"       env-default:"git"`

	DBDriver string `yaml:"db_driver" env:"DB_DRIVER"    env-default:"sqlite"` // sqlite|postgres
	DBPath   string `yaml:"db_path"   env:"DB_PATH"      env-default:"data/dashboard.db"`
	DBDsn    string `yaml:"db_dsn"    env:"DATABASE_URL"` // falls back to DB_DSN

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogJSON  bool   `yaml:"log_json"  env:"LOG_JSON"  env-default:"true"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads CONFIG_PATH (if set) and then the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DBDsn == "" {
		cfg.DBDsn = os.Getenv("DB_DSN")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case "sqlite":
	case "postgres", "postgresql":
		if c.DBDsn == "" {
			return fmt.Errorf("config: DB_DRIVER=%s requires DATABASE_URL or DB_DSN", c.DBDriver)
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DescribeTimeout < 0 {
		return fmt.Errorf("config: VERSION_DESCRIBE_TIMEOUT must not be negative")
	}
	return nil
}
