package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"userpass/internal/repository"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds the lookup settings aggregated from flags, env and config files.
type Config struct {
	Store struct {
		Driver         string
		DSN            string
		Table          string
		UsernameColumn string
		HashColumn     string
		Timeout        time.Duration
	}
	Log struct {
		Level string
	}
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"driver":    "store.driver",
	"dsn":       "store.dsn",
	"log-level": "log.level",
}

// Load reads configuration from flags, USERPASS_* environment variables, an
// optional .env file and a config file. An explicit path must exist; otherwise
// ./config.* is read when present.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("USERPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.dsn", "data/users.db")
	schema := repository.DefaultSchema()
	v.SetDefault("store.table", schema.Table)
	v.SetDefault("store.usernamecolumn", schema.UsernameColumn)
	v.SetDefault("store.hashcolumn", schema.HashColumn)
	v.SetDefault("store.timeout", 10*time.Second)
	v.SetDefault("log.level", "warn")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.DSN) == "" {
		return fmt.Errorf("store dsn is required")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.Store.Timeout)
	}
	return nil
}

// loadDotEnv exports variables from path without overriding the environment.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
