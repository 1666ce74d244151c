// Package config loads classifier settings from a YAML/TOML/JSON file and
// CLASSIFIER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"static-flow-classifier/internal/location"
)

type Config struct {
	Log       Log       `mapstructure:"log"`
	Locations Locations `mapstructure:"locations"`
	Workers   int       `mapstructure:"workers"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Locations configures the switch port directory. With a DSN the directory
// is read from SQL, otherwise the static entries are used. CacheTTL bounds
// how long a SQL lookup is reused; zero disables caching.
type Locations struct {
	Driver   string           `mapstructure:"driver"`
	DSN      string           `mapstructure:"dsn"`
	Table    string           `mapstructure:"table"`
	CacheTTL time.Duration    `mapstructure:"cache_ttl"`
	Static   []location.Entry `mapstructure:"static"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "INFO")
	v.SetDefault("locations.driver", "mysql")
	v.SetDefault("locations.table", location.DefaultTable)
	v.SetDefault("locations.cache_ttl", 5*time.Minute)
	v.SetDefault("workers", runtime.NumCPU())
}

// Load reads path, if given, on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("classifier")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	for i, e := range c.Locations.Static {
		if e.Name == "" {
			return fmt.Errorf("locations.static[%d]: empty name", i)
		}
	}
	return nil
}

// OpenDirectory builds the configured location directory. The returned
// close function releases any database handle.
func (c *Config) OpenDirectory() (location.Directory, func(), error) {
	if c.Locations.DSN == "" {
		return location.NewStatic(c.Locations.Static), func() {}, nil
	}
	d, err := location.NewSQLDirectory(c.Locations.Driver, c.Locations.DSN, c.Locations.Table, c.Locations.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("open location directory: %w", err)
	}
	return d, d.Close, nil
}
