// Package config loads the zebra configuration from an optional file, a
// .env file and ZEBRA_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/banachtech/zebra-engine/api"
	"github.com/banachtech/zebra-engine/logging"
	"github.com/banachtech/zebra-engine/pricer"
)

// EnvPrefix prefixes every environment override, e.g. ZEBRA_ENGINE_PATHS.
const EnvPrefix = "ZEBRA"

// Config is the whole configuration.
type Config struct {
	Log    logging.Config  `mapstructure:"log"`
	Engine pricer.Settings `mapstructure:"engine"`
	Server api.Config      `mapstructure:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    logging.Config{Level: "info", Format: "text", MaxSize: 100, MaxBackups: 3, MaxAge: 28},
		Engine: pricer.DefaultSettings(),
		Server: api.DefaultConfig(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("engine.paths", d.Engine.Paths)
	v.SetDefault("engine.steps", d.Engine.Steps)
	v.SetDefault("engine.exotic_steps", d.Engine.ExoticSteps)
	v.SetDefault("engine.tree_steps", d.Engine.TreeSteps)
	v.SetDefault("engine.workers", d.Engine.Workers)
	v.SetDefault("engine.iv.guess", d.Engine.IV.Guess)
	v.SetDefault("engine.iv.tolerance", d.Engine.IV.Tolerance)
	v.SetDefault("engine.iv.max_iterations", d.Engine.IV.MaxIterations)

	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.max_grid_cells", d.Server.MaxGridCells)
	v.SetDefault("server.timeout", d.Server.Timeout)
}

// Load reads path (YAML, TOML or JSON by extension) when it is not empty,
// then envFile when it exists, then the environment.
func Load(path, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config error: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config error: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the struct tags of every section.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
