// Package config loads the skill configuration from defaults, an optional
// config file, a .env file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrConfiguration wraps every loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

const (
	DefaultAddress         = ":8080"
	DefaultLogLevel        = "debug"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultStoreDriver     = "memory"
	DefaultDatabasePath    = "characters.db"
	DefaultTimestampSkew   = 150 * time.Second
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Skill  SkillConfig  `mapstructure:"skill"`
}

type ServerConfig struct {
	Address         string          `mapstructure:"address"          validate:"required"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout" validate:"min=1s"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures the request token bucket. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"   validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error dpanic panic fatal"`
}

type StoreConfig struct {
	Driver       string `mapstructure:"driver"        validate:"oneof=memory sqlite"`
	DatasetPath  string `mapstructure:"dataset_path"`
	DatabasePath string `mapstructure:"database_path" validate:"required_if=Driver sqlite"`
	Watch        bool   `mapstructure:"watch"`
}

type SkillConfig struct {
	ApplicationIDs     []string      `mapstructure:"application_ids"`
	TimestampTolerance time.Duration `mapstructure:"timestamp_tolerance" validate:"gte=0"`
	MovieIntroSpeech   bool          `mapstructure:"movie_intro_speech"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"address":   "server.address",
	"log-level": "log.level",
	"database":  "store.database_path",
	"dataset":   "store.dataset_path",
	"driver":    "store.driver",
}

// envAliases keeps the historic variable names working next to SKILL_* ones.
var envAliases = map[string]string{
	"server.address":      "RUN_ADDR",
	"log.level":           "LOG_LEVEL",
	"store.database_path": "DATABASE_URI",
}

// RegisterFlags adds the flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to config file")
	fs.StringP("address", "a", DefaultAddress, "address and port")
	fs.StringP("log-level", "l", DefaultLogLevel, "log level")
	fs.StringP("database", "d", "", "SQLite database path")
	fs.String("dataset", "", "YAML character dataset path")
	fs.String("driver", DefaultStoreDriver, "character store driver (memory or sqlite)")
}

// Load builds the configuration. Precedence, highest first: flags set on fs,
// environment, config file, .env file, defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SKILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		if err := v.BindEnv(key, "SKILL_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias); err != nil {
			return nil, fmt.Errorf("%w: bind env %s: %v", ErrConfiguration, alias, err)
		}
	}

	configPath := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("%w: bind flag %s: %v", ErrConfiguration, name, err)
				}
			}
		}
	}

	if err := readConfigFile(v, configPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.rate_limit.rps", 0)
	v.SetDefault("server.rate_limit.burst", 10)

	v.SetDefault("log.level", DefaultLogLevel)

	v.SetDefault("store.driver", DefaultStoreDriver)
	v.SetDefault("store.dataset_path", "")
	v.SetDefault("store.database_path", DefaultDatabasePath)
	v.SetDefault("store.watch", false)

	v.SetDefault("skill.application_ids", []string{})
	v.SetDefault("skill.timestamp_tolerance", DefaultTimestampSkew)
	v.SetDefault("skill.movie_intro_speech", false)
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
