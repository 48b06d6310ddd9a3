package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/recall/internal/domain"
)

// EnvPrefix prefixes every environment variable read by Load.
// RECALL_DB_PATH sets db.path.
const EnvPrefix = "RECALL_"

const defaultConfigFile = "recall.yaml"

// Config is the application configuration.
type Config struct {
	DB      DBConfig      `koanf:"db"`
	Repos   ReposConfig   `koanf:"repos"`
	HTTP    HTTPConfig    `koanf:"http"`
	Log     LogConfig     `koanf:"log"`
	Learner LearnerConfig `koanf:"learner"`
	Session SessionConfig `koanf:"session"`
	Engine  EngineConfig  `koanf:"engine"`
}

type DBConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type ReposConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type LearnerConfig struct {
	AgeGroup string `koanf:"age_group" validate:"oneof=3-5 6-8 9+"`
}

type SessionConfig struct {
	Minutes int `koanf:"minutes" validate:"min=1,max=240"`
}

type EngineConfig struct {
	// Seed fixes the session shuffle. Zero seeds from the clock.
	Seed uint64 `koanf:"seed"`
}

// AgeGroup returns the configured learner age group.
func (c *Config) AgeGroup() domain.AgeGroup {
	g, _ := domain.ParseAgeGroup(c.Learner.AgeGroup) // validated by Load
	return g
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// RegisterFlags defines every configuration flag on flags. Flag defaults are
// the configuration defaults.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", defaultConfigFile, "Path to the YAML configuration file")
	flags.String("db.path", "recall.db", "Path to the SQLite database file")
	flags.String("repos.dir", "repos", "Directory git deck sources are cloned into")
	flags.String("http.addr", "127.0.0.1:8080", "Address the HTTP API listens on")
	flags.String("log.level", "info", "Log level: debug, info, warn or error")
	flags.String("learner.age_group", "9+", "Learner age group: 3-5, 6-8 or 9+")
	flags.Int("session.minutes", 10, "Default review session length in minutes")
	flags.Uint64("engine.seed", 0, "Seed for session shuffling (0 uses the clock)")
}

// Load builds the configuration from, in increasing priority: flag
// defaults, the YAML file, RECALL_* environment variables and flags set on
// the command line. flags must have been registered with RegisterFlags and
// parsed.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// The default file is optional; an explicitly named one is not.
		if !errors.Is(err, fs.ErrNotExist) || flags.Changed("config") {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("config: read flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// envKey maps RECALL_LEARNER_AGE_GROUP to learner.age_group: the first
// underscore after the prefix separates the section from the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}
