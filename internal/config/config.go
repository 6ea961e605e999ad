// Package config loads game and deployment settings from an optional YAML
// file and JUARA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/scoring"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/timer"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Roster sources.
const (
	RosterFile  = "file"
	RosterRedis = "redis"
)

// Config holds all configuration for the game and the score server.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Roster   RosterConfig   `yaml:"roster"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// GameConfig holds the session tunables.
type GameConfig struct {
	Duration       time.Duration `yaml:"duration"`
	QuestionLimit  time.Duration `yaml:"question_limit"`
	StartingLives  int           `yaml:"starting_lives"`
	LowTime        int           `yaml:"low_time"`
	BasePoints     int           `yaml:"base_points"`
	SpeedBonus     int           `yaml:"speed_bonus"`
	SpeedThreshold time.Duration `yaml:"speed_threshold"`
	ComboEvery     int           `yaml:"combo_every"`
	ComboBonus     int           `yaml:"combo_bonus"`
	Sound          bool          `yaml:"sound"`
}

// StoreConfig selects the score backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is the SQLite file; empty resolves the default data path.
	Path string `yaml:"path"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"max_conns"`
}

// RosterConfig selects where class lists come from.
type RosterConfig struct {
	Source   string        `yaml:"source"`
	Path     string        `yaml:"path"`
	RedisKey string        `yaml:"redis_key"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	sc := session.DefaultConfig()
	return &Config{
		Game: GameConfig{
			Duration:       sc.GameDuration,
			QuestionLimit:  sc.QuestionLimit,
			StartingLives:  sc.StartingLives,
			LowTime:        timer.DefaultLowTime,
			BasePoints:     sc.Scoring.BasePoints,
			SpeedBonus:     sc.Scoring.SpeedBonus,
			SpeedThreshold: sc.Scoring.SpeedThreshold,
			ComboEvery:     sc.Scoring.ComboEvery,
			ComboBonus:     sc.Scoring.ComboBonus,
			Sound:          true,
		},
		Store:    StoreConfig{Backend: BackendSQLite},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "juara:tolak"},
		Postgres: PostgresConfig{MaxConns: 10},
		Roster:   RosterConfig{Source: RosterFile, RedisKey: "juara:classes", CacheTTL: 10 * time.Minute},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 15 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/juaratolak/config.yaml or the
// ~/.config equivalent.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "juaratolak", "config.yaml")
}

// Load reads path (if set), applies environment overrides and validates.
// A missing file at the default path is not an error; a missing file the
// caller named explicitly is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	g := &c.Game
	g.Duration = getEnvAsDuration("JUARA_GAME_DURATION", g.Duration)
	g.QuestionLimit = getEnvAsDuration("JUARA_QUESTION_LIMIT", g.QuestionLimit)
	g.StartingLives = getEnvAsInt("JUARA_STARTING_LIVES", g.StartingLives)
	g.Sound = getEnvAsBool("JUARA_SOUND", g.Sound)

	c.Store.Backend = getEnv("JUARA_STORE", c.Store.Backend)
	c.Store.Path = getEnv("JUARA_DB", c.Store.Path)

	c.Redis.Addr = getEnv("JUARA_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("JUARA_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("JUARA_REDIS_DB", c.Redis.DB)

	c.Postgres.DSN = getEnv("JUARA_POSTGRES_DSN", c.Postgres.DSN)

	c.Roster.Source = getEnv("JUARA_ROSTER_SOURCE", c.Roster.Source)
	c.Roster.Path = getEnv("JUARA_ROSTER_PATH", c.Roster.Path)

	c.Server.Host = getEnv("JUARA_SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("JUARA_SERVER_PORT", c.Server.Port)
	if origins := getEnv("JUARA_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	c.Log.Level = getEnv("JUARA_LOG_LEVEL", c.Log.Level)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Session().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	switch c.Store.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis address is required for the redis store")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Roster.Source {
	case RosterFile, RosterRedis:
	default:
		return fmt.Errorf("unknown roster source %q", c.Roster.Source)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Session maps the game settings onto an engine config.
func (c *Config) Session() session.Config {
	sc := session.DefaultConfig()
	sc.GameDuration = c.Game.Duration
	sc.QuestionLimit = c.Game.QuestionLimit
	sc.StartingLives = c.Game.StartingLives
	sc.LowTime = c.Game.LowTime
	sc.Scoring = scoring.Config{
		BasePoints:     c.Game.BasePoints,
		SpeedBonus:     c.Game.SpeedBonus,
		SpeedThreshold: c.Game.SpeedThreshold,
		ComboEvery:     c.Game.ComboEvery,
		ComboBonus:     c.Game.ComboBonus,
	}
	return sc
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
