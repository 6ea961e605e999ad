package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"JUARA_GAME_DURATION", "JUARA_QUESTION_LIMIT", "JUARA_STARTING_LIVES", "JUARA_SOUND",
		"JUARA_STORE", "JUARA_DB", "JUARA_REDIS_ADDR", "JUARA_REDIS_PASSWORD", "JUARA_REDIS_DB",
		"JUARA_POSTGRES_DSN", "JUARA_ROSTER_SOURCE", "JUARA_ROSTER_PATH",
		"JUARA_SERVER_HOST", "JUARA_SERVER_PORT", "JUARA_ALLOWED_ORIGINS", "JUARA_LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, session.DefaultConfig(), cfg.Session())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "juara.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
game:
  duration: 90s
  starting_lives: 3
  combo_bonus: 25
store:
  backend: redis
redis:
  addr: cache:6379
roster:
  source: redis
server:
  port: 9000
  allowed_origins: [https://sekolah.example]
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Game.Duration)
	assert.Equal(t, 3, cfg.Game.StartingLives)
	assert.Equal(t, 10*time.Second, cfg.Game.QuestionLimit, "unset keys keep defaults")
	assert.Equal(t, 25, cfg.Session().Scoring.ComboBonus)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, RosterRedis, cfg.Roster.Source)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://sekolah.example"}, cfg.Server.AllowedOrigins)

	level, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "juara.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  duration: 90s\n"), 0o644))
	t.Setenv("JUARA_GAME_DURATION", "45s")
	t.Setenv("JUARA_STORE", "postgres")
	t.Setenv("JUARA_POSTGRES_DSN", "postgres://u:p@db/juara")
	t.Setenv("JUARA_SERVER_PORT", "not-a-number")
	t.Setenv("JUARA_ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Game.Duration)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 8080, cfg.Server.Port, "malformed values fall back")
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
}

func TestLoad_DefaultPathFile(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "juaratolak"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "juaratolak", "config.yaml"), []byte("store:\n  backend: memory\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("game: [oops"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Store.Backend = BackendPostgres }},
		{"redis without addr", func(c *Config) { c.Store.Backend = BackendRedis; c.Redis.Addr = "" }},
		{"unknown roster", func(c *Config) { c.Roster.Source = "ldap" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"negative lives", func(c *Config) { c.Game.StartingLives = -1 }},
		{"zero duration", func(c *Config) { c.Game.Duration = 0 }},
	}
	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
