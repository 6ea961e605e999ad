package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/config"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/roster"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/store"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/store/postgres"
	redisstore "github.com/g-99215544-beep/JuaraTolakSKSA/internal/store/redis"
)

// backend holds the opened score store and roster for one command.
type backend struct {
	Scores *leaderboard.Service
	Roster roster.Directory
	// Redis is set when either the store or the roster uses Redis.
	Redis *redis.Client

	closers []func() error
}

// Close releases every connection the backend opened.
func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackend connects the configured score store and roster source.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}

	if cfg.Store.Backend == config.BackendRedis || cfg.Roster.Source == config.RosterRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		b.Redis = client
		b.closers = append(b.closers, client.Close)
	}

	scores, err := b.openScores(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Scores = leaderboard.NewService(scores, logger)

	dir, err := b.openRoster(cfg, logger)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Roster = dir

	logger.Info("backend ready",
		"store", cfg.Store.Backend,
		"roster", cfg.Roster.Source)
	return b, nil
}

func (b *backend) openScores(ctx context.Context, cfg *config.Config) (leaderboard.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return leaderboard.NewMemoryStore(), nil

	case config.BackendRedis:
		return redisstore.NewScoreStore(b.Redis, cfg.Redis.Prefix), nil

	case config.BackendPostgres:
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN,
			MaxConns: int32(cfg.Postgres.MaxConns),
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		b.closers = append(b.closers, pg.Close)
		return pg, nil

	default:
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		b.closers = append(b.closers, st.Close)
		return st.ScoreRepo(), nil
	}
}

func (b *backend) openRoster(cfg *config.Config, logger *slog.Logger) (roster.Directory, error) {
	path, err := resolveRosterPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve roster path: %w", err)
	}
	file := roster.NewFileDirectory(path)
	if cfg.Roster.Source != config.RosterRedis {
		return file, nil
	}
	// The file seeds the shared hash the first time a station asks for it.
	return roster.NewRedisDirectory(b.Redis, cfg.Roster.RedisKey, file, cfg.Roster.CacheTTL, logger), nil
}

// resolveDBPath returns the configured SQLite path, or the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// resolveRosterPath returns the configured roster file, or roster.yaml in
// the data directory.
func resolveRosterPath(cfg *config.Config) (string, error) {
	if cfg.Roster.Path != "" {
		return cfg.Roster.Path, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "roster.yaml"), nil
}
