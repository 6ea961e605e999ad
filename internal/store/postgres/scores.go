// Package postgres stores best scores in PostgreSQL for shared school
// deployments.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/store"
)

//go:embed schema.sql
var schema string

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
}

// ScoreStore implements leaderboard.Store on PostgreSQL.
type ScoreStore struct {
	pool    *pgxpool.Pool
	queries store.ScoreQueries
}

// New connects, pings and creates the schema.
func New(ctx context.Context, cfg Config) (*ScoreStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &ScoreStore{pool: pool, queries: store.NewScoreQueries(dialect.Postgres)}, nil
}

// Ping checks database connectivity.
func (s *ScoreStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *ScoreStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *ScoreStore) Save(ctx context.Context, rec leaderboard.Record) (bool, error) {
	query, args := s.queries.Upsert(rec)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("upsert score: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ScoreStore) List(ctx context.Context) ([]leaderboard.Record, error) {
	query, args := s.queries.List()
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []leaderboard.Record
	for rows.Next() {
		rec, err := store.ScanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

func (s *ScoreStore) Clear(ctx context.Context) error {
	query, args := s.queries.Clear()
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}
