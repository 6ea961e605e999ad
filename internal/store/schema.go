package store

import (
	"context"

	"entgo.io/ent/dialect"
)

// ScoresTable holds one best-score row per class and name key.
const ScoresTable = "scores"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		class_name  TEXT NOT NULL,
		score       INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS scores_class_name ON scores (class_name)`,
}

func migrate(ctx context.Context, drv dialect.ExecQuerier) error {
	for _, stmt := range schema {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}
