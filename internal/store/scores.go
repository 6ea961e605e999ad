package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
)

// Score table columns.
const (
	ColumnID         = "id"
	ColumnName       = "name"
	ColumnClassName  = "class_name"
	ColumnScore      = "score"
	ColumnRecordedAt = "recorded_at"
)

// ScoreQueries builds the score statements for one SQL dialect. The
// Postgres store shares them.
type ScoreQueries struct {
	dialect string
}

// NewScoreQueries returns the builders for dialect (see entgo.io/ent/dialect).
func NewScoreQueries(dialect string) ScoreQueries {
	return ScoreQueries{dialect: dialect}
}

// Upsert inserts rec, or replaces the stored row only when rec scores
// strictly higher. One row is affected exactly when it wrote.
func (q ScoreQueries) Upsert(rec leaderboard.Record) (string, []any) {
	return entsql.Dialect(q.dialect).
		Insert(ScoresTable).
		Columns(ColumnID, ColumnName, ColumnClassName, ColumnScore, ColumnRecordedAt).
		Values(rec.ID, rec.Name, rec.ClassName, rec.Score, rec.Timestamp.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(ColumnID),
			entsql.ResolveWithNewValues(),
			entsql.UpdateWhere(entsql.ExprP("scores.score < excluded.score")),
		).
		Query()
}

// List selects every row, best first.
func (q ScoreQueries) List() (string, []any) {
	b := entsql.Dialect(q.dialect)
	t := b.Table(ScoresTable)
	return b.Select(
		t.C(ColumnID), t.C(ColumnName), t.C(ColumnClassName), t.C(ColumnScore), t.C(ColumnRecordedAt),
	).
		From(t).
		OrderBy(entsql.Desc(t.C(ColumnScore)), t.C(ColumnRecordedAt)).
		Query()
}

// Clear deletes every row.
func (q ScoreQueries) Clear() (string, []any) {
	return entsql.Dialect(q.dialect).Delete(ScoresTable).Query()
}

// RowScanner is satisfied by *sql.Rows, entsql.Rows and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanRecord reads one row selected by List.
func ScanRecord(row RowScanner) (leaderboard.Record, error) {
	var (
		rec leaderboard.Record
		ms  int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.ClassName, &rec.Score, &ms); err != nil {
		return rec, err
	}
	rec.Timestamp = time.UnixMilli(ms).UTC()
	return rec, nil
}

// scoreRepo implements leaderboard.Store on SQLite.
type scoreRepo struct {
	drv     *entsql.Driver
	queries ScoreQueries
}

func (r *scoreRepo) Save(ctx context.Context, rec leaderboard.Record) (bool, error) {
	query, args := r.queries.Upsert(rec)
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return false, fmt.Errorf("upsert score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *scoreRepo) List(ctx context.Context) ([]leaderboard.Record, error) {
	query, args := r.queries.List()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []leaderboard.Record
	for rows.Next() {
		rec, err := ScanRecord(&rows)
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

func (r *scoreRepo) Clear(ctx context.Context) error {
	query, args := r.queries.Clear()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}
