// Package redis stores best scores in Redis: one hash per player plus a
// sorted-set index ordered by score.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
)

// DefaultPrefix namespaces every key written by ScoreStore.
const DefaultPrefix = "juara:tolak"

// maxSaveRetries bounds optimistic-lock retries when two saves race on
// the same player.
const maxSaveRetries = 5

var errNotHigher = errors.New("stored score is not lower")

// ScoreStore implements leaderboard.Store on Redis.
type ScoreStore struct {
	client *redis.Client
	prefix string
}

// NewScoreStore creates a ScoreStore. An empty prefix uses DefaultPrefix.
func NewScoreStore(client *redis.Client, prefix string) *ScoreStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ScoreStore{client: client, prefix: prefix}
}

func (s *ScoreStore) Save(ctx context.Context, rec leaderboard.Record) (bool, error) {
	key := s.recordKey(rec.ID)

	write := func(tx *redis.Tx) error {
		cur, err := tx.HGet(ctx, key, "score").Int()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		case rec.Score <= cur:
			return errNotHigher
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				"id", rec.ID,
				"name", rec.Name,
				"class_name", rec.ClassName,
				"score", rec.Score,
				"recorded_at", rec.Timestamp.UnixMilli(),
			)
			pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(rec.Score), Member: rec.ID})
			return nil
		})
		return err
	}

	for i := 0; i < maxSaveRetries; i++ {
		err := s.client.Watch(ctx, write, key)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, errNotHigher):
			return false, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return false, fmt.Errorf("save score %s: %w", rec.ID, err)
		}
	}
	return false, fmt.Errorf("save score %s: %w", rec.ID, redis.TxFailedErr)
}

func (s *ScoreStore) List(ctx context.Context) ([]leaderboard.Record, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read score index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.recordKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}

	out := make([]leaderboard.Record, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Index entry outlived its hash.
			continue
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("parse score %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *ScoreStore) Clear(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read score index: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.recordKey(id))
	}
	keys = append(keys, s.indexKey())
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}

func (s *ScoreStore) recordKey(id string) string {
	return s.prefix + ":score:" + id
}

func (s *ScoreStore) indexKey() string {
	return s.prefix + ":scores"
}

func parseRecord(fields map[string]string) (leaderboard.Record, error) {
	score, err := strconv.Atoi(fields["score"])
	if err != nil {
		return leaderboard.Record{}, fmt.Errorf("score: %w", err)
	}
	ms, err := strconv.ParseInt(fields["recorded_at"], 10, 64)
	if err != nil {
		return leaderboard.Record{}, fmt.Errorf("recorded_at: %w", err)
	}
	return leaderboard.Record{
		ID:        fields["id"],
		Name:      fields["name"],
		ClassName: fields["class_name"],
		Score:     score,
		Timestamp: time.UnixMilli(ms).UTC(),
	}, nil
}
