// Package leaderboardtest holds the behaviour every leaderboard.Store
// backend must share.
package leaderboardtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) leaderboard.Store

var base = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func rec(class, name string, score int, offset time.Duration) leaderboard.Record {
	return leaderboard.Record{
		Name:      name,
		ClassName: class,
		Score:     score,
		Timestamp: base.Add(offset),
	}.Normalize()
}

// Run exercises the Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreatesNewRecord", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.Save(ctx, rec("4 Amanah", "Ali", 40, 0))
		require.NoError(t, err)
		assert.True(t, saved)

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "4 AMANAH_ALI", got[0].ID)
		assert.Equal(t, "ALI", got[0].Name)
		assert.Equal(t, "4 AMANAH", got[0].ClassName)
		assert.Equal(t, 40, got[0].Score)
		assert.True(t, base.Equal(got[0].Timestamp), "timestamp %v", got[0].Timestamp)
	})

	t.Run("OnlyHigherScoreReplaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Save(ctx, rec("5B", "SITI", 50, 0))
		require.NoError(t, err)

		saved, err := s.Save(ctx, rec("5B", "SITI", 30, time.Minute))
		require.NoError(t, err)
		assert.False(t, saved)

		saved, err = s.Save(ctx, rec("5B", "SITI", 50, 2*time.Minute))
		require.NoError(t, err)
		assert.False(t, saved, "equal score must not replace")

		saved, err = s.Save(ctx, rec("5B", "SITI", 65, 3*time.Minute))
		require.NoError(t, err)
		assert.True(t, saved)

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 65, got[0].Score)
		assert.True(t, base.Add(3*time.Minute).Equal(got[0].Timestamp))
	})

	t.Run("KeysSeparateClasses", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, r := range []leaderboard.Record{
			rec("1A", "ADAM", 10, 0),
			rec("1B", "ADAM", 20, 0),
			rec("1A", "HAWA", 30, 0),
		} {
			_, err := s.Save(ctx, r)
			require.NoError(t, err)
		}

		got, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("Clear", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Save(ctx, rec("2C", "MEI LING", 25, 0))
		require.NoError(t, err)
		require.NoError(t, s.Clear(ctx))

		got, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		// Clearing an empty store is fine.
		require.NoError(t, s.Clear(ctx))
	})
}
