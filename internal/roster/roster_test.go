package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize(map[string][]string{
		" 4 amanah ": {"siti", " Ali ", "", "ALI"},
		"4 Amanah":   {"Zul"},
		"  ":         {"ghost"},
		"5 bestari":  nil,
	})

	assert.Equal(t, Classes{
		"4 AMANAH":  {"ALI", "SITI", "ZUL"},
		"5 BESTARI": nil,
	}, got)
	assert.Equal(t, []string{"4 AMANAH", "5 BESTARI"}, got.Names())
}

func TestStudents(t *testing.T) {
	c := Normalize(map[string][]string{"1A": {"B", "A"}})

	names, err := c.Students("1a")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	_, err = c.Students("9Z")
	assert.ErrorIs(t, err, ErrClassNotFound)
	assert.False(t, c.Empty())
	assert.True(t, Classes{}.Empty())
}

func TestFileDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
classes:
  4 amanah: [siti, ali]
  4 bestari:
    - chong wei
`), 0o644))

	got, err := NewFileDirectory(path).LoadClasses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Classes{
		"4 AMANAH":  {"ALI", "SITI"},
		"4 BESTARI": {"CHONG WEI"},
	}, got)
}

func TestFileDirectory_Missing(t *testing.T) {
	got, err := NewFileDirectory(filepath.Join(t.TempDir(), "none.yaml")).LoadClasses(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestFileDirectory_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classes: [1, 2"), 0o644))

	_, err := NewFileDirectory(path).LoadClasses(context.Background())
	assert.ErrorContains(t, err, "parse roster")
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	in := Classes{"2B": {"AMIR", "BEN"}}
	data, err := MarshalYAML(in)
	require.NoError(t, err)
	out, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

type countingDirectory struct {
	calls   atomic.Int32
	classes Classes
	err     error
	delay   time.Duration
}

func (d *countingDirectory) LoadClasses(context.Context) (Classes, error) {
	d.calls.Add(1)
	time.Sleep(d.delay)
	return d.classes, d.err
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisDirectory_FillsFromFallback(t *testing.T) {
	mr, client := newRedis(t)
	fallback := &countingDirectory{classes: Classes{"3C": {"AINA", "BALA"}}}
	d := NewRedisDirectory(client, "", fallback, time.Hour, nil)
	ctx := context.Background()

	got, err := d.LoadClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, fallback.classes, got)
	assert.True(t, mr.Exists(DefaultRedisKey))
	assert.Equal(t, `["AINA","BALA"]`, mr.HGet(DefaultRedisKey, "3C"))
	ttl := mr.TTL(DefaultRedisKey)
	assert.GreaterOrEqual(t, ttl, time.Hour)

	got, err = d.LoadClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, fallback.classes, got)
	assert.EqualValues(t, 1, fallback.calls.Load())
}

func TestRedisDirectory_CollapsesConcurrentMisses(t *testing.T) {
	_, client := newRedis(t)
	fallback := &countingDirectory{classes: Classes{"1A": {"X"}}, delay: 50 * time.Millisecond}
	d := NewRedisDirectory(client, "roster", fallback, 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := d.LoadClasses(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, Classes{"1A": {"X"}}, got)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, fallback.calls.Load())
}

func TestRedisDirectory_StoreReplaces(t *testing.T) {
	mr, client := newRedis(t)
	d := NewRedisDirectory(client, "", nil, 0, nil)
	ctx := context.Background()

	require.NoError(t, d.Store(ctx, Classes{"OLD": {"A"}}))
	require.NoError(t, d.Store(ctx, Classes{"NEW": {"B"}}))
	assert.Equal(t, "", mr.HGet(DefaultRedisKey, "OLD"))

	got, err := d.LoadClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, Classes{"NEW": {"B"}}, got)
}

func TestRedisDirectory_NoFallback(t *testing.T) {
	_, client := newRedis(t)
	got, err := NewRedisDirectory(client, "", nil, 0, nil).LoadClasses(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestRedisDirectory_FallbackError(t *testing.T) {
	_, client := newRedis(t)
	boom := errors.New("boom")
	d := NewRedisDirectory(client, "", &countingDirectory{err: boom}, 0, nil)
	_, err := d.LoadClasses(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRedisDirectory_CorruptHash(t *testing.T) {
	mr, client := newRedis(t)
	mr.HSet(DefaultRedisKey, "1A", "not json")
	_, err := NewRedisDirectory(client, "", nil, 0, nil).LoadClasses(context.Background())
	assert.ErrorContains(t, err, "decode class 1A")
}
