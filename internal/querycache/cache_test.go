package querycache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGetOrFetch_CachesValue(t *testing.T) {
	c := New(testLogger())
	key := ListKey("staff")

	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	}

	got, err := GetOrFetch(context.Background(), c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = GetOrFetch(context.Background(), c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	// Второй вызов обслужен из кеша
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrFetch_ConcurrentCallsShareOneFetch(t *testing.T) {
	c := New(testLogger())
	key := ListKey("schedule")

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const workers = 25
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = GetOrFetch(context.Background(), c, key, fetch)
		}(i)
	}

	close(release)
	wg.Wait()

	// Ровно один сетевой вызов на все конкурентные запросы одного ключа
	assert.Equal(t, int32(1), calls.Load())
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, "value", results[i])
	}
}

func TestInvalidate_IsIdempotent(t *testing.T) {
	c := New(testLogger())
	key := ListKey("pricing")

	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	_, err := GetOrFetch(context.Background(), c, key, fetch)
	require.NoError(t, err)

	c.Invalidate(key)
	c.Invalidate(key) // повторная инвалидация эквивалентна однократной

	_, err = GetOrFetch(context.Background(), c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateLists_MarksWholeListKeyspace(t *testing.T) {
	c := New(testLogger())
	plain := ListKey("staff")
	filtered := ListKey("staff", "role=trainer")
	detail := DetailKey("staff", "id1")
	other := ListKey("clients")

	for _, k := range []Key{plain, filtered, detail, other} {
		c.Seed(k, "v")
	}

	c.InvalidateLists("staff")

	_, ok := c.lookup(plain)
	assert.False(t, ok)
	_, ok = c.lookup(filtered)
	assert.False(t, ok)
	// Карточки и чужие ресурсы не трогаем
	_, ok = c.lookup(detail)
	assert.True(t, ok)
	_, ok = c.lookup(other)
	assert.True(t, ok)
}

func TestInvalidateLists_DuringInFlightFetchIsNotLost(t *testing.T) {
	c := New(testLogger())
	key := ListKey("staff")

	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return "before mutation", nil
		}
		return "after mutation", nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := GetOrFetch(context.Background(), c, key, fetch)
		assert.NoError(t, err)
		assert.Equal(t, "before mutation", got)
	}()

	// Инвалидация приходит, пока fetch ещё в полёте
	<-entered
	c.InvalidateLists("staff")
	close(release)
	<-done

	// Результат устаревшего полёта не должен был осесть в кеше
	got, err := GetOrFetch(context.Background(), c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "after mutation", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSeed_DuringInFlightFetchWins(t *testing.T) {
	c := New(testLogger())
	key := DetailKey("staff", "id1")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := GetOrFetch(context.Background(), c, key, func(context.Context) (string, error) {
			close(entered)
			<-release
			return "stale read", nil
		})
		assert.NoError(t, err)
	}()

	<-entered
	c.Seed(key, "updated")
	close(release)
	<-done

	// Засеянная мутацией карточка не затирается завершившимся полётом
	got, err := GetOrFetch(context.Background(), c, key, func(context.Context) (string, error) {
		t.Fatal("fetch must not be called for seeded key")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", got)
}

func TestGetOrFetch_ErrorIsNotCached(t *testing.T) {
	c := New(testLogger())
	key := DetailKey("staff", "id1")

	var calls atomic.Int32
	failing := errors.New("backend down")
	fetch := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", failing
		}
		return "ok", nil
	}

	_, err := GetOrFetch(context.Background(), c, key, fetch)
	require.ErrorIs(t, err, failing)

	got, err := GetOrFetch(context.Background(), c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSeed_ServesWithoutFetch(t *testing.T) {
	c := New(testLogger())
	key := DetailKey("pricing", "p1")
	c.Seed(key, "seeded")

	got, err := GetOrFetch(context.Background(), c, key, func(context.Context) (string, error) {
		t.Fatal("fetch must not be called for seeded key")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "seeded", got)
}
