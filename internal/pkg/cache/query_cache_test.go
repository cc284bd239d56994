package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	c := New(time.Minute, "test", nil)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]int64, error) {
		calls++
		return []int64{1, 5}, nil
	}

	first, err := Fetch(ctx, c, KeyGames, load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, KeyGames, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	c.Invalidate(KeyGames)
	_, err = Fetch(ctx, c, KeyGames, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	m := c.GetMetrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(2), m.Misses)
	assert.Equal(t, int64(1), m.Invalidations)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := New(time.Minute, "test", nil)
	boom := errors.New("boom")
	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}

	_, err := Fetch(context.Background(), c, "k", load)
	assert.ErrorIs(t, err, boom)

	v, err := Fetch(context.Background(), c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, c.Size())
}

func TestFetch_CoalescesConcurrentMisses(t *testing.T) {
	c := New(time.Minute, "test", nil)
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, "answer", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFetch_StaleLoadDoesNotRepopulate(t *testing.T) {
	c := New(time.Minute, "test", nil)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, KeyGames, func(context.Context) ([]int64, error) {
			close(started)
			<-release
			return []int64{5}, nil
		})
	}()

	<-started
	c.Invalidate(KeyGames)
	close(release)
	<-done

	assert.Equal(t, 0, c.Size())
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute, "test", nil)
	ctx := context.Background()
	for _, key := range []string{ListKey(1), ListKey(2), KeyLists, UserListsKey(1)} {
		_, err := Fetch(ctx, c, key, func(context.Context) (bool, error) { return true, nil })
		require.NoError(t, err)
	}
	require.Equal(t, 4, c.Size())

	c.InvalidatePrefix(PrefixList)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestFetch_CancelledLeaderDoesNotFailFollowers(t *testing.T) {
	c := New(time.Minute, "test", nil)
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (string, error) {
		close(started)
		select {
		case <-release:
			return "catalog", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := Fetch(leaderCtx, c, KeyGames, load)
		leaderErr <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), c, KeyGames, func(context.Context) (string, error) {
			return "second load", nil
		})
		follower <- result{v, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "catalog", got.v)
	assert.Equal(t, 1, c.Size(), "the shared load still populates the cache")
}

func TestFetch_ClearStartsFreshFlight(t *testing.T) {
	c := New(time.Minute, "test", nil)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, KeyLists, func(context.Context) (string, error) {
			close(started)
			<-release
			return "private", nil
		})
	}()
	<-started
	c.Clear()

	v, err := Fetch(context.Background(), c, KeyLists, func(context.Context) (string, error) {
		return "public", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "public", v)

	close(release)
	<-done
	v, err = Fetch(context.Background(), c, KeyLists, func(context.Context) (string, error) {
		return "unexpected reload", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "public", v)
}
