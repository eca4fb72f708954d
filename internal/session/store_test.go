package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/domain"
)

func newRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, "test:session:"), mr
}

func TestStoresRoundTrip(t *testing.T) {
	redisStore, _ := newRedisStoreTest(t)
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

			require.NoError(t, store.Save(ctx, domain.Session{Token: "tok-1", UserID: 7, CreatedAt: created}, 0))

			sess, err := store.Get(ctx, "tok-1")
			require.NoError(t, err)
			assert.Equal(t, int64(7), sess.UserID)
			assert.Equal(t, "tok-1", sess.Token)
			assert.True(t, created.Equal(sess.CreatedAt))

			_, err = store.Get(ctx, "tok-unknown")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Delete(ctx, "tok-1"))
			require.NoError(t, store.Delete(ctx, "tok-1"))
			_, err = store.Get(ctx, "tok-1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Session{Token: "tok", UserID: 1, CreatedAt: now}, time.Minute))

	_, err := store.Get(ctx, "tok")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreSweepsAbandonedEntries(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, domain.Session{Token: fmt.Sprintf("old-%d", i), UserID: 1, CreatedAt: now}, time.Minute))
	}
	require.NoError(t, store.Save(ctx, domain.Session{Token: "forever", UserID: 2, CreatedAt: now}, 0))
	assert.Equal(t, 6, store.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, domain.Session{Token: "fresh", UserID: 3, CreatedAt: now}, time.Minute))

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "forever")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{Token: "tok", UserID: 1, CreatedAt: time.Now()}, time.Minute))
	assert.True(t, mr.Exists("test:session:tok"))

	mr.FastForward(time.Minute + time.Second)
	_, err := store.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer rdb.Close()
	store := NewRedisStore(rdb, "test:session:")

	_, err = store.Get(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", i)
			assert.NoError(t, store.Save(ctx, domain.Session{Token: token, UserID: int64(i)}, 0))
			sess, err := store.Get(ctx, token)
			if assert.NoError(t, err) {
				assert.Equal(t, int64(i), sess.UserID)
			}
			if i%2 == 0 {
				assert.NoError(t, store.Delete(ctx, token))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, store.Len())
}
