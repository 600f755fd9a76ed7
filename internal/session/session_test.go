package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s, err := store.Create(ctx, "42")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "42", s.UserID)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	a, err := store.Create(ctx, "1")
	require.NoError(t, err)
	b, err := store.Create(ctx, "1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMemoryStore_ExpiredIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s, err := store.Create(ctx, "7")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return start }

	_, err := store.Create(ctx, "1")
	require.NoError(t, err)
	_, err = store.Create(ctx, "2")
	require.NoError(t, err)

	assert.Equal(t, 0, store.Sweep(start.Add(30*time.Second)))
	assert.Equal(t, 2, store.Sweep(start.Add(time.Minute)))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	a, _ := store.Create(ctx, "1")
	b, _ := store.Create(ctx, "1")
	c, _ := store.Create(ctx, "2")

	require.NoError(t, store.DeleteByUser(ctx, "1"))

	_, err := store.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, c.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_RunStopsOnCancel(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	_, err := store.Create(context.Background(), "1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Run(ctx, 5*time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := store.Create(ctx, "u")
			if err != nil {
				return
			}
			_, _ = store.Get(ctx, s.ID)
			store.Sweep(time.Now())
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, store.Len())
}

// Runs only against a real server: REDIS_TEST_URL=redis://localhost:6379/15
func TestRedisStore_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	client, err := ConnectRedis(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	s, err := store.Create(ctx, "redis-user")
	require.NoError(t, err)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "redis-user", got.UserID)

	require.NoError(t, store.DeleteByUser(ctx, "redis-user"))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
