package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

func TestUserKey(t *testing.T) {
	assert.Equal(t, "exercisetracker:app:user:u1", userKey("app", "u1"))
	assert.NotEqual(t, userKey("a", "u1"), userKey("b", "u1"))
}

func TestUserCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewUserCache(client, "app", time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	u, err := cache.GetUser(context.Background(), "u1")
	require.Error(t, err)
	assert.Nil(t, u)

	assert.Error(t, cache.SetUser(context.Background(), domain.User{ID: "u1", Username: "alice"}))
}
