package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/leadform/internal/adapters/logging"
	"github.com/csg33k/leadform/internal/domain"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "record:users:abc", recordKey("users", "abc"))
	require.Equal(t, "record:users:index", indexKey("users"))
}

// Requires a reachable server, e.g. TEST_REDIS_ADDR=localhost:6379.
func TestRecordRepository_SetAndList(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	repo := NewRecordRepository(client, logging.Nop())
	collection := "test-" + uuid.NewString()
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, recordKeyPrefix+collection+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
	})

	base := time.UnixMilli(1_700_000_000_000)
	var wrote []string
	for i, name := range []string{"Cy", "Al"} {
		key, err := repo.NewKey(ctx, collection)
		require.NoError(t, err)
		rec := domain.NewRecord(domain.Lead{
			Name: name, RollNumber: "1", Branch: "CS",
			Institution: "MIT", Email: "a@b.co", Mobile: "1234567890",
		}, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Set(ctx, collection, key, rec))
		wrote = append(wrote, key)
	}
	require.Error(t, repo.Set(ctx, collection, wrote[0], domain.SubmissionRecord{}))

	list, err := repo.List(ctx, collection)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, wrote[0], list[0].Key)
	require.Equal(t, "Cy", list[0].Name)
	require.Equal(t, "Al", list[1].Name)
}
