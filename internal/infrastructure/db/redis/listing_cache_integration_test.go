package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestay/rental-api/internal/core/domain"
)

var testClient *goredis.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Printf("docker unavailable, skipping redis integration tests")
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start redis: %s", err)
	}

	addr := resource.GetHostPort("6379/tcp")
	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = Connect(context.Background(), Config{Addr: addr})
		return errRetry
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("could not connect to redis at %s: %s", addr, err)
	}

	code := m.Run()

	_ = testClient.Close()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func TestListingCache_Integration(t *testing.T) {
	if testClient == nil {
		t.Skip("docker unavailable")
	}
	ctx := context.Background()
	cache := NewListingCache(testClient, time.Minute)

	miss, gen, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, miss)
	assert.Equal(t, int64(0), gen)

	l := &domain.Listing{ID: "p1", OwnerID: "u1", Name: "Cabin", Photos: []string{"a"}, MaxGuests: 2, Price: 10}
	require.NoError(t, cache.Set(ctx, l, gen))

	ttl, err := testClient.TTL(ctx, fmt.Sprintf("place:%s", l.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	hit, _, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, l, hit)

	require.NoError(t, cache.Delete(ctx, "p1"))
	gone, gen, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, int64(1), gen)
}

func TestListingCache_SetAfterInvalidationIsDropped(t *testing.T) {
	if testClient == nil {
		t.Skip("docker unavailable")
	}
	ctx := context.Background()
	cache := NewListingCache(testClient, time.Minute)

	// A reader observes a miss, then a writer invalidates before the reader
	// stores what it loaded.
	_, staleGen, err := cache.Get(ctx, "p2")
	require.NoError(t, err)
	require.NoError(t, cache.Delete(ctx, "p2"))

	stale := &domain.Listing{ID: "p2", OwnerID: "u1", Name: "Old"}
	require.NoError(t, cache.Set(ctx, stale, staleGen))

	got, gen, err := cache.Get(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, got, "stale listing must not be cached")

	fresh := &domain.Listing{ID: "p2", OwnerID: "u1", Name: "New"}
	require.NoError(t, cache.Set(ctx, fresh, gen))
	got, _, err = cache.Get(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Name)
}
