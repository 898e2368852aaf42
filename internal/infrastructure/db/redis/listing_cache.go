package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homestay/rental-api/internal/core/domain"
)

const (
	defaultCacheTTL = 10 * time.Minute
	generationTTL   = 24 * time.Hour
)

// setIfCurrent writes KEYS[1] only while the generation in KEYS[2] still
// equals ARGV[1]. A missing generation counts as 0.
var setIfCurrent = redis.NewScript(`
local gen = redis.call("GET", KEYS[2])
if (gen or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// ListingCache stores single listings as JSON next to a generation counter
// bumped on every invalidation.
// Key format: place:<id> and place:<id>:gen
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache wraps client. A ttl <= 0 falls back to defaultCacheTTL.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get returns a nil listing and the current generation when the key is
// absent.
func (c *ListingCache) Get(ctx context.Context, id string) (*domain.Listing, int64, error) {
	vals, err := c.client.MGet(ctx, c.key(id), c.genKey(id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("cache get: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}

	var l domain.Listing
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return nil, 0, fmt.Errorf("cache decode: %w", err)
	}
	return &l, gen, nil
}

// Set stores l unless the listing was invalidated after generation was read.
func (c *ListingCache) Set(ctx context.Context, l *domain.Listing, generation int64) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	keys := []string{c.key(l.ID), c.genKey(l.ID)}
	err = setIfCurrent.Run(ctx, c.client, keys, strconv.FormatInt(generation, 10), raw, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete bumps the generation and drops the cached value in one transaction.
func (c *ListingCache) Delete(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(id))
		pipe.Expire(ctx, c.genKey(id), generationTTL)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *ListingCache) key(id string) string {
	return fmt.Sprintf("place:%s", id)
}

func (c *ListingCache) genKey(id string) string {
	return fmt.Sprintf("place:%s:gen", id)
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache generation %q: %w", s, err)
	}
	return gen, nil
}
