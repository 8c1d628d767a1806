package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a generic JSON-backed Redis store for one value type T.
// Keys are namespaced with prefix; ttl 0 means keys never expire.
type ViewCache[T any] struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewViewCache[T any](client goredis.Cmdable, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) key(id string) string {
	return c.prefix + id
}

// Get retrieves and unmarshals the value stored under id.
// A miss, a read error and an undecodable entry all report (nil, false);
// undecodable entries are logged so a corrupt key is visible in the logs.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("ViewCache: read error for key %s: %v", c.key(id), err)
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("ViewCache: discarding malformed entry %s: %v", c.key(id), err)
		return nil, false
	}
	return &v, true
}

// Set marshals value and stores it under id.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, c.ttl).Err()
}

// Delete removes id. Deleting a missing key is not an error.
func (c *ViewCache[T]) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
