package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached-aggregate TTLs. Staleness is bounded by these windows; writers
// that change an aggregate also invalidate its key.
const (
	TTLLotsList   = 10 * time.Minute // lot list is nearly static
	TTLLotStats   = 1 * time.Minute  // active parkers + recent sightings
	TTLVoteCounts = 30 * time.Second // invalidated on every vote
	TTLPrediction = 5 * time.Minute  // prediction per lot
)

// opTimeout bounds every cache round trip so a degraded Redis backend
// can never stall request handling.
const opTimeout = 500 * time.Millisecond

// Store is a Redis-backed key/value cache for derived aggregates.
// Every operation is non-fatal: reads degrade to a miss and writes are
// dropped when the backend is unreachable or the Store is nil.
type Store struct {
	client *redis.Client
}

// New wraps an already-connected Redis client. A nil client yields a
// Store whose operations all degrade to miss.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get unmarshals the cached value for key into dest and reports whether
// it was found. Any failure (nil store, network error, decode error)
// counts as a miss.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("⚠️ cache decode %s: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key with the given TTL. Failures are logged
// and swallowed.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s == nil || s.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("⚠️ cache encode %s: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("⚠️ cache set %s: %v", key, err)
	}
}

// Delete removes the given keys. Failures are logged and swallowed, so
// a dead cache backend cannot fail the write path that invalidates it.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if s == nil || s.client == nil || len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ cache delete %v: %v", keys, err)
	}
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
