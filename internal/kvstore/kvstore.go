// Package kvstore provides the durable key-value storage behind the local
// ledger mirror, the persisted session token, the legacy admin directory and
// the cached payment-QR reference.
package kvstore

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Well-known storage keys. The names are kept identical to the document keys
// the storefront has always used so an operator can inspect them directly.
const (
	KeyBookings     = "bookings"
	KeyCurrentAdmin = "currentAdmin"
	KeyAdminUsers   = "adminUsers"
	KeyTheatreQR    = "theatreQR"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the durable key-value contract: get a string value, overwrite it,
// or remove it. Values are whole JSON documents; there is no partial update.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// RedisStore persists keys in Redis without expiry. It is the production
// implementation of Store.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

// NewRedisStore wraps an already-connected Redis client. The prefix
// namespaces the storefront's keys away from the cache and rate-limit
// entries sharing the same server.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{Client: client, Prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	if s.Prefix == "" {
		return k
	}
	return s.Prefix + ":" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	// No TTL: the mirror must outlive any restart.
	return s.Client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.key(key)).Err()
}

// MemoryStore is an in-process Store used in tests and as a degraded mode
// when no Redis server is reachable at startup. Contents are lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
