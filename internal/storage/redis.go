package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/gomp-client/config"
)

// KeyPrefix is the first segment of every key written to Redis
const KeyPrefix = "gomp"

// Namespaces of the two stores a client session uses
const (
	NamespaceLocal   = "local"
	NamespaceSession = "session"
)

func redisOptions(cfg *config.Config) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// NewRedisClient connects to the Redis server named by cfg and pings it
// within timeout
func NewRedisClient(ctx context.Context, cfg *config.Config, timeout time.Duration) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis at %s unreachable: %w", opts.Addr, err)
	}
	log.Printf("[Storage] using Redis at %s db %d for session %s", opts.Addr, opts.DB, cfg.SessionID)
	return client, nil
}

// NewRedisSession returns the local and session stores for cfg.SessionID.
// The token store never expires; list state expires after cfg.SessionTTL.
func NewRedisSession(client *redis.Client, cfg *config.Config) (local, session *RedisStore) {
	return NewRedisStore(client, NamespaceLocal, cfg.SessionID, 0),
		NewRedisStore(client, NamespaceSession, cfg.SessionID, cfg.SessionTTL)
}

// NewSessionID returns a fresh identifier for a Redis-backed session
func NewSessionID() string {
	return uuid.New().String()
}

// RedisStore keeps the keys of one session under a common Redis prefix,
// gomp:<namespace>:<session>:<key>
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store scoped to namespace and session. A zero ttl
// keeps keys until they are deleted.
func NewRedisStore(client *redis.Client, namespace, session string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis:  client,
		prefix: fmt.Sprintf("%s:%s:%s:", KeyPrefix, namespace, session),
		ttl:    ttl,
	}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q from Redis: %w", key, err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.redis.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %q to Redis: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.redis.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys from Redis: %w", err)
	}
	return nil
}

// Clear removes every key under the session prefix
func (r *RedisStore) Clear(ctx context.Context) error {
	iter := r.redis.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan Redis keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear Redis session: %w", err)
	}
	return nil
}
