package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/gomp-client/config"
	"github.com/pageza/gomp-client/internal/storage"
)

// stores holds the "local" (token) and "session" (list state) stores
type stores struct {
	local   storage.Store
	session storage.Store
	redis   *redis.Client
}

func (s *stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return &stores{
			local:   storage.NewMemoryStore(),
			session: storage.NewMemoryStore(),
		}, nil
	case config.StoreRedis:
		client, err := storage.NewRedisClient(ctx, cfg, 5*time.Second)
		if err != nil {
			return nil, err
		}
		local, session := storage.NewRedisSession(client, cfg)
		return &stores{local: local, session: session, redis: client}, nil
	case config.StoreFile:
		return &stores{
			local:   storage.NewFileStore(cfg.StateDir, "local"),
			session: storage.NewFileStore(cfg.StateDir, "session-"+cfg.SessionID),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.StoreBackend)
	}
}
