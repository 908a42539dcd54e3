package store

import (
	"context"
	"fmt"

	"creditjack/internal/config"

	"github.com/redis/go-redis/v9"
)

// Open builds the backend named by cfg.StoreDriver and checks it is reachable.
func Open(ctx context.Context, cfg config.ServerConfig) (Store, error) {
	var st Store
	switch cfg.StoreDriver {
	case "", config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		st = pg
	case config.DriverRedis:
		st = NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("ping %s store: %w", cfg.StoreDriver, err)
	}
	return st, nil
}
