package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/topic-distribution-admin/pkg/config"
)

// Collection names of the shared reference snapshots.
const (
	CollectionTeachers = "teachers"
	CollectionTopics   = "topics"
	CollectionStudents = "students"
)

const keyPrefix = "tda:collections:"

// CollectionKey returns the cache key for a named collection.
func CollectionKey(name string) string {
	return keyPrefix + name
}

// CollectionPattern matches every cached collection.
func CollectionPattern() string {
	return keyPrefix + "*"
}

// NewRedis returns a configured Redis client, or nil when Redis is disabled.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return client, nil
}
