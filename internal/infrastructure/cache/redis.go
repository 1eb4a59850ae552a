package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/config"
	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/repository"
)

const entitlementKeyPrefix = "uxaudit:entitlement:"

// NewRedisClient connects and pings once so a misconfigured address fails at
// startup instead of on the first request.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr))
	return client, nil
}

// EntitlementCache is the redis-backed read cache for entitlements. It serves
// UI reads only; authorization always re-reads the store, so a stale or lost
// cache entry can never widen access.
type EntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewEntitlementCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) repository.EntitlementCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &EntitlementCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached entitlement, or (nil, nil) on a miss.
func (c *EntitlementCache) Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error) {
	data, err := c.client.Get(ctx, entitlementKeyPrefix+accountID.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var ent model.Entitlement
	if err := json.Unmarshal(data, &ent); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		c.logger.Warn("Dropping unreadable cached entitlement",
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return nil, nil
	}

	return &ent, nil
}

func (c *EntitlementCache) Set(ctx context.Context, ent *model.Entitlement) error {
	data, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, entitlementKeyPrefix+ent.AccountID.String(), data, c.ttl).Err()
}

func (c *EntitlementCache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	return c.client.Del(ctx, entitlementKeyPrefix+accountID.String()).Err()
}
