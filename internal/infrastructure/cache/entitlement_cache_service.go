// Package cache implements the billing façade's cache-aside port against
// Redis: a read-through/write-invalidate layer in front of the entitlement
// and customer-limit repositories.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/infrastructure/database/redis"
	cachekeys "github.com/22smeargle/qzpay/pkg/cache"
	"github.com/22smeargle/qzpay/pkg/logger"
)

const (
	entitlementCacheTTL   = 5 * time.Minute
	customerLimitCacheTTL = 1 * time.Minute
)

// EntitlementCacheService is the Redis-backed implementation of
// billing.EntitlementCache. It satisfies that interface structurally —
// this package never imports internal/application/billing, keeping the
// dependency pointed the usual infra-depends-on-domain way.
type EntitlementCacheService struct {
	redisClient *redis.RedisClient
	keys        *cachekeys.KeyGenerator
}

// NewEntitlementCacheService creates a cache-aside layer over redisClient.
func NewEntitlementCacheService(redisClient *redis.RedisClient) *EntitlementCacheService {
	return &EntitlementCacheService{
		redisClient: redisClient,
		keys:        cachekeys.NewKeyGenerator("billing"),
	}
}

func (s *EntitlementCacheService) entitlementKey(customerID uuid.UUID, entitlementKey string) string {
	return s.keys.GenerateKey("entitlement", customerID.String(), entitlementKey)
}

func (s *EntitlementCacheService) limitKey(customerID uuid.UUID, limitKey string) string {
	return s.keys.GenerateKey("limit", customerID.String(), limitKey)
}

// GetHasEntitlement returns the cached grant-active bool and whether it was
// a cache hit. A cache read error is treated as a miss — a Redis hiccup
// degrades to a storage read, it never fails the caller's request.
func (s *EntitlementCacheService) GetHasEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string) (bool, bool) {
	raw, err := s.redisClient.Get(ctx, s.entitlementKey(customerID, entitlementKey))
	if err != nil || raw == "" {
		return false, false
	}
	var has bool
	if err := cachekeys.Deserialize([]byte(raw), &has); err != nil {
		logger.Error("Failed to deserialize cached entitlement", err)
		return false, false
	}
	return has, true
}

func (s *EntitlementCacheService) SetHasEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string, has bool) {
	data, err := cachekeys.Serialize(has)
	if err != nil {
		logger.Error("Failed to serialize entitlement for caching", err)
		return
	}
	if err := s.redisClient.Set(ctx, s.entitlementKey(customerID, entitlementKey), string(data), entitlementCacheTTL); err != nil {
		logger.Error("Failed to cache entitlement", err)
	}
}

func (s *EntitlementCacheService) InvalidateEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string) {
	if err := s.redisClient.Del(ctx, s.entitlementKey(customerID, entitlementKey)); err != nil {
		logger.Error("Failed to invalidate cached entitlement", err)
	}
}

// GetCustomerLimit returns the cached CustomerLimit and whether it was a
// cache hit.
func (s *EntitlementCacheService) GetCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, bool) {
	raw, err := s.redisClient.Get(ctx, s.limitKey(customerID, limitKey))
	if err != nil || raw == "" {
		return nil, false
	}
	var limit entities.CustomerLimit
	if err := cachekeys.Deserialize([]byte(raw), &limit); err != nil {
		logger.Error("Failed to deserialize cached customer limit", err)
		return nil, false
	}
	return &limit, true
}

func (s *EntitlementCacheService) SetCustomerLimit(ctx context.Context, customerID uuid.UUID, limit *entities.CustomerLimit) {
	data, err := cachekeys.Serialize(limit)
	if err != nil {
		logger.Error("Failed to serialize customer limit for caching", err)
		return
	}
	if err := s.redisClient.Set(ctx, s.limitKey(customerID, limit.LimitKey), string(data), customerLimitCacheTTL); err != nil {
		logger.Error("Failed to cache customer limit", err)
	}
}

func (s *EntitlementCacheService) InvalidateCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string) {
	if err := s.redisClient.Del(ctx, s.limitKey(customerID, limitKey)); err != nil {
		logger.Error("Failed to invalidate cached customer limit", err)
	}
}
