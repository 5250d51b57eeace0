package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/metrics"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

// TenantKeyPrefix namespaces tenant-by-subdomain entries
const TenantKeyPrefix = "tenant:subdomain:"

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// TenantCache caches tenant rows by subdomain for the login path
type TenantCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTenantCache connects and pings Redis
func NewTenantCache(ctx context.Context, opts Options) (*TenantCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewTenantCacheFromClient(rdb, opts.TTL), nil
}

// NewTenantCacheFromClient wraps an existing client
func NewTenantCacheFromClient(rdb *redis.Client, ttl time.Duration) *TenantCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TenantCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached tenant, or nil on a miss
func (c *TenantCache) Get(ctx context.Context, subdomain string) (*models.Tenant, error) {
	data, err := c.rdb.Get(ctx, TenantKeyPrefix+subdomain).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveTenantCache("miss")
		return nil, nil
	}
	if err != nil {
		metrics.ObserveTenantCache("error")
		return nil, fmt.Errorf("failed to get cached tenant: %w", err)
	}

	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		metrics.ObserveTenantCache("error")
		return nil, fmt.Errorf("failed to unmarshal cached tenant: %w", err)
	}
	metrics.ObserveTenantCache("hit")
	return &tenant, nil
}

// Set stores tenant under its subdomain
func (c *TenantCache) Set(ctx context.Context, tenant *models.Tenant) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("failed to marshal tenant: %w", err)
	}
	return c.rdb.Set(ctx, TenantKeyPrefix+tenant.Subdomain, data, c.ttl).Err()
}

// Invalidate drops the entry for subdomain
func (c *TenantCache) Invalidate(ctx context.Context, subdomain string) error {
	return c.rdb.Del(ctx, TenantKeyPrefix+subdomain).Err()
}

// Ping checks the connection to Redis
func (c *TenantCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *TenantCache) Close() error {
	return c.rdb.Close()
}
