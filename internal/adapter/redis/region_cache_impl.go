package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/psp-report-service/internal/repository"
	"github.com/user/psp-report-service/pkg/utils"
)

const regionKeyPrefix = "psp:region:"

// RegionCacheImpl provides a concrete implementation for the RegionCache interface using Redis.
type RegionCacheImpl struct {
	client *redis.Client
}

// NewRegionCache creates a new instance of RegionCacheImpl.
func NewRegionCache(client *redis.Client) *RegionCacheImpl {
	return &RegionCacheImpl{client: client}
}

// generateKey creates a consistent Redis key for a report URL by hashing it.
func (r *RegionCacheImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", regionKeyPrefix, utils.HashURL(url))
}

// Get returns the cached region for url.
func (r *RegionCacheImpl) Get(ctx context.Context, url string) ([][]string, bool, error) {
	raw, err := r.client.Get(ctx, r.generateKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var region [][]string
	if err := json.Unmarshal(raw, &region); err != nil {
		return nil, false, fmt.Errorf("decode cached region: %w", err)
	}
	return region, true, nil
}

// Set stores the region for url. SETEX is atomic and sets the key with an expiry.
func (r *RegionCacheImpl) Set(ctx context.Context, url string, region [][]string, expiry time.Duration) error {
	raw, err := json.Marshal(region)
	if err != nil {
		return err
	}
	return r.client.SetEx(ctx, r.generateKey(url), raw, expiry).Err()
}

var _ repository.RegionCache = (*RegionCacheImpl)(nil)
