package repository

import (
	"context"
	"time"
)

// RegionCache keeps extracted report regions keyed by source URL.
type RegionCache interface {
	// Get returns the cached region for url; found is false on a miss.
	Get(ctx context.Context, url string) (region [][]string, found bool, err error)
	// Set stores region for url with the given expiry.
	Set(ctx context.Context, url string, region [][]string, expiry time.Duration) error
}
