package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RegionCacheImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRegionCache(client), mr
}

func TestRegionCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	url := "https://grid-india.in/files/05.04.24_NLDC_PSP.xls"

	_, found, err := cache.Get(ctx, url)
	require.NoError(t, err)
	assert.False(t, found)

	region := [][]string{{"Demand", "1", "2"}, {"Energy", "3", ""}}
	require.NoError(t, cache.Set(ctx, url, region, time.Hour))

	got, found, err := cache.Get(ctx, url)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, region, got)

	key := cache.generateKey(url)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, found, err = cache.Get(ctx, url)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRegionCacheCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	url := "https://grid-india.in/files/01.04.24_NLDC_PSP.xlsx"
	require.NoError(t, mr.Set(cache.generateKey(url), "not json"))

	_, found, err := cache.Get(context.Background(), url)
	assert.Error(t, err)
	assert.False(t, found)
}
