package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadStoreExpires(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	store := newDownloadStore(4, time.Minute)
	store.now = func() time.Time { return now }

	store.put("run-1", []byte("xlsx"), 8)
	d, ok := store.get("run-1")
	require.True(t, ok)
	assert.Equal(t, 8, d.rows)
	assert.Equal(t, []byte("xlsx"), d.data)

	now = now.Add(2 * time.Minute)
	_, ok = store.get("run-1")
	assert.False(t, ok)
	assert.Empty(t, store.order)
}

func TestDownloadStoreEvictsOldest(t *testing.T) {
	store := newDownloadStore(2, time.Hour)
	for i := 1; i <= 3; i++ {
		store.put(fmt.Sprintf("run-%d", i), nil, i)
	}

	_, ok := store.get("run-1")
	assert.False(t, ok)
	for _, id := range []string{"run-2", "run-3"} {
		_, ok := store.get(id)
		assert.True(t, ok, id)
	}
}
