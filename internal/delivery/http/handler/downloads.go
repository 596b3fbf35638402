package handler

import (
	"sync"
	"time"
)

const (
	downloadLimit = 16
	downloadTTL   = 30 * time.Minute
)

type download struct {
	data    []byte
	rows    int
	expires time.Time
}

// downloadStore keeps recently built workbooks so the form page can link to
// them. Entries expire after ttl and the oldest are evicted beyond max.
type downloadStore struct {
	mu    sync.Mutex
	max   int
	ttl   time.Duration
	items map[string]download
	order []string
	now   func() time.Time
}

func newDownloadStore(max int, ttl time.Duration) *downloadStore {
	return &downloadStore{
		max:   max,
		ttl:   ttl,
		items: make(map[string]download),
		now:   time.Now,
	}
}

func (s *downloadStore) put(id string, data []byte, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = download{data: data, rows: rows, expires: s.now().Add(s.ttl)}
	for len(s.order) > s.max {
		delete(s.items, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *downloadStore) get(id string) (download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	d, ok := s.items[id]
	return d, ok
}

func (s *downloadStore) evictLocked() {
	now := s.now()
	kept := s.order[:0]
	for _, id := range s.order {
		if now.After(s.items[id].expires) {
			delete(s.items, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
