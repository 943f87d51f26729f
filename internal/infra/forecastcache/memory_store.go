package forecastcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ecoscope/siagatani/internal/domain/forecast"
)

type entry struct {
	payload   forecast.Forecast
	expiresAt time.Time
}

// MemoryStore keeps decoded forecasts in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements forecast.Cache.
func (s *MemoryStore) Get(_ context.Context, code string) (forecast.Forecast, bool, error) {
	code = strings.TrimSpace(code)
	s.mu.RLock()
	record, ok := s.entries[code]
	s.mu.RUnlock()
	if !ok {
		return forecast.Forecast{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.entries, code)
		s.mu.Unlock()
		return forecast.Forecast{}, false, nil
	}
	return record.payload, true, nil
}

// Set stores the forecast; ttl <= 0 keeps it until overwritten.
func (s *MemoryStore) Set(_ context.Context, code string, fc forecast.Forecast, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.entries[strings.TrimSpace(code)] = entry{payload: fc, expiresAt: exp}
	return nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ forecast.Cache = (*MemoryStore)(nil)
