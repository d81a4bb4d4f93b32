// Package routecache caches resolved routes with a policy keyed by migration status.
package routecache

import (
	"strings"
	"time"

	"github.com/hxuan190/token-route-engine/internal/cache"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/metrics"
)

const (
	DefaultTTL     = 5 * time.Second
	DefaultMaxSize = 500
)

type Config struct {
	// TTL bounds how long a not-migrated route is served before it is re-verified.
	TTL     time.Duration
	MaxSize int
}

func DefaultConfig() Config {
	return Config{TTL: DefaultTTL, MaxSize: DefaultMaxSize}
}

// Manager caches routes by lowercased token address. Migrated routes never expire because a
// completed migration cannot be undone on-chain; other routes expire after TTL.
type Manager struct {
	entries *cache.BoundedCache[string, *domain.RouteCacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

func New(cfg Config) *Manager {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{
		entries: cache.NewBoundedCache[string, *domain.RouteCacheEntry](cfg.MaxSize),
		ttl:     cfg.TTL,
		now:     time.Now,
	}
}

func Key(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

func (m *Manager) Get(token string) (*domain.RouteCacheEntry, bool) {
	return m.entries.Get(Key(token))
}

// ShouldUseCache reports whether entry can be served without re-querying.
func (m *Manager) ShouldUseCache(entry *domain.RouteCacheEntry) bool {
	if entry == nil {
		return false
	}
	if entry.MigrationStatus == domain.StatusMigrated {
		return true
	}
	return m.now().Sub(entry.Timestamp) < m.ttl
}

// ShouldUpdateCache reports whether a freshly resolved route must be written over existing.
// Absent or stale entries are always replaced, as is any entry whose migration status flipped.
func (m *Manager) ShouldUpdateCache(existing *domain.RouteCacheEntry, route *domain.RouteFetchResult) bool {
	if existing == nil || !m.ShouldUseCache(existing) {
		return true
	}
	return existing.MigrationStatus != route.MigrationStatus()
}

// Lookup returns a cached route if one is fresh.
func (m *Manager) Lookup(token string) (*domain.RouteFetchResult, bool) {
	entry, ok := m.Get(token)
	if !ok {
		metrics.RouteCacheMisses.WithLabelValues("absent").Inc()
		return nil, false
	}
	if !m.ShouldUseCache(entry) {
		metrics.RouteCacheMisses.WithLabelValues("stale").Inc()
		return nil, false
	}
	metrics.RouteCacheHits.WithLabelValues(string(entry.MigrationStatus)).Inc()
	return entry.Route, true
}

// Store writes route if the update policy allows it and reports whether it did.
func (m *Manager) Store(token string, route *domain.RouteFetchResult) bool {
	existing, _ := m.Get(token)
	if !m.ShouldUpdateCache(existing, route) {
		return false
	}
	m.Set(token, route)
	return true
}

func (m *Manager) Set(token string, route *domain.RouteFetchResult) {
	status := route.MigrationStatus()
	m.entries.Set(Key(token), &domain.RouteCacheEntry{
		Route:           route,
		Timestamp:       m.now(),
		MigrationStatus: status,
	})
	metrics.RouteCacheWrites.WithLabelValues(string(status)).Inc()
	metrics.RouteCacheSize.Set(float64(m.entries.Len()))
}

func (m *Manager) ClearRoute(token string) bool {
	removed := m.entries.Delete(Key(token))
	metrics.RouteCacheSize.Set(float64(m.entries.Len()))
	return removed
}

func (m *Manager) ClearAll() {
	m.entries.Clear()
	metrics.RouteCacheSize.Set(0)
}

type Stats struct {
	Size        int    `json:"size"`
	Capacity    int    `json:"capacity"`
	Migrated    int    `json:"migrated"`
	NotMigrated int    `json:"notMigrated"`
	Stale       int    `json:"stale"`
	Evictions   uint64 `json:"evictions"`
	TTLMillis   int64  `json:"ttlMs"`
}

func (m *Manager) Stats() Stats {
	s := Stats{
		Capacity:  m.entries.Cap(),
		Evictions: m.entries.Evictions(),
		TTLMillis: m.ttl.Milliseconds(),
	}
	m.entries.Range(func(_ string, e *domain.RouteCacheEntry) bool {
		s.Size++
		if e.MigrationStatus == domain.StatusMigrated {
			s.Migrated++
		} else {
			s.NotMigrated++
			if !m.ShouldUseCache(e) {
				s.Stale++
			}
		}
		return true
	})
	return s
}
