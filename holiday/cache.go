package holiday

import (
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// cacheEntry is one cached year of holidays.
type cacheEntry struct {
	holidays   Static
	expiresAt  time.Time
	accessedAt time.Time
}

// CacheConfig holds configuration for a Cached provider.
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`              // How long a year stays valid
	MaxEntries      int           `yaml:"max_entries"`      // Maximum number of cached years
	CleanupInterval time.Duration `yaml:"cleanup_interval"` // How often to sweep expired years
}

// DefaultCacheConfig keeps a handful of years around for a day.
var DefaultCacheConfig = CacheConfig{
	TTL:             24 * time.Hour,
	MaxEntries:      16,
	CleanupInterval: time.Hour,
}

// Cached memoizes another Provider per year. Holiday sources are usually
// remote or computed, and every engine call needs one or two years of them.
type Cached struct {
	source Provider
	config CacheConfig
	logger *slog.Logger
	now    func() time.Time

	mu          sync.RWMutex
	entries     map[int]*cacheEntry
	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// CacheOption configures a Cached provider.
type CacheOption func(*Cached)

// WithLogger sets the logger used for cache misses and load failures.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cached) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCached wraps source with a cache. Call Close to stop the cleanup loop.
func NewCached(source Provider, config CacheConfig, opts ...CacheOption) *Cached {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheConfig.TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheConfig.MaxEntries
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCacheConfig.CleanupInterval
	}

	c := &Cached{
		source:      source,
		config:      config,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		entries:     make(map[int]*cacheEntry),
		stopCleanup: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()

	return c
}

// Holidays implements Provider. The returned table is shared with the cache
// and must not be modified.
func (c *Cached) Holidays(year int) (Static, error) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[year]
	if ok && now.Before(entry.expiresAt) {
		entry.accessedAt = now
		c.mu.Unlock()
		return entry.holidays, nil
	}
	if ok {
		delete(c.entries, year)
	}
	c.mu.Unlock()

	c.logger.Debug("holiday cache miss", "year", year)
	holidays, err := c.source.Holidays(year)
	if err != nil {
		c.logger.Warn("failed to load holidays", "year", year, "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[year] = &cacheEntry{
		holidays:   holidays,
		expiresAt:  now.Add(c.config.TTL),
		accessedAt: now,
	}
	if len(c.entries) > c.config.MaxEntries {
		c.cleanup(now)
	}
	return holidays, nil
}

// Invalidate drops every cached year, e.g. after the source was edited.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[int]*cacheEntry)
	c.mu.Unlock()
}

// cleanup removes expired years, then the least recently used ones while
// over the limit. Callers hold c.mu.
func (c *Cached) cleanup(now time.Time) {
	for year, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, year)
		}
	}

	if len(c.entries) <= c.config.MaxEntries {
		return
	}

	years := make([]int, 0, len(c.entries))
	for year := range c.entries {
		years = append(years, year)
	}
	sort.Slice(years, func(i, j int) bool {
		return c.entries[years[i]].accessedAt.Before(c.entries[years[j]].accessedAt)
	})
	for _, year := range years[:len(c.entries)-c.config.MaxEntries] {
		delete(c.entries, year)
	}
}

func (c *Cached) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.cleanup(c.now())
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *Cached) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCleanup)
	})
	c.Invalidate()
}

// CacheStats reports the cache occupancy.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}

// Stats returns cache statistics.
func (c *Cached) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	expired := 0
	for _, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			expired++
		}
	}
	return CacheStats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}
