package cache

import (
	"context"
	"sync"
	"time"

	"nuzum/backend/internal/domain"
)

// CatalogCache holds the merged currency catalog per owner. Every catalog
// mutation must call Invalidate for the owner that changed.
type CatalogCache interface {
	Get(ctx context.Context, ownerID string) ([]domain.Currency, bool, error)
	Set(ctx context.Context, ownerID string, catalog []domain.Currency, ttl time.Duration) error
	Invalidate(ctx context.Context, ownerID string) error
}

type NoopCatalogCache struct{}

func (NoopCatalogCache) Get(_ context.Context, _ string) ([]domain.Currency, bool, error) {
	return nil, false, nil
}

func (NoopCatalogCache) Set(_ context.Context, _ string, _ []domain.Currency, _ time.Duration) error {
	return nil
}

func (NoopCatalogCache) Invalidate(_ context.Context, _ string) error {
	return nil
}

// MemoryCatalogCache is a process-local cache used when Redis is not
// configured, and in tests.
type MemoryCatalogCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	catalog   []domain.Currency
	expiresAt time.Time
}

func NewMemoryCatalogCache() *MemoryCatalogCache {
	return &MemoryCatalogCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCatalogCache) Get(_ context.Context, ownerID string) ([]domain.Currency, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[ownerID]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	catalog := make([]domain.Currency, len(entry.catalog))
	copy(catalog, entry.catalog)
	return catalog, true, nil
}

func (c *MemoryCatalogCache) Set(_ context.Context, ownerID string, catalog []domain.Currency, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]domain.Currency, len(catalog))
	copy(stored, catalog)
	c.entries[ownerID] = memoryEntry{catalog: stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCatalogCache) Invalidate(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, ownerID)
	return nil
}
