package cache

import (
	"context"
	"testing"
	"time"

	"nuzum/backend/internal/domain"
)

func TestMemoryCatalogCacheRoundTrip(t *testing.T) {
	c := NewMemoryCatalogCache()
	ctx := context.Background()
	catalog := []domain.Currency{{ID: "cur-1", Code: "JOD", Name: "Jordanian Dinar"}}

	if _, ok, _ := c.Get(ctx, "usr-1"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}

	if err := c.Set(ctx, "usr-1", catalog, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "usr-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Code != "JOD" {
		t.Fatalf("got %+v, want the stored catalog", got)
	}

	// Entries are copied on the way out.
	got[0].Code = "MUTATED"
	again, _, _ := c.Get(ctx, "usr-1")
	if again[0].Code != "JOD" {
		t.Fatalf("cache entry mutated through a returned slice")
	}

	if _, ok, _ := c.Get(ctx, "usr-2"); ok {
		t.Fatalf("owner keys must be isolated")
	}
}

func TestMemoryCatalogCacheExpires(t *testing.T) {
	c := NewMemoryCatalogCache()
	ctx := context.Background()

	if err := c.Set(ctx, "usr-1", []domain.Currency{{Code: "JOD"}}, -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "usr-1"); ok {
		t.Fatalf("expected an expired entry to miss")
	}
}

func TestMemoryCatalogCacheInvalidate(t *testing.T) {
	c := NewMemoryCatalogCache()
	ctx := context.Background()

	if err := c.Set(ctx, "usr-1", []domain.Currency{{Code: "JOD"}}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Invalidate(ctx, "usr-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "usr-1"); ok {
		t.Fatalf("expected a miss after invalidation")
	}
}

func TestNoopCatalogCacheAlwaysMisses(t *testing.T) {
	c := NoopCatalogCache{}
	ctx := context.Background()

	if err := c.Set(ctx, "usr-1", []domain.Currency{{Code: "JOD"}}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "usr-1"); ok {
		t.Fatalf("noop cache must never hit")
	}
}
