package currency

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"nuzum/backend/internal/cache"
	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
)

// Global returns the seeded catalog available to every owner. Custom
// entries override these on code collision.
func Global() []domain.Currency {
	return []domain.Currency{
		{ID: "cur-global-jod", Code: "JOD", Name: "Jordanian Dinar", Symbol: "د.أ"},
		{ID: "cur-global-usd", Code: "USD", Name: "US Dollar", Symbol: "$"},
		{ID: "cur-global-try", Code: "TRY", Name: "Turkish Lira", Symbol: "₺"},
		{ID: "cur-global-sar", Code: "SAR", Name: "Saudi Riyal", Symbol: "ر.س"},
		{ID: "cur-global-aed", Code: "AED", Name: "UAE Dirham", Symbol: "د.إ"},
		{ID: "cur-global-eur", Code: "EUR", Name: "Euro", Symbol: "€"},
	}
}

// codePriority pins the most used codes to the top of the merged catalog.
var codePriority = map[string]int{"JOD": 0, "USD": 1, "EUR": 2}

type Resolver struct {
	repo  store.Repository
	cache cache.CatalogCache
	ttl   time.Duration
}

func NewResolver(repo store.Repository, catalogCache cache.CatalogCache, ttl time.Duration) *Resolver {
	if catalogCache == nil {
		catalogCache = cache.NoopCatalogCache{}
	}
	return &Resolver{repo: repo, cache: catalogCache, ttl: ttl}
}

// ResolveAll merges the global catalog with the owner's custom currencies.
// A custom entry replaces the global one carrying the same code. The result
// is cached per owner until the next catalog mutation.
func (r *Resolver) ResolveAll(ctx context.Context, ownerID string) ([]domain.Currency, error) {
	if cached, ok, err := r.cache.Get(ctx, ownerID); err == nil && ok {
		return cached, nil
	}

	custom, err := r.repo.ListCurrencies(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list custom currencies: %w", err)
	}

	byCode := make(map[string]domain.Currency)
	for _, c := range Global() {
		byCode[c.Code] = c
	}
	for _, c := range custom {
		c.IsCustom = true
		byCode[strings.ToUpper(c.Code)] = c
	}

	merged := make([]domain.Currency, 0, len(byCode))
	for _, c := range byCode {
		merged = append(merged, c)
	}
	slices.SortFunc(merged, func(a, b domain.Currency) int {
		pa, pb := priorityOf(a.Code), priorityOf(b.Code)
		if pa != pb {
			return pa - pb
		}
		return strings.Compare(a.Code, b.Code)
	})

	if err := r.cache.Set(ctx, ownerID, merged, r.ttl); err != nil {
		// Cache write failures are not fatal; the next call recomputes.
		return merged, nil
	}
	return merged, nil
}

// Invalidate drops the owner's cached catalog. Called by every catalog
// mutator.
func (r *Resolver) Invalidate(ctx context.Context, ownerID string) error {
	return r.cache.Invalidate(ctx, ownerID)
}

func priorityOf(code string) int {
	if p, ok := codePriority[strings.ToUpper(code)]; ok {
		return p
	}
	return len(codePriority)
}

// FormatAmount renders an amount in the given currency. Codes known to the
// ISO catalog get locale-aware formatting; anything else falls back to
// "<amount> <symbol>" using the merged catalog's symbol, or the raw code
// when the symbol is unknown. Formatting never fails.
func FormatAmount(amount decimal.Decimal, code string, catalog []domain.Currency) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if cur := money.GetCurrency(code); cur != nil {
		minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
		return cur.Formatter().Format(minor)
	}

	symbol := code
	for _, c := range catalog {
		if strings.EqualFold(c.Code, code) && c.Symbol != "" {
			symbol = c.Symbol
			break
		}
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), symbol)
}
