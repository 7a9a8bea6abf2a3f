package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
)

func TestCustomCurrencyOverridesGlobal(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()

	if _, err := svc.CreateCurrency(ctx, domain.CurrencyCreateRequest{
		Code: "usd", Name: "House Dollar", Symbol: "u$",
	}); err != nil {
		t.Fatalf("create currency: %v", err)
	}

	catalog, err := svc.ListCurrencies(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var usd *domain.Currency
	for i := range catalog {
		if catalog[i].Code == "USD" {
			usd = &catalog[i]
		}
	}
	if usd == nil {
		t.Fatalf("USD missing from catalog")
	}
	if !usd.IsCustom || usd.Name != "House Dollar" {
		t.Fatalf("custom entry must win on code collision, got %+v", usd)
	}
}

func TestCreateCurrencyRejectsDuplicateCode(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()

	if _, err := svc.CreateCurrency(ctx, domain.CurrencyCreateRequest{Code: "ZZZ", Name: "Zed"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateCurrency(ctx, domain.CurrencyCreateRequest{Code: "zzz", Name: "Zed Again"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}
}

func TestDeleteCurrencyBlockedWhileInUse(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()

	created, err := svc.CreateCurrency(ctx, domain.CurrencyCreateRequest{Code: "ZZZ", Name: "Zed", Symbol: "z"})
	if err != nil {
		t.Fatalf("create currency: %v", err)
	}
	if _, err := svc.CreateAccount(ctx, domain.AccountCreateRequest{
		Name:     "Zed Wallet",
		Type:     domain.AccountTypeCash,
		Currency: "ZZZ",
	}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := svc.DeleteCurrency(ctx, created.ID); !errors.Is(err, store.ErrConstraintViolation) {
		t.Fatalf("got %v, want ErrConstraintViolation while an account uses the code", err)
	}
}

func TestFormatAmountUsesCatalogSymbols(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()

	got, err := svc.FormatAmount(ctx, decimal.NewFromFloat(12.5), "USD")
	if err != nil {
		t.Fatalf("format usd: %v", err)
	}
	if got != "$12.50" {
		t.Fatalf("usd = %q, want $12.50", got)
	}

	if _, err := svc.CreateCurrency(ctx, domain.CurrencyCreateRequest{
		Code: "ZZZ", Name: "Zed", Symbol: "z!",
	}); err != nil {
		t.Fatalf("create currency: %v", err)
	}
	got, err = svc.FormatAmount(ctx, decimal.NewFromFloat(12.5), "zzz")
	if err != nil {
		t.Fatalf("format custom: %v", err)
	}
	if got != "12.50 z!" {
		t.Fatalf("custom = %q, want 12.50 z!", got)
	}
}
