package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"nuzum/backend/internal/blob"
	"nuzum/backend/internal/cache"
	"nuzum/backend/internal/currency"
	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
	"nuzum/backend/internal/store/memory"
)

func mustCreateDebt(t *testing.T, svc *Service, ctx context.Context, direction string, amount int64) domain.Debt {
	t.Helper()
	debt, err := svc.CreateDebt(ctx, domain.DebtCreateRequest{
		Name:          "Loan",
		Direction:     direction,
		PartyName:     "Samir",
		InitialAmount: decimal.NewFromInt(amount),
		Currency:      "JOD",
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	return debt
}

func TestDebtPaymentTransitionsStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 0)
	debt := mustCreateDebt(t, svc, ctx, domain.DebtDirectionOwedToMe, 200)

	partial, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(80),
	})
	if err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if partial.DebtStatus != domain.DebtStatusPartiallyPaid {
		t.Fatalf("status = %s, want partially_paid", partial.DebtStatus)
	}
	if !partial.RemainingOwed.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("remaining = %s, want 120", partial.RemainingOwed)
	}
	if got := accountBalance(t, svc, ctx, account.ID); !got.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("account balance = %s, want 80", got)
	}

	full, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if full.DebtStatus != domain.DebtStatusPaid {
		t.Fatalf("status = %s, want paid", full.DebtStatus)
	}
	if !full.RemainingOwed.IsZero() {
		t.Fatalf("remaining = %s, want 0", full.RemainingOwed)
	}
	if got := accountBalance(t, svc, ctx, account.ID); !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("account balance = %s, want 200", got)
	}
}

func TestDebtPaymentRejectsOverpayment(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 0)
	debt := mustCreateDebt(t, svc, ctx, domain.DebtDirectionOwedToMe, 100)

	_, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(150),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation for overpayment", err)
	}
}

func TestOutgoingDebtPaymentChecksFunds(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 50)
	debt := mustCreateDebt(t, svc, ctx, domain.DebtDirectionIOwe, 100)

	_, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(60),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	resp, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if resp.DebtStatus != domain.DebtStatusPartiallyPaid {
		t.Fatalf("status = %s, want partially_paid", resp.DebtStatus)
	}
	if got := accountBalance(t, svc, ctx, account.ID); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("account balance = %s, want 10 after outgoing payment", got)
	}
}

func TestDebtPaymentRejectsCurrencyMismatch(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	debt := mustCreateDebt(t, svc, ctx, domain.DebtDirectionOwedToMe, 100)

	account, err := svc.CreateAccount(ctx, domain.AccountCreateRequest{
		Name:     "Dollar Account",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("create usd account: %v", err)
	}

	_, err = svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(10),
	})
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("got %v, want ErrCurrencyMismatch", err)
	}
}

func TestDebtUpdateKeepsFinancialFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 0)
	debt := mustCreateDebt(t, svc, ctx, domain.DebtDirectionOwedToMe, 100)

	if _, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(30),
	}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	name := "Renamed Loan"
	updated, err := svc.UpdateDebt(ctx, debt.ID, domain.DebtUpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("update debt: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name = %s, want %s", updated.Name, name)
	}
	if !updated.CurrentBalanceOwed.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("balance owed = %s, want 70 preserved", updated.CurrentBalanceOwed)
	}
	if updated.Status != domain.DebtStatusPartiallyPaid {
		t.Fatalf("status = %s, want partially_paid preserved", updated.Status)
	}
}

// debtBalanceFailingRepo commits payments but fails the debt update so the
// post-commit failure path can be observed.
type debtBalanceFailingRepo struct {
	store.Repository
}

var errStoreDown = errors.New("store down")

func (r *debtBalanceFailingRepo) UpdateDebtBalance(context.Context, string, string, decimal.Decimal, string) error {
	return errStoreDown
}

func TestDebtPaymentPartialFailureNamesCommittedSteps(t *testing.T) {
	repo := &debtBalanceFailingRepo{Repository: memory.New()}
	resolver := currency.NewResolver(repo, cache.NoopCatalogCache{}, 5*time.Second)
	svc := New(repo, resolver, blob.NoopStorage{}, zerolog.Nop())
	ctx := testCtx()

	account := mustCreateAccount(t, svc, ctx, "Wallet", 0)
	debt := mustCreateDebt(t, svc, ctx, domain.DebtDirectionOwedToMe, 100)

	_, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(40),
	})

	var partial *PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("got %v, want PartialFailureError", err)
	}
	if partial.Op != "debt_payment" {
		t.Fatalf("op = %s, want debt_payment", partial.Op)
	}
	want := []string{"payment_insert", "payment_reconcile"}
	if len(partial.Completed) != len(want) {
		t.Fatalf("completed = %v, want %v", partial.Completed, want)
	}
	for i, step := range want {
		if partial.Completed[i] != step {
			t.Fatalf("completed = %v, want %v", partial.Completed, want)
		}
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("partial failure must unwrap to the underlying cause")
	}

	// The committed transaction and the account effect stay in place.
	if got := accountBalance(t, svc, ctx, account.ID); !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("account balance = %s, want 40 from committed payment", got)
	}
}
