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

func TestTransferMovesFundsAndLinksLegs(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	source := mustCreateAccount(t, svc, ctx, "Source", 100)
	destination := mustCreateAccount(t, svc, ctx, "Destination", 10)

	resp, err := svc.CreateTransfer(ctx, domain.TransferRequest{
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		Amount:        decimal.NewFromInt(25),
		Notes:         "monthly move",
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	if resp.CorrelationID == "" {
		t.Fatalf("expected a correlation id")
	}
	if resp.OutTransactionID == resp.InTransactionID {
		t.Fatalf("legs must be distinct transactions")
	}

	if got := accountBalance(t, svc, ctx, source.ID); !got.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("source balance = %s, want 75", got)
	}
	if got := accountBalance(t, svc, ctx, destination.ID); !got.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("destination balance = %s, want 35", got)
	}

	out, err := svc.GetTransaction(ctx, resp.OutTransactionID)
	if err != nil {
		t.Fatalf("get out leg: %v", err)
	}
	in, err := svc.GetTransaction(ctx, resp.InTransactionID)
	if err != nil {
		t.Fatalf("get in leg: %v", err)
	}
	if out.CorrelationID != resp.CorrelationID || in.CorrelationID != resp.CorrelationID {
		t.Fatalf("legs must share the transfer correlation id")
	}
	if out.Kind != domain.TxKindExpense || in.Kind != domain.TxKindIncome {
		t.Fatalf("leg kinds = %s/%s, want expense/income", out.Kind, in.Kind)
	}
	if !out.Amount.Equal(in.Amount) {
		t.Fatalf("legs must carry the same amount")
	}
}

func TestTransferRejectsSameAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 100)

	_, err := svc.CreateTransfer(ctx, domain.TransferRequest{
		FromAccountID: account.ID,
		ToAccountID:   account.ID,
		Amount:        decimal.NewFromInt(10),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestTransferRejectsCurrencyMismatch(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	source := mustCreateAccount(t, svc, ctx, "Source", 100)

	destination, err := svc.CreateAccount(ctx, domain.AccountCreateRequest{
		Name:           "Dollar Account",
		Type:           domain.AccountTypeBank,
		Currency:       "USD",
		InitialBalance: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("create usd account: %v", err)
	}

	_, err = svc.CreateTransfer(ctx, domain.TransferRequest{
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		Amount:        decimal.NewFromInt(10),
	})
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("got %v, want ErrCurrencyMismatch", err)
	}

	if got := accountBalance(t, svc, ctx, source.ID); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("source balance = %s, want unchanged 100", got)
	}
}

func TestTransferRejectsInsufficientFunds(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	source := mustCreateAccount(t, svc, ctx, "Source", 10)
	destination := mustCreateAccount(t, svc, ctx, "Destination", 0)

	_, err := svc.CreateTransfer(ctx, domain.TransferRequest{
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		Amount:        decimal.NewFromInt(25),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
}

// deltaFailingRepo inserts transactions but fails every balance delta so
// the post-insert failure path can be observed.
type deltaFailingRepo struct {
	store.Repository
}

func (r *deltaFailingRepo) ApplyAccountDelta(context.Context, string, string, decimal.Decimal) error {
	return errStoreDown
}

func TestTransferPartialFailureNamesCommittedSteps(t *testing.T) {
	repo := &deltaFailingRepo{Repository: memory.New()}
	resolver := currency.NewResolver(repo, cache.NoopCatalogCache{}, 5*time.Second)
	svc := New(repo, resolver, blob.NoopStorage{}, zerolog.Nop())
	ctx := testCtx()

	source := mustCreateAccount(t, svc, ctx, "Source", 100)
	destination := mustCreateAccount(t, svc, ctx, "Destination", 0)

	_, err := svc.CreateTransfer(ctx, domain.TransferRequest{
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		Amount:        decimal.NewFromInt(25),
	})

	var partial *PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("got %v, want PartialFailureError", err)
	}
	if partial.Op != "transfer" {
		t.Fatalf("op = %s, want transfer", partial.Op)
	}
	want := []string{"outflow_insert", "inflow_insert"}
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

	// Both legs were inserted before the failing reconcile; neither balance
	// moved.
	legs, err := svc.ListTransactions(ctx, domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("inserted legs = %d, want 2", len(legs))
	}
	if legs[0].CorrelationID == "" || legs[0].CorrelationID != legs[1].CorrelationID {
		t.Fatalf("committed legs must share a correlation id")
	}
	if got := accountBalance(t, svc, ctx, source.ID); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("source balance = %s, want untouched 100", got)
	}
}
