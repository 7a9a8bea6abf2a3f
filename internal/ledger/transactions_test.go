package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
)

func TestCreateTransactionValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 100)

	_, err := svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind:      "loan",
		Amount:    decimal.NewFromInt(10),
		AccountID: account.ID,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("bad kind: got %v, want ErrValidation", err)
	}

	_, err = svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind:      domain.TxKindIncome,
		Amount:    decimal.NewFromInt(-5),
		AccountID: account.ID,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("negative amount: got %v, want ErrValidation", err)
	}

	_, err = svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind:   domain.TxKindIncome,
		Amount: decimal.NewFromInt(5),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing account: got %v, want ErrValidation", err)
	}

	_, err = svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind:      domain.TxKindIncome,
		Amount:    decimal.NewFromInt(5),
		AccountID: "acc-missing",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown account: got %v, want ErrNotFound", err)
	}

	_, err = svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind:                     domain.TxKindIncome,
		Amount:                   decimal.NewFromInt(5),
		AccountID:                account.ID,
		MaterialQuantityAffected: 3,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("quantity without material: got %v, want ErrValidation", err)
	}
}

func TestExpenseRejectedWhenBalanceTooLow(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 20)

	_, err := svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind:      domain.TxKindExpense,
		Amount:    decimal.NewFromInt(30),
		AccountID: account.ID,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if got := accountBalance(t, svc, ctx, account.ID); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("balance = %s, want unchanged 20", got)
	}
}

func TestTransferLegsCannotBeEdited(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	source := mustCreateAccount(t, svc, ctx, "Source", 100)
	destination := mustCreateAccount(t, svc, ctx, "Destination", 0)

	transfer, err := svc.CreateTransfer(ctx, domain.TransferRequest{
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		Amount:        decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	amount := decimal.NewFromInt(40)
	_, err = svc.UpdateTransaction(ctx, transfer.OutTransactionID, domain.TransactionUpdateRequest{Amount: &amount})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation for transfer leg edit", err)
	}
}

func TestDebtPaymentsCannotBeEdited(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 100)

	debt, err := svc.CreateDebt(ctx, domain.DebtCreateRequest{
		Name:          "Loan",
		Direction:     domain.DebtDirectionOwedToMe,
		InitialAmount: decimal.NewFromInt(200),
		Currency:      "JOD",
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	payment, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("apply payment: %v", err)
	}

	amount := decimal.NewFromInt(60)
	_, err = svc.UpdateTransaction(ctx, payment.TransactionID, domain.TransactionUpdateRequest{Amount: &amount})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation for debt payment edit", err)
	}
}

func TestDeletingDebtPaymentRestoresDebtBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 100)

	debt, err := svc.CreateDebt(ctx, domain.DebtCreateRequest{
		Name:          "Loan",
		Direction:     domain.DebtDirectionOwedToMe,
		InitialAmount: decimal.NewFromInt(200),
		Currency:      "JOD",
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	payment, err := svc.ApplyDebtPayment(ctx, domain.DebtPaymentRequest{
		DebtID:    debt.ID,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(80),
	})
	if err != nil {
		t.Fatalf("apply payment: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, payment.TransactionID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}

	restored, err := svc.GetDebt(ctx, debt.ID)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if !restored.CurrentBalanceOwed.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("balance owed = %s, want 200 restored", restored.CurrentBalanceOwed)
	}
	if restored.Status != domain.DebtStatusActive {
		t.Fatalf("status = %s, want active", restored.Status)
	}
	if got := accountBalance(t, svc, ctx, account.ID); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("account balance = %s, want 100 after reversal", got)
	}
}

func TestListTransactionsFiltersByKind(t *testing.T) {
	svc, _ := newTestService()
	ctx := testCtx()
	account := mustCreateAccount(t, svc, ctx, "Wallet", 100)

	if _, err := svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind: domain.TxKindIncome, Amount: decimal.NewFromInt(10), AccountID: account.ID,
	}); err != nil {
		t.Fatalf("create income: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, domain.TransactionCreateRequest{
		Kind: domain.TxKindExpense, Amount: decimal.NewFromInt(5), AccountID: account.ID,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	expenses, err := svc.ListTransactions(ctx, domain.TransactionFilter{Kind: "EXPENSE"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Kind != domain.TxKindExpense {
		t.Fatalf("expected exactly the expense entry, got %d entries", len(expenses))
	}

	if _, err := svc.ListTransactions(ctx, domain.TransactionFilter{Kind: "loan"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad kind filter: got %v, want ErrValidation", err)
	}
}
