package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/xid"
)

func (s *Service) CreateDebt(ctx context.Context, req domain.DebtCreateRequest) (domain.Debt, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Debt{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.PartyName = strings.TrimSpace(req.PartyName)
	direction := strings.ToLower(strings.TrimSpace(req.Direction))
	code := strings.ToUpper(strings.TrimSpace(req.Currency))

	if req.Name == "" {
		return domain.Debt{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	if direction != domain.DebtDirectionIOwe && direction != domain.DebtDirectionOwedToMe {
		return domain.Debt{}, fmt.Errorf("%w: direction must be i_owe or owed_to_me", ErrValidation)
	}
	if !req.InitialAmount.IsPositive() {
		return domain.Debt{}, fmt.Errorf("%w: initial amount must be positive", ErrValidation)
	}
	if code == "" {
		return domain.Debt{}, fmt.Errorf("%w: currency required", ErrValidation)
	}

	debt := domain.Debt{
		ID:                 xid.New("dbt"),
		OwnerID:            ownerID,
		Name:               req.Name,
		Direction:          direction,
		PartyName:          req.PartyName,
		InitialAmount:      req.InitialAmount,
		Currency:           code,
		CurrentBalanceOwed: req.InitialAmount,
		DueDate:            req.DueDate,
		Status:             domain.DebtStatusActive,
		Notes:              strings.TrimSpace(req.Notes),
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.repo.CreateDebt(ctx, debt)
	if err != nil {
		return domain.Debt{}, err
	}
	s.log.Info().Str("debt_id", created.ID).Str("direction", created.Direction).Msg("debt created")
	return *created, nil
}

func (s *Service) GetDebt(ctx context.Context, id string) (domain.Debt, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Debt{}, err
	}
	debt, err := s.repo.GetDebt(ctx, ownerID, id)
	if err != nil {
		return domain.Debt{}, err
	}
	return *debt, nil
}

func (s *Service) ListDebts(ctx context.Context) ([]domain.Debt, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListDebts(ctx, ownerID)
}

// UpdateDebt edits display fields only. The financial fields move solely
// through payments and payment deletions.
func (s *Service) UpdateDebt(ctx context.Context, id string, req domain.DebtUpdateRequest) (domain.Debt, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Debt{}, err
	}

	existing, err := s.repo.GetDebt(ctx, ownerID, id)
	if err != nil {
		return domain.Debt{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Debt{}, fmt.Errorf("%w: name required", ErrValidation)
		}
		updated.Name = name
	}
	if req.PartyName != nil {
		updated.PartyName = strings.TrimSpace(*req.PartyName)
	}
	if req.DueDate != nil {
		updated.DueDate = req.DueDate
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}

	saved, err := s.repo.UpdateDebt(ctx, updated)
	if err != nil {
		return domain.Debt{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteDebt(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDebt(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info().Str("debt_id", id).Msg("debt deleted")
	return nil
}

// ApplyDebtPayment records a partial or full payment against a debt. The
// payment transaction is inserted and reconciled first; only then is the
// debt's outstanding balance and status updated. A debt-update failure
// after the committed transaction surfaces as a partial failure.
func (s *Service) ApplyDebtPayment(ctx context.Context, req domain.DebtPaymentRequest) (domain.DebtPaymentResponse, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.DebtPaymentResponse{}, err
	}

	if !req.Amount.IsPositive() {
		return domain.DebtPaymentResponse{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	debt, err := s.repo.GetDebt(ctx, ownerID, req.DebtID)
	if err != nil {
		return domain.DebtPaymentResponse{}, err
	}
	account, err := s.repo.GetAccount(ctx, ownerID, req.AccountID)
	if err != nil {
		return domain.DebtPaymentResponse{}, err
	}

	if req.Amount.GreaterThan(debt.CurrentBalanceOwed) {
		return domain.DebtPaymentResponse{}, fmt.Errorf("%w: payment %s exceeds outstanding %s", ErrValidation, req.Amount, debt.CurrentBalanceOwed)
	}
	if account.Currency != debt.Currency {
		return domain.DebtPaymentResponse{}, fmt.Errorf("%w: account is %s, debt is %s", ErrCurrencyMismatch, account.Currency, debt.Currency)
	}

	kind := domain.TxKindIncome
	if debt.Direction == domain.DebtDirectionIOwe {
		kind = domain.TxKindExpense
		if account.Balance.LessThan(req.Amount) {
			return domain.DebtPaymentResponse{}, fmt.Errorf("%w: account %s balance %s below %s", ErrInsufficientFunds, account.ID, account.Balance, req.Amount)
		}
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	payment := domain.Transaction{
		ID:        xid.New("txn"),
		OwnerID:   ownerID,
		Kind:      kind,
		Amount:    req.Amount,
		Currency:  debt.Currency,
		AccountID: account.ID,
		Date:      date,
		Notes:     strings.TrimSpace(req.Notes),
		DebtID:    debt.ID,
		CreatedAt: time.Now().UTC(),
	}

	var completed []string
	created, err := s.repo.CreateTransaction(ctx, payment)
	if err != nil {
		return domain.DebtPaymentResponse{}, err
	}
	completed = append(completed, "payment_insert")

	if err := s.reconcile(ctx, ownerID, nil, effectOf(created)); err != nil {
		return domain.DebtPaymentResponse{}, &PartialFailureError{Op: "debt_payment", Completed: completed, Err: err}
	}
	completed = append(completed, "payment_reconcile")

	balance := debt.CurrentBalanceOwed.Sub(req.Amount)
	status := debtStatusFor(balance, debt.InitialAmount)
	if err := s.repo.UpdateDebtBalance(ctx, ownerID, debt.ID, balance, status); err != nil {
		return domain.DebtPaymentResponse{}, &PartialFailureError{Op: "debt_payment", Completed: completed, Err: err}
	}

	s.log.Info().
		Str("debt_id", debt.ID).
		Str("transaction_id", created.ID).
		Str("amount", req.Amount.String()).
		Str("status", status).
		Msg("debt payment applied")

	return domain.DebtPaymentResponse{
		TransactionID: created.ID,
		DebtStatus:    status,
		RemainingOwed: balance,
	}, nil
}

// debtStatusFor derives a debt's status from its outstanding balance:
// zero means paid, anything between zero and the initial amount means
// partially paid, a full balance means active again.
func debtStatusFor(balance, initial decimal.Decimal) string {
	switch {
	case balance.IsZero() || balance.IsNegative():
		return domain.DebtStatusPaid
	case balance.LessThan(initial):
		return domain.DebtStatusPartiallyPaid
	default:
		return domain.DebtStatusActive
	}
}
