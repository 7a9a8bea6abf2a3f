package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
	"nuzum/backend/internal/xid"
)

// CreateTransaction records a plain income/expense entry and reconciles its
// effect. The transaction's currency is captured from the target account at
// creation time.
func (s *Service) CreateTransaction(ctx context.Context, req domain.TransactionCreateRequest) (domain.Transaction, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind != domain.TxKindIncome && kind != domain.TxKindExpense {
		return domain.Transaction{}, fmt.Errorf("%w: kind must be income or expense", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return domain.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if req.AccountID == "" {
		return domain.Transaction{}, fmt.Errorf("%w: account id required", ErrValidation)
	}

	account, err := s.repo.GetAccount(ctx, ownerID, req.AccountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if kind == domain.TxKindExpense && account.Balance.LessThan(req.Amount) {
		return domain.Transaction{}, fmt.Errorf("%w: account %s balance %s below %s", ErrInsufficientFunds, account.ID, account.Balance, req.Amount)
	}

	if req.MaterialID != "" {
		if _, err := s.repo.GetMaterial(ctx, ownerID, req.MaterialID); err != nil {
			return domain.Transaction{}, err
		}
		if req.MaterialQuantityAffected == 0 {
			return domain.Transaction{}, fmt.Errorf("%w: material quantity affected must be non-zero", ErrValidation)
		}
	} else if req.MaterialQuantityAffected != 0 {
		return domain.Transaction{}, fmt.Errorf("%w: material quantity without material id", ErrValidation)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := domain.Transaction{
		ID:                       xid.New("txn"),
		OwnerID:                  ownerID,
		Kind:                     kind,
		Amount:                   req.Amount,
		Currency:                 account.Currency,
		AccountID:                account.ID,
		Date:                     date,
		Notes:                    strings.TrimSpace(req.Notes),
		MaterialID:               req.MaterialID,
		MaterialQuantityAffected: req.MaterialQuantityAffected,
		ImageURL:                 req.ImageURL,
		CreatedAt:                time.Now().UTC(),
	}

	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := s.reconcile(ctx, ownerID, nil, effectOf(created)); err != nil {
		return domain.Transaction{}, &PartialFailureError{
			Op:        "transaction_create",
			Completed: []string{"transaction_insert"},
			Err:       err,
		}
	}

	s.log.Info().Str("transaction_id", created.ID).Str("kind", created.Kind).Str("account_id", created.AccountID).Msg("transaction created")
	return *created, nil
}

// UpdateTransaction edits a plain entry and reconciles the difference.
// Transfer legs and debt-linked transactions are financial artifacts of
// their orchestrators and cannot be edited.
func (s *Service) UpdateTransaction(ctx context.Context, id string, req domain.TransactionUpdateRequest) (domain.Transaction, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	existing, err := s.repo.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if existing.CorrelationID != "" {
		return domain.Transaction{}, fmt.Errorf("%w: transfer legs cannot be edited", ErrValidation)
	}
	if existing.DebtID != "" {
		return domain.Transaction{}, fmt.Errorf("%w: debt payments cannot be edited", ErrValidation)
	}

	updated := *existing
	if req.Kind != nil {
		kind := strings.ToLower(strings.TrimSpace(*req.Kind))
		if kind != domain.TxKindIncome && kind != domain.TxKindExpense {
			return domain.Transaction{}, fmt.Errorf("%w: kind must be income or expense", ErrValidation)
		}
		updated.Kind = kind
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return domain.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
		}
		updated.Amount = *req.Amount
	}
	if req.AccountID != nil && *req.AccountID != existing.AccountID {
		account, err := s.repo.GetAccount(ctx, ownerID, *req.AccountID)
		if err != nil {
			return domain.Transaction{}, err
		}
		updated.AccountID = account.ID
		updated.Currency = account.Currency
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.MaterialID != nil {
		if *req.MaterialID != "" {
			if _, err := s.repo.GetMaterial(ctx, ownerID, *req.MaterialID); err != nil {
				return domain.Transaction{}, err
			}
		}
		updated.MaterialID = *req.MaterialID
	}
	if req.MaterialQuantityAffected != nil {
		updated.MaterialQuantityAffected = *req.MaterialQuantityAffected
	}
	if updated.MaterialID == "" && updated.MaterialQuantityAffected != 0 {
		return domain.Transaction{}, fmt.Errorf("%w: material quantity without material id", ErrValidation)
	}
	if updated.MaterialID != "" && updated.MaterialQuantityAffected == 0 {
		return domain.Transaction{}, fmt.Errorf("%w: material quantity affected must be non-zero", ErrValidation)
	}
	if req.ImageURL != nil {
		if existing.ImageURL != "" && existing.ImageURL != *req.ImageURL {
			s.removeImage(ctx, existing.ImageURL)
		}
		updated.ImageURL = *req.ImageURL
	}

	saved, err := s.repo.UpdateTransaction(ctx, updated)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := s.reconcile(ctx, ownerID, effectOf(existing), effectOf(saved)); err != nil {
		return domain.Transaction{}, &PartialFailureError{
			Op:        "transaction_update",
			Completed: []string{"transaction_update"},
			Err:       err,
		}
	}

	s.log.Info().Str("transaction_id", saved.ID).Msg("transaction updated")
	return *saved, nil
}

// DeleteTransaction removes an entry and reverses its effect. Deleting a
// transfer leg reverses only that leg. Deleting a debt payment restores the
// paid amount onto the debt.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTransaction(ctx, ownerID, id); err != nil {
		return err
	}
	completed := []string{"transaction_delete"}

	if err := s.reconcile(ctx, ownerID, effectOf(existing), nil); err != nil {
		return &PartialFailureError{Op: "transaction_delete", Completed: completed, Err: err}
	}
	completed = append(completed, "reconcile")

	if existing.DebtID != "" {
		if err := s.restoreDebtBalance(ctx, ownerID, existing.DebtID, existing.Amount); err != nil {
			return &PartialFailureError{Op: "transaction_delete", Completed: completed, Err: err}
		}
	}

	s.removeImage(ctx, existing.ImageURL)
	s.log.Info().Str("transaction_id", id).Msg("transaction deleted")
	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx, err := s.repo.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Kind != "" {
		kind := strings.ToLower(strings.TrimSpace(filter.Kind))
		if kind != domain.TxKindIncome && kind != domain.TxKindExpense {
			return nil, fmt.Errorf("%w: kind must be income or expense", ErrValidation)
		}
		filter.Kind = kind
	}
	return s.repo.ListTransactions(ctx, ownerID, filter)
}

// restoreDebtBalance puts a deleted payment's amount back onto the debt and
// recomputes its status.
func (s *Service) restoreDebtBalance(ctx context.Context, ownerID, debtID string, amount decimal.Decimal) error {
	debt, err := s.repo.GetDebt(ctx, ownerID, debtID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: debt %s", ErrMissingEntity, debtID)
		}
		return err
	}
	balance := debt.CurrentBalanceOwed.Add(amount)
	if balance.GreaterThan(debt.InitialAmount) {
		balance = debt.InitialAmount
	}
	return s.repo.UpdateDebtBalance(ctx, ownerID, debtID, balance, debtStatusFor(balance, debt.InitialAmount))
}
