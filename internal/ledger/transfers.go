package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/xid"
)

// CreateTransfer moves funds between two same-currency accounts as two
// linked transactions sharing one correlation tag: an expense on the source
// and an income on the destination. Legs are inserted first, then
// reconciled one by one; a failure after the inserts surfaces as a partial
// failure naming the committed steps.
func (s *Service) CreateTransfer(ctx context.Context, req domain.TransferRequest) (domain.TransferResponse, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.TransferResponse{}, err
	}

	if req.FromAccountID == "" || req.ToAccountID == "" {
		return domain.TransferResponse{}, fmt.Errorf("%w: source and destination account ids required", ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return domain.TransferResponse{}, fmt.Errorf("%w: source and destination must differ", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return domain.TransferResponse{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	source, err := s.repo.GetAccount(ctx, ownerID, req.FromAccountID)
	if err != nil {
		return domain.TransferResponse{}, err
	}
	destination, err := s.repo.GetAccount(ctx, ownerID, req.ToAccountID)
	if err != nil {
		return domain.TransferResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Currency))
	if code == "" {
		code = source.Currency
	}
	if source.Currency != code || destination.Currency != code {
		return domain.TransferResponse{}, fmt.Errorf("%w: transfer requires %s on both accounts (source %s, destination %s)",
			ErrCurrencyMismatch, code, source.Currency, destination.Currency)
	}
	if source.Balance.LessThan(req.Amount) {
		return domain.TransferResponse{}, fmt.Errorf("%w: account %s balance %s below %s", ErrInsufficientFunds, source.ID, source.Balance, req.Amount)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	now := time.Now().UTC()
	correlationID := uuid.NewString()
	notes := strings.TrimSpace(req.Notes)

	outLeg := domain.Transaction{
		ID:            xid.New("txn"),
		OwnerID:       ownerID,
		Kind:          domain.TxKindExpense,
		Amount:        req.Amount,
		Currency:      code,
		AccountID:     source.ID,
		Date:          date,
		Notes:         notes,
		CorrelationID: correlationID,
		CreatedAt:     now,
	}
	inLeg := domain.Transaction{
		ID:            xid.New("txn"),
		OwnerID:       ownerID,
		Kind:          domain.TxKindIncome,
		Amount:        req.Amount,
		Currency:      code,
		AccountID:     destination.ID,
		Date:          date,
		Notes:         notes,
		CorrelationID: correlationID,
		CreatedAt:     now,
	}

	var completed []string
	if _, err := s.repo.CreateTransaction(ctx, outLeg); err != nil {
		return domain.TransferResponse{}, err
	}
	completed = append(completed, "outflow_insert")

	if _, err := s.repo.CreateTransaction(ctx, inLeg); err != nil {
		return domain.TransferResponse{}, &PartialFailureError{Op: "transfer", Completed: completed, Err: err}
	}
	completed = append(completed, "inflow_insert")

	if err := s.reconcile(ctx, ownerID, nil, effectOf(&outLeg)); err != nil {
		return domain.TransferResponse{}, &PartialFailureError{Op: "transfer", Completed: completed, Err: err}
	}
	completed = append(completed, "outflow_reconcile")

	if err := s.reconcile(ctx, ownerID, nil, effectOf(&inLeg)); err != nil {
		return domain.TransferResponse{}, &PartialFailureError{Op: "transfer", Completed: completed, Err: err}
	}

	s.log.Info().
		Str("correlation_id", correlationID).
		Str("from_account_id", source.ID).
		Str("to_account_id", destination.ID).
		Str("amount", req.Amount.String()).
		Msg("transfer created")

	return domain.TransferResponse{
		OutTransactionID: outLeg.ID,
		InTransactionID:  inLeg.ID,
		CorrelationID:    correlationID,
	}, nil
}
