package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
)

// Effect is the footprint one transaction leaves on its referenced
// aggregates: a signed amount on an account and, when linked, a signed
// quantity on a material.
type Effect struct {
	AccountID      string
	SignedAmount   decimal.Decimal
	MaterialID     string
	SignedQuantity int
}

// effectOf derives a transaction's effect. Income adds to the account,
// expense subtracts; the material quantity is carried as recorded.
func effectOf(tx *domain.Transaction) *Effect {
	if tx == nil {
		return nil
	}
	signed := tx.Amount
	if tx.Kind == domain.TxKindExpense {
		signed = signed.Neg()
	}
	return &Effect{
		AccountID:      tx.AccountID,
		SignedAmount:   signed,
		MaterialID:     tx.MaterialID,
		SignedQuantity: tx.MaterialQuantityAffected,
	}
}

// reconcile applies the difference between a transaction's prior and new
// effect exactly once. Create passes prev = nil, delete passes next = nil,
// edit passes both. Same account between prev and next nets into one delta;
// a moved transaction reverses the old account fully and applies the new
// one fully, as two independent updates. Materials follow the same rule,
// independently of accounts. All deltas go through the store's atomic
// apply-delta primitives.
func (s *Service) reconcile(ctx context.Context, ownerID string, prev, next *Effect) error {
	if err := s.reconcileAccounts(ctx, ownerID, prev, next); err != nil {
		return err
	}
	return s.reconcileMaterials(ctx, ownerID, prev, next)
}

func (s *Service) reconcileAccounts(ctx context.Context, ownerID string, prev, next *Effect) error {
	if prev != nil && next != nil && prev.AccountID == next.AccountID {
		net := next.SignedAmount.Sub(prev.SignedAmount)
		if net.IsZero() {
			return nil
		}
		return s.applyAccountDelta(ctx, ownerID, prev.AccountID, net)
	}
	if prev != nil {
		if err := s.applyAccountDelta(ctx, ownerID, prev.AccountID, prev.SignedAmount.Neg()); err != nil {
			return err
		}
	}
	if next != nil {
		if err := s.applyAccountDelta(ctx, ownerID, next.AccountID, next.SignedAmount); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) reconcileMaterials(ctx context.Context, ownerID string, prev, next *Effect) error {
	prevLinked := prev != nil && prev.MaterialID != ""
	nextLinked := next != nil && next.MaterialID != ""

	if prevLinked && nextLinked && prev.MaterialID == next.MaterialID {
		net := next.SignedQuantity - prev.SignedQuantity
		if net == 0 {
			return nil
		}
		return s.applyMaterialDelta(ctx, ownerID, prev.MaterialID, net)
	}
	if prevLinked {
		if err := s.applyMaterialDelta(ctx, ownerID, prev.MaterialID, -prev.SignedQuantity); err != nil {
			return err
		}
	}
	if nextLinked {
		if err := s.applyMaterialDelta(ctx, ownerID, next.MaterialID, next.SignedQuantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) applyAccountDelta(ctx context.Context, ownerID, accountID string, delta decimal.Decimal) error {
	err := s.repo.ApplyAccountDelta(ctx, ownerID, accountID, delta)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: account %s", ErrMissingEntity, accountID)
	}
	return err
}

func (s *Service) applyMaterialDelta(ctx context.Context, ownerID, materialID string, delta int) error {
	err := s.repo.ApplyMaterialDelta(ctx, ownerID, materialID, delta)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: material %s", ErrMissingEntity, materialID)
	}
	return err
}
