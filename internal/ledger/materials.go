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

// AcquireMaterial creates a material or restocks an existing one, and
// optionally books the purchase as an expense on a funding account. The
// material write commits first; a failure in the purchase step afterwards
// surfaces as a partial failure distinct from a material-write failure.
func (s *Service) AcquireMaterial(ctx context.Context, req domain.AcquireMaterialRequest) (domain.AcquireMaterialResponse, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.AcquireMaterialResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.UnitCost.IsNegative() {
		return domain.AcquireMaterialResponse{}, fmt.Errorf("%w: unit cost cannot be negative", ErrValidation)
	}

	var materialID string
	var completed []string

	if req.MaterialID == "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return domain.AcquireMaterialResponse{}, fmt.Errorf("%w: name required for a new material", ErrValidation)
		}
		if req.QuantityDelta < 0 {
			return domain.AcquireMaterialResponse{}, fmt.Errorf("%w: initial quantity cannot be negative", ErrValidation)
		}
		if code == "" {
			return domain.AcquireMaterialResponse{}, fmt.Errorf("%w: currency required", ErrValidation)
		}

		material := domain.Material{
			ID:           xid.New("mat"),
			OwnerID:      ownerID,
			Name:         name,
			PricePerUnit: req.UnitCost,
			Currency:     code,
			Quantity:     req.QuantityDelta,
			UnitType:     strings.TrimSpace(req.UnitType),
			ImageURL:     req.ImageURL,
			CreatedAt:    time.Now().UTC(),
		}
		created, err := s.repo.CreateMaterial(ctx, material)
		if err != nil {
			return domain.AcquireMaterialResponse{}, err
		}
		materialID = created.ID
		completed = append(completed, "material_create")
	} else {
		if req.QuantityDelta <= 0 {
			return domain.AcquireMaterialResponse{}, fmt.Errorf("%w: restock quantity must be positive", ErrValidation)
		}
		existing, err := s.repo.GetMaterial(ctx, ownerID, req.MaterialID)
		if err != nil {
			return domain.AcquireMaterialResponse{}, err
		}
		materialID = existing.ID

		if !req.UnitCost.IsZero() || (code != "" && code != existing.Currency) {
			updated := *existing
			if !req.UnitCost.IsZero() {
				updated.PricePerUnit = req.UnitCost
			}
			if code != "" {
				updated.Currency = code
			}
			if _, err := s.repo.UpdateMaterial(ctx, updated); err != nil {
				return domain.AcquireMaterialResponse{}, err
			}
		}
		if code == "" {
			code = existing.Currency
		}
		if err := s.repo.ApplyMaterialDelta(ctx, ownerID, existing.ID, req.QuantityDelta); err != nil {
			return domain.AcquireMaterialResponse{}, err
		}
		completed = append(completed, "material_restock")
	}

	if req.FundingAccountID == "" || req.QuantityDelta == 0 {
		return domain.AcquireMaterialResponse{MaterialID: materialID}, nil
	}

	txID, err := s.bookPurchase(ctx, ownerID, materialID, code, req)
	if err != nil {
		return domain.AcquireMaterialResponse{MaterialID: materialID},
			&PartialFailureError{Op: "material_acquisition", Completed: completed, Err: err}
	}

	s.log.Info().Str("material_id", materialID).Str("transaction_id", txID).Int("quantity_delta", req.QuantityDelta).Msg("material acquired")
	return domain.AcquireMaterialResponse{MaterialID: materialID, TransactionID: txID}, nil
}

// bookPurchase records the funding expense for an acquisition. The linked
// transaction carries the positive stock delta for the audit trail, but the
// account is the only aggregate reconciled here: the material write already
// applied the quantity.
func (s *Service) bookPurchase(ctx context.Context, ownerID, materialID, code string, req domain.AcquireMaterialRequest) (string, error) {
	account, err := s.repo.GetAccount(ctx, ownerID, req.FundingAccountID)
	if err != nil {
		return "", err
	}
	if account.Currency != code {
		return "", fmt.Errorf("%w: funding account is %s, purchase is %s", ErrCurrencyMismatch, account.Currency, code)
	}

	total := req.UnitCost.Mul(decimal.NewFromInt(int64(req.QuantityDelta)))
	if !total.IsPositive() {
		return "", fmt.Errorf("%w: purchase total must be positive", ErrValidation)
	}
	if account.Balance.LessThan(total) {
		return "", fmt.Errorf("%w: account %s balance %s below %s", ErrInsufficientFunds, account.ID, account.Balance, total)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	purchase := domain.Transaction{
		ID:                       xid.New("txn"),
		OwnerID:                  ownerID,
		Kind:                     domain.TxKindExpense,
		Amount:                   total,
		Currency:                 code,
		AccountID:                account.ID,
		Date:                     date,
		Notes:                    strings.TrimSpace(req.Notes),
		MaterialID:               materialID,
		MaterialQuantityAffected: req.QuantityDelta,
		CreatedAt:                time.Now().UTC(),
	}
	created, err := s.repo.CreateTransaction(ctx, purchase)
	if err != nil {
		return "", err
	}

	accountOnly := &Effect{AccountID: created.AccountID, SignedAmount: created.Amount.Neg()}
	if err := s.reconcile(ctx, ownerID, nil, accountOnly); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *Service) GetMaterial(ctx context.Context, id string) (domain.Material, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Material{}, err
	}
	material, err := s.repo.GetMaterial(ctx, ownerID, id)
	if err != nil {
		return domain.Material{}, err
	}
	return *material, nil
}

func (s *Service) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMaterials(ctx, ownerID)
}

// UpdateMaterial edits display fields only; stock moves through
// AcquireMaterial and the Reconciler.
func (s *Service) UpdateMaterial(ctx context.Context, id string, req domain.MaterialUpdateRequest) (domain.Material, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Material{}, err
	}

	existing, err := s.repo.GetMaterial(ctx, ownerID, id)
	if err != nil {
		return domain.Material{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Material{}, fmt.Errorf("%w: name required", ErrValidation)
		}
		updated.Name = name
	}
	if req.UnitType != nil {
		updated.UnitType = strings.TrimSpace(*req.UnitType)
	}
	if req.ImageURL != nil {
		if existing.ImageURL != "" && existing.ImageURL != *req.ImageURL {
			s.removeImage(ctx, existing.ImageURL)
		}
		updated.ImageURL = *req.ImageURL
	}

	saved, err := s.repo.UpdateMaterial(ctx, updated)
	if err != nil {
		return domain.Material{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return err
	}
	existing, err := s.repo.GetMaterial(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMaterial(ctx, ownerID, id); err != nil {
		return err
	}
	s.removeImage(ctx, existing.ImageURL)
	s.log.Info().Str("material_id", id).Msg("material deleted")
	return nil
}
