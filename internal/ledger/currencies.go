package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/currency"
	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/xid"
)

// ListCurrencies returns the owner's merged catalog: the global entries
// plus their custom currencies, custom winning on code collision.
func (s *Service) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	return s.currencies.ResolveAll(ctx, ownerID)
}

// FormatAmount renders an amount using the owner's merged catalog for
// symbol lookup on custom codes.
func (s *Service) FormatAmount(ctx context.Context, amount decimal.Decimal, code string) (string, error) {
	catalog, err := s.ListCurrencies(ctx)
	if err != nil {
		return "", err
	}
	return currency.FormatAmount(amount, code, catalog), nil
}

func (s *Service) CreateCurrency(ctx context.Context, req domain.CurrencyCreateRequest) (domain.Currency, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Currency{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)
	symbol := strings.TrimSpace(req.Symbol)

	if code == "" || name == "" {
		return domain.Currency{}, fmt.Errorf("%w: code and name required", ErrValidation)
	}
	if len(code) > 8 {
		return domain.Currency{}, fmt.Errorf("%w: code too long", ErrValidation)
	}

	created, err := s.repo.CreateCurrency(ctx, domain.Currency{
		ID:       xid.New("cur"),
		Code:     code,
		Name:     name,
		Symbol:   symbol,
		IsCustom: true,
		OwnerID:  ownerID,
	})
	if err != nil {
		return domain.Currency{}, err
	}

	if err := s.currencies.Invalidate(ctx, ownerID); err != nil {
		s.log.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate currency catalog cache")
	}
	s.log.Info().Str("currency_id", created.ID).Str("code", created.Code).Msg("custom currency created")
	return *created, nil
}

func (s *Service) UpdateCurrency(ctx context.Context, id string, req domain.CurrencyUpdateRequest) (domain.Currency, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Currency{}, err
	}

	existing, err := s.repo.GetCurrency(ctx, ownerID, id)
	if err != nil {
		return domain.Currency{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Currency{}, fmt.Errorf("%w: name required", ErrValidation)
		}
		updated.Name = name
	}
	if req.Symbol != nil {
		updated.Symbol = strings.TrimSpace(*req.Symbol)
	}

	saved, err := s.repo.UpdateCurrency(ctx, updated)
	if err != nil {
		return domain.Currency{}, err
	}

	if err := s.currencies.Invalidate(ctx, ownerID); err != nil {
		s.log.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate currency catalog cache")
	}
	return *saved, nil
}

// DeleteCurrency removes a custom currency. Refused while any of the
// owner's accounts is denominated in its code.
func (s *Service) DeleteCurrency(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCurrency(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.currencies.Invalidate(ctx, ownerID); err != nil {
		s.log.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate currency catalog cache")
	}
	s.log.Info().Str("currency_id", id).Msg("custom currency deleted")
	return nil
}
