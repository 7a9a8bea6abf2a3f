package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/xid"
)

func validAccountType(t string) bool {
	switch t {
	case domain.AccountTypeCash, domain.AccountTypeBank, domain.AccountTypeCustomer,
		domain.AccountTypeSupplier, domain.AccountTypeOther:
		return true
	}
	return false
}

// CreateAccount opens a balance bucket. The initial balance is the only
// point where a balance is set directly; afterwards it moves exclusively
// through the Reconciler. The currency must resolve in the owner's merged
// catalog.
func (s *Service) CreateAccount(ctx context.Context, req domain.AccountCreateRequest) (domain.Account, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	accountType := strings.ToLower(strings.TrimSpace(req.Type))
	code := strings.ToUpper(strings.TrimSpace(req.Currency))

	if req.Name == "" {
		return domain.Account{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !validAccountType(accountType) {
		return domain.Account{}, fmt.Errorf("%w: unknown account type %q", ErrValidation, accountType)
	}
	if code == "" {
		return domain.Account{}, fmt.Errorf("%w: currency required", ErrValidation)
	}

	catalog, err := s.currencies.ResolveAll(ctx, ownerID)
	if err != nil {
		return domain.Account{}, err
	}
	known := false
	for _, c := range catalog {
		if c.Code == code {
			known = true
			break
		}
	}
	if !known {
		return domain.Account{}, fmt.Errorf("%w: currency %s not in catalog", ErrValidation, code)
	}

	account := domain.Account{
		ID:          xid.New("acc"),
		OwnerID:     ownerID,
		Name:        req.Name,
		Type:        accountType,
		Currency:    code,
		Balance:     req.InitialBalance,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return domain.Account{}, err
	}
	s.log.Info().Str("account_id", created.ID).Str("currency", created.Currency).Msg("account created")
	return *created, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	account, err := s.repo.GetAccount(ctx, ownerID, id)
	if err != nil {
		return domain.Account{}, err
	}
	return *account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAccounts(ctx, ownerID)
}

// UpdateAccount edits display fields. Balance and currency are not
// user-editable after creation.
func (s *Service) UpdateAccount(ctx context.Context, id string, req domain.AccountUpdateRequest) (domain.Account, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	existing, err := s.repo.GetAccount(ctx, ownerID, id)
	if err != nil {
		return domain.Account{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Account{}, fmt.Errorf("%w: name required", ErrValidation)
		}
		updated.Name = name
	}
	if req.Type != nil {
		accountType := strings.ToLower(strings.TrimSpace(*req.Type))
		if !validAccountType(accountType) {
			return domain.Account{}, fmt.Errorf("%w: unknown account type %q", ErrValidation, accountType)
		}
		updated.Type = accountType
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}

	saved, err := s.repo.UpdateAccount(ctx, updated)
	if err != nil {
		return domain.Account{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}
