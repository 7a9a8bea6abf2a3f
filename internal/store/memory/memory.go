package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
	"nuzum/backend/internal/xid"
)

type Store struct {
	mu               sync.RWMutex
	accountsByID     map[string]domain.Account
	materialsByID    map[string]domain.Material
	transactionsByID map[string]domain.Transaction
	debtsByID        map[string]domain.Debt
	currenciesByID   map[string]domain.Currency
	usersByUsername  map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		accountsByID:     make(map[string]domain.Account),
		materialsByID:    make(map[string]domain.Material),
		transactionsByID: make(map[string]domain.Transaction),
		debtsByID:        make(map[string]domain.Debt),
		currenciesByID:   make(map[string]domain.Currency),
		usersByUsername:  make(map[string]domain.UserAccount),
	}
}

// NewSeeded builds a store preloaded with a dev user and a couple of
// accounts so the API is usable without PostgreSQL. The dev password comes
// from SEED_USER_PASSWORD; a hardcoded default is used with a warning when
// unset. Never used in production (DATABASE_URL selects postgres).
func NewSeeded() *Store {
	s := New()

	password := envOr("SEED_USER_PASSWORD", "nuzum123")
	if os.Getenv("SEED_USER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_USER_PASSWORD to override.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[memory-store] failed to hash seed password: %v", err)
	}

	now := time.Now().UTC()
	ownerID := "usr-seed"
	s.usersByUsername["demo"] = domain.UserAccount{
		ID:        ownerID,
		Username:  "demo",
		Password:  string(hash),
		Active:    true,
		CreatedAt: now,
	}

	for _, a := range []domain.Account{
		{ID: xid.New("acc"), OwnerID: ownerID, Name: "Cash Box", Type: domain.AccountTypeCash, Currency: "JOD", Balance: decimal.NewFromInt(500), CreatedAt: now},
		{ID: xid.New("acc"), OwnerID: ownerID, Name: "Bank", Type: domain.AccountTypeBank, Currency: "JOD", Balance: decimal.NewFromInt(2500), CreatedAt: now},
	} {
		s.accountsByID[a.ID] = a
	}
	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *Store) CreateAccount(_ context.Context, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountsByID[account.ID]; exists {
		return nil, store.ErrDuplicate
	}
	s.accountsByID[account.ID] = account
	created := account
	return &created, nil
}

func (s *Store) GetAccount(_ context.Context, ownerID, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accountsByID[id]
	if !exists || account.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (s *Store) ListAccounts(_ context.Context, ownerID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accountsByID))
	for _, a := range s.accountsByID {
		if a.OwnerID != ownerID {
			continue
		}
		accounts = append(accounts, a)
	}
	slices.SortFunc(accounts, func(a, b domain.Account) int {
		return strings.Compare(a.Name, b.Name)
	})
	return accounts, nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.accountsByID[account.ID]
	if !exists || existing.OwnerID != account.OwnerID {
		return nil, store.ErrNotFound
	}
	// Balance only ever moves through ApplyAccountDelta.
	account.Balance = existing.Balance
	s.accountsByID[account.ID] = account
	updated := account
	return &updated, nil
}

func (s *Store) DeleteAccount(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accountsByID[id]
	if !exists || account.OwnerID != ownerID {
		return store.ErrNotFound
	}
	for _, tx := range s.transactionsByID {
		if tx.OwnerID == ownerID && tx.AccountID == id {
			return store.ErrConstraintViolation
		}
	}
	delete(s.accountsByID, id)
	return nil
}

func (s *Store) ApplyAccountDelta(_ context.Context, ownerID, id string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accountsByID[id]
	if !exists || account.OwnerID != ownerID {
		return store.ErrNotFound
	}
	account.Balance = account.Balance.Add(delta)
	s.accountsByID[id] = account
	return nil
}

func (s *Store) CreateMaterial(_ context.Context, material domain.Material) (*domain.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.materialsByID[material.ID]; exists {
		return nil, store.ErrDuplicate
	}
	s.materialsByID[material.ID] = material
	created := material
	return &created, nil
}

func (s *Store) GetMaterial(_ context.Context, ownerID, id string) (*domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	material, exists := s.materialsByID[id]
	if !exists || material.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := material
	return &copied, nil
}

func (s *Store) ListMaterials(_ context.Context, ownerID string) ([]domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	materials := make([]domain.Material, 0, len(s.materialsByID))
	for _, m := range s.materialsByID {
		if m.OwnerID != ownerID {
			continue
		}
		materials = append(materials, m)
	}
	slices.SortFunc(materials, func(a, b domain.Material) int {
		return strings.Compare(a.Name, b.Name)
	})
	return materials, nil
}

func (s *Store) UpdateMaterial(_ context.Context, material domain.Material) (*domain.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.materialsByID[material.ID]
	if !exists || existing.OwnerID != material.OwnerID {
		return nil, store.ErrNotFound
	}
	material.Quantity = existing.Quantity
	s.materialsByID[material.ID] = material
	updated := material
	return &updated, nil
}

func (s *Store) DeleteMaterial(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	material, exists := s.materialsByID[id]
	if !exists || material.OwnerID != ownerID {
		return store.ErrNotFound
	}
	for _, tx := range s.transactionsByID {
		if tx.OwnerID == ownerID && tx.MaterialID == id {
			return store.ErrConstraintViolation
		}
	}
	delete(s.materialsByID, id)
	return nil
}

func (s *Store) ApplyMaterialDelta(_ context.Context, ownerID, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	material, exists := s.materialsByID[id]
	if !exists || material.OwnerID != ownerID {
		return store.ErrNotFound
	}
	material.Quantity += delta
	s.materialsByID[id] = material
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactionsByID[tx.ID]; exists {
		return nil, store.ErrDuplicate
	}
	if account, ok := s.accountsByID[tx.AccountID]; !ok || account.OwnerID != tx.OwnerID {
		return nil, store.ErrConstraintViolation
	}
	if tx.MaterialID != "" {
		if material, ok := s.materialsByID[tx.MaterialID]; !ok || material.OwnerID != tx.OwnerID {
			return nil, store.ErrConstraintViolation
		}
	}
	if tx.DebtID != "" {
		if debt, ok := s.debtsByID[tx.DebtID]; !ok || debt.OwnerID != tx.OwnerID {
			return nil, store.ErrConstraintViolation
		}
	}
	s.transactionsByID[tx.ID] = tx
	created := tx
	return &created, nil
}

func (s *Store) GetTransaction(_ context.Context, ownerID, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactionsByID[id]
	if !exists || tx.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := tx
	return &copied, nil
}

func (s *Store) ListTransactions(_ context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]domain.Transaction, 0, len(s.transactionsByID))
	for _, tx := range s.transactionsByID {
		if tx.OwnerID != ownerID {
			continue
		}
		if filter.AccountID != "" && tx.AccountID != filter.AccountID {
			continue
		}
		if filter.MaterialID != "" && tx.MaterialID != filter.MaterialID {
			continue
		}
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		if filter.DateFrom != nil && tx.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && tx.Date.After(*filter.DateTo) {
			continue
		}
		txs = append(txs, tx)
	}
	slices.SortFunc(txs, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return txs, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.transactionsByID[tx.ID]
	if !exists || existing.OwnerID != tx.OwnerID {
		return nil, store.ErrNotFound
	}
	if account, ok := s.accountsByID[tx.AccountID]; !ok || account.OwnerID != tx.OwnerID {
		return nil, store.ErrConstraintViolation
	}
	if tx.MaterialID != "" {
		if material, ok := s.materialsByID[tx.MaterialID]; !ok || material.OwnerID != tx.OwnerID {
			return nil, store.ErrConstraintViolation
		}
	}
	s.transactionsByID[tx.ID] = tx
	updated := tx
	return &updated, nil
}

func (s *Store) DeleteTransaction(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.transactionsByID[id]
	if !exists || tx.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.transactionsByID, id)
	return nil
}

func (s *Store) CreateDebt(_ context.Context, debt domain.Debt) (*domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.debtsByID[debt.ID]; exists {
		return nil, store.ErrDuplicate
	}
	s.debtsByID[debt.ID] = debt
	created := debt
	return &created, nil
}

func (s *Store) GetDebt(_ context.Context, ownerID, id string) (*domain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, exists := s.debtsByID[id]
	if !exists || debt.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := debt
	return &copied, nil
}

func (s *Store) ListDebts(_ context.Context, ownerID string) ([]domain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debts := make([]domain.Debt, 0, len(s.debtsByID))
	for _, d := range s.debtsByID {
		if d.OwnerID != ownerID {
			continue
		}
		debts = append(debts, d)
	}
	slices.SortFunc(debts, func(a, b domain.Debt) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return debts, nil
}

func (s *Store) UpdateDebt(_ context.Context, debt domain.Debt) (*domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.debtsByID[debt.ID]
	if !exists || existing.OwnerID != debt.OwnerID {
		return nil, store.ErrNotFound
	}
	// Financial fields only move through UpdateDebtBalance.
	debt.InitialAmount = existing.InitialAmount
	debt.CurrentBalanceOwed = existing.CurrentBalanceOwed
	debt.Status = existing.Status
	s.debtsByID[debt.ID] = debt
	updated := debt
	return &updated, nil
}

func (s *Store) DeleteDebt(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt, exists := s.debtsByID[id]
	if !exists || debt.OwnerID != ownerID {
		return store.ErrNotFound
	}
	for _, tx := range s.transactionsByID {
		if tx.OwnerID == ownerID && tx.DebtID == id {
			return store.ErrConstraintViolation
		}
	}
	delete(s.debtsByID, id)
	return nil
}

func (s *Store) UpdateDebtBalance(_ context.Context, ownerID, id string, balance decimal.Decimal, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt, exists := s.debtsByID[id]
	if !exists || debt.OwnerID != ownerID {
		return store.ErrNotFound
	}
	debt.CurrentBalanceOwed = balance
	debt.Status = status
	s.debtsByID[id] = debt
	return nil
}

func (s *Store) CreateCurrency(_ context.Context, currency domain.Currency) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.currenciesByID[currency.ID]; exists {
		return nil, store.ErrDuplicate
	}
	for _, c := range s.currenciesByID {
		if c.OwnerID == currency.OwnerID && c.Code == currency.Code {
			return nil, store.ErrDuplicate
		}
	}
	s.currenciesByID[currency.ID] = currency
	created := currency
	return &created, nil
}

func (s *Store) GetCurrency(_ context.Context, ownerID, id string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, exists := s.currenciesByID[id]
	if !exists || currency.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := currency
	return &copied, nil
}

func (s *Store) ListCurrencies(_ context.Context, ownerID string) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currencies := make([]domain.Currency, 0, len(s.currenciesByID))
	for _, c := range s.currenciesByID {
		if c.OwnerID != ownerID {
			continue
		}
		currencies = append(currencies, c)
	}
	slices.SortFunc(currencies, func(a, b domain.Currency) int {
		return strings.Compare(a.Code, b.Code)
	})
	return currencies, nil
}

func (s *Store) UpdateCurrency(_ context.Context, currency domain.Currency) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.currenciesByID[currency.ID]
	if !exists || existing.OwnerID != currency.OwnerID {
		return nil, store.ErrNotFound
	}
	currency.Code = existing.Code
	s.currenciesByID[currency.ID] = currency
	updated := currency
	return &updated, nil
}

func (s *Store) DeleteCurrency(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	currency, exists := s.currenciesByID[id]
	if !exists || currency.OwnerID != ownerID {
		return store.ErrNotFound
	}
	for _, a := range s.accountsByID {
		if a.OwnerID == ownerID && a.Currency == currency.Code {
			return store.ErrConstraintViolation
		}
	}
	delete(s.currenciesByID, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[user.Username]; exists {
		return store.ErrDuplicate
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := user
	return &copied, nil
}
