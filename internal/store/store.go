package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("duplicate")
	ErrConstraintViolation = errors.New("constraint violation")
)

type Repository interface {
	CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
	GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, ownerID, id string) error
	// ApplyAccountDelta adjusts an account balance atomically at the
	// storage boundary. Callers never read-modify-write balances.
	ApplyAccountDelta(ctx context.Context, ownerID, id string, delta decimal.Decimal) error

	CreateMaterial(ctx context.Context, material domain.Material) (*domain.Material, error)
	GetMaterial(ctx context.Context, ownerID, id string) (*domain.Material, error)
	ListMaterials(ctx context.Context, ownerID string) ([]domain.Material, error)
	UpdateMaterial(ctx context.Context, material domain.Material) (*domain.Material, error)
	DeleteMaterial(ctx context.Context, ownerID, id string) error
	ApplyMaterialDelta(ctx context.Context, ownerID, id string, delta int) error

	CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error

	CreateDebt(ctx context.Context, debt domain.Debt) (*domain.Debt, error)
	GetDebt(ctx context.Context, ownerID, id string) (*domain.Debt, error)
	ListDebts(ctx context.Context, ownerID string) ([]domain.Debt, error)
	UpdateDebt(ctx context.Context, debt domain.Debt) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, ownerID, id string) error
	UpdateDebtBalance(ctx context.Context, ownerID, id string, balance decimal.Decimal, status string) error

	CreateCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error)
	GetCurrency(ctx context.Context, ownerID, id string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context, ownerID string) ([]domain.Currency, error)
	UpdateCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error)
	DeleteCurrency(ctx context.Context, ownerID, id string) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
}
