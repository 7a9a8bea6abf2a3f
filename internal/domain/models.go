package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeCash     = "cash"
	AccountTypeBank     = "bank"
	AccountTypeCustomer = "customer"
	AccountTypeSupplier = "supplier"
	AccountTypeOther    = "other"
)

const (
	TxKindIncome  = "income"
	TxKindExpense = "expense"
)

const (
	DebtDirectionIOwe     = "i_owe"
	DebtDirectionOwedToMe = "owed_to_me"
)

const (
	DebtStatusActive        = "active"
	DebtStatusPartiallyPaid = "partially_paid"
	DebtStatusPaid          = "paid"
)

type Account struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AccountCreateRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Description    string          `json:"description"`
}

type AccountUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Material struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Name         string          `json:"name"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Currency     string          `json:"currency"`
	Quantity     int             `json:"quantity"`
	UnitType     string          `json:"unit_type"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type MaterialUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	UnitType *string `json:"unit_type,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// AcquireMaterialRequest drives both material creation and restocking.
// MaterialID empty means create; otherwise QuantityDelta is added to the
// existing stock. FundingAccountID set means the acquisition is also booked
// as an expense on that account.
type AcquireMaterialRequest struct {
	MaterialID       string          `json:"material_id,omitempty"`
	Name             string          `json:"name,omitempty"`
	UnitType         string          `json:"unit_type,omitempty"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Currency         string          `json:"currency"`
	QuantityDelta    int             `json:"quantity_delta"`
	FundingAccountID string          `json:"funding_account_id,omitempty"`
	Date             time.Time       `json:"date"`
	Notes            string          `json:"notes,omitempty"`
	ImageURL         string          `json:"image_url,omitempty"`
}

type AcquireMaterialResponse struct {
	MaterialID    string `json:"material_id"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type Transaction struct {
	ID                       string          `json:"id"`
	OwnerID                  string          `json:"owner_id"`
	Kind                     string          `json:"kind"`
	Amount                   decimal.Decimal `json:"amount"`
	Currency                 string          `json:"currency"`
	AccountID                string          `json:"account_id"`
	Date                     time.Time       `json:"date"`
	Notes                    string          `json:"notes,omitempty"`
	MaterialID               string          `json:"material_id,omitempty"`
	MaterialQuantityAffected int             `json:"material_quantity_affected,omitempty"`
	ImageURL                 string          `json:"image_url,omitempty"`
	CorrelationID            string          `json:"correlation_id,omitempty"`
	DebtID                   string          `json:"debt_id,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
}

type TransactionCreateRequest struct {
	Kind                     string          `json:"kind"`
	Amount                   decimal.Decimal `json:"amount"`
	AccountID                string          `json:"account_id"`
	Date                     time.Time       `json:"date"`
	Notes                    string          `json:"notes"`
	MaterialID               string          `json:"material_id,omitempty"`
	MaterialQuantityAffected int             `json:"material_quantity_affected,omitempty"`
	ImageURL                 string          `json:"image_url,omitempty"`
}

type TransactionUpdateRequest struct {
	Kind                     *string          `json:"kind,omitempty"`
	Amount                   *decimal.Decimal `json:"amount,omitempty"`
	AccountID                *string          `json:"account_id,omitempty"`
	Date                     *time.Time       `json:"date,omitempty"`
	Notes                    *string          `json:"notes,omitempty"`
	MaterialID               *string          `json:"material_id,omitempty"`
	MaterialQuantityAffected *int             `json:"material_quantity_affected,omitempty"`
	ImageURL                 *string          `json:"image_url,omitempty"`
}

type TransactionFilter struct {
	AccountID  string
	MaterialID string
	Kind       string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	Notes         string          `json:"notes"`
}

type TransferResponse struct {
	OutTransactionID string `json:"out_transaction_id"`
	InTransactionID  string `json:"in_transaction_id"`
	CorrelationID    string `json:"correlation_id"`
}

type Debt struct {
	ID                 string          `json:"id"`
	OwnerID            string          `json:"owner_id"`
	Name               string          `json:"name"`
	Direction          string          `json:"direction"`
	PartyName          string          `json:"party_name"`
	InitialAmount      decimal.Decimal `json:"initial_amount"`
	Currency           string          `json:"currency"`
	CurrentBalanceOwed decimal.Decimal `json:"current_balance_owed"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	Status             string          `json:"status"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

type DebtCreateRequest struct {
	Name          string          `json:"name"`
	Direction     string          `json:"direction"`
	PartyName     string          `json:"party_name"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Currency      string          `json:"currency"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Notes         string          `json:"notes"`
}

type DebtUpdateRequest struct {
	Name      *string    `json:"name,omitempty"`
	PartyName *string    `json:"party_name,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

type DebtPaymentRequest struct {
	DebtID    string          `json:"debt_id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes"`
}

type DebtPaymentResponse struct {
	TransactionID string          `json:"transaction_id"`
	DebtStatus    string          `json:"debt_status"`
	RemainingOwed decimal.Decimal `json:"remaining_owed"`
}

type Currency struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	IsCustom bool   `json:"is_custom"`
	OwnerID  string `json:"owner_id,omitempty"`
}

type CurrencyCreateRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type CurrencyUpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Symbol *string `json:"symbol,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	ID        string
	Username  string
	Password  string
	Active    bool
	CreatedAt time.Time
}

type Actor struct {
	OwnerID  string
	Username string
}
