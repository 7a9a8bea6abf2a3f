package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"nuzum/backend/internal/domain"
	"nuzum/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, owner_id, name, type, currency, balance, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, account.ID, account.OwnerID, account.Name, account.Type, account.Currency, account.Balance, account.Description, account.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	created := account
	return &created, nil
}

func (s *Store) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	var account domain.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, type, currency, balance, description, created_at
		FROM accounts
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&account.ID, &account.OwnerID, &account.Name, &account.Type, &account.Currency, &account.Balance, &account.Description, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	account.CreatedAt = account.CreatedAt.UTC()
	return &account, nil
}

func (s *Store) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, type, currency, balance, description, created_at
		FROM accounts
		WHERE owner_id = $1
		ORDER BY name ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, 16)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.OwnerID, &account.Name, &account.Type, &account.Currency, &account.Balance, &account.Description, &account.CreatedAt); err != nil {
			return nil, err
		}
		account.CreatedAt = account.CreatedAt.UTC()
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount writes display fields only. Balance moves exclusively
// through ApplyAccountDelta.
func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	var saved domain.Account
	err := s.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET name = $3, type = $4, description = $5
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, name, type, currency, balance, description, created_at
	`, account.OwnerID, account.ID, account.Name, account.Type, account.Description).Scan(
		&saved.ID, &saved.OwnerID, &saved.Name, &saved.Type, &saved.Currency, &saved.Balance, &saved.Description, &saved.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	saved.CreatedAt = saved.CreatedAt.UTC()
	return &saved, nil
}

func (s *Store) DeleteAccount(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM accounts
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ApplyAccountDelta(ctx context.Context, ownerID, id string, delta decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $3
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id, delta)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateMaterial(ctx context.Context, material domain.Material) (*domain.Material, error) {
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO materials (id, owner_id, name, price_per_unit, currency, quantity, unit_type, image_url, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, material.ID, material.OwnerID, material.Name, material.PricePerUnit, material.Currency, material.Quantity, material.UnitType, material.ImageURL, material.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	created := material
	return &created, nil
}

func (s *Store) GetMaterial(ctx context.Context, ownerID, id string) (*domain.Material, error) {
	var material domain.Material
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, price_per_unit, currency, quantity, unit_type, image_url, created_at
		FROM materials
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&material.ID, &material.OwnerID, &material.Name, &material.PricePerUnit, &material.Currency, &material.Quantity, &material.UnitType, &material.ImageURL, &material.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	material.CreatedAt = material.CreatedAt.UTC()
	return &material, nil
}

func (s *Store) ListMaterials(ctx context.Context, ownerID string) ([]domain.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, price_per_unit, currency, quantity, unit_type, image_url, created_at
		FROM materials
		WHERE owner_id = $1
		ORDER BY name ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := make([]domain.Material, 0, 32)
	for rows.Next() {
		var material domain.Material
		if err := rows.Scan(&material.ID, &material.OwnerID, &material.Name, &material.PricePerUnit, &material.Currency, &material.Quantity, &material.UnitType, &material.ImageURL, &material.CreatedAt); err != nil {
			return nil, err
		}
		material.CreatedAt = material.CreatedAt.UTC()
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}

// UpdateMaterial writes display and pricing fields. Quantity moves
// exclusively through ApplyMaterialDelta.
func (s *Store) UpdateMaterial(ctx context.Context, material domain.Material) (*domain.Material, error) {
	var saved domain.Material
	err := s.db.QueryRowContext(ctx, `
		UPDATE materials
		SET name = $3, price_per_unit = $4, currency = $5, unit_type = $6, image_url = $7
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, name, price_per_unit, currency, quantity, unit_type, image_url, created_at
	`, material.OwnerID, material.ID, material.Name, material.PricePerUnit, material.Currency, material.UnitType, material.ImageURL).Scan(
		&saved.ID, &saved.OwnerID, &saved.Name, &saved.PricePerUnit, &saved.Currency, &saved.Quantity, &saved.UnitType, &saved.ImageURL, &saved.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	saved.CreatedAt = saved.CreatedAt.UTC()
	return &saved, nil
}

func (s *Store) DeleteMaterial(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM materials
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ApplyMaterialDelta(ctx context.Context, ownerID, id string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE materials
		SET quantity = quantity + $3
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id, delta)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, owner_id, kind, amount, currency, account_id, date, notes,
			material_id, material_quantity_affected, image_url, correlation_id, debt_id, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, tx.ID, tx.OwnerID, tx.Kind, tx.Amount, tx.Currency, tx.AccountID, tx.Date, tx.Notes,
		nullIfEmpty(tx.MaterialID), tx.MaterialQuantityAffected, tx.ImageURL, nullIfEmpty(tx.CorrelationID), nullIfEmpty(tx.DebtID), tx.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	created := tx
	return &created, nil
}

func (s *Store) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, kind, amount, currency, account_id, date, notes,
			COALESCE(material_id,''), material_quantity_affected, image_url,
			COALESCE(correlation_id,''), COALESCE(debt_id,''), created_at
		FROM transactions
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, kind, amount, currency, account_id, date, notes,
			COALESCE(material_id,''), material_quantity_affected, image_url,
			COALESCE(correlation_id,''), COALESCE(debt_id,''), created_at
		FROM transactions
		WHERE owner_id = $1
			AND ($2 = '' OR account_id = $2)
			AND ($3 = '' OR material_id = $3)
			AND ($4 = '' OR kind = $4)
			AND ($5::timestamptz IS NULL OR date >= $5)
			AND ($6::timestamptz IS NULL OR date <= $6)
		ORDER BY date DESC, created_at DESC
	`, ownerID, filter.AccountID, filter.MaterialID, filter.Kind, nullTime(filter.DateFrom), nullTime(filter.DateTo))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, 64)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET kind = $3, amount = $4, currency = $5, account_id = $6, date = $7, notes = $8,
			material_id = $9, material_quantity_affected = $10, image_url = $11
		WHERE owner_id = $1 AND id = $2
	`, tx.OwnerID, tx.ID, tx.Kind, tx.Amount, tx.Currency, tx.AccountID, tx.Date, tx.Notes,
		nullIfEmpty(tx.MaterialID), tx.MaterialQuantityAffected, tx.ImageURL)
	if err != nil {
		return nil, mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := tx
	return &updated, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateDebt(ctx context.Context, debt domain.Debt) (*domain.Debt, error) {
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (
			id, owner_id, name, direction, party_name, initial_amount, currency,
			current_balance_owed, due_date, status, notes, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, debt.ID, debt.OwnerID, debt.Name, debt.Direction, debt.PartyName, debt.InitialAmount, debt.Currency,
		debt.CurrentBalanceOwed, nullTime(debt.DueDate), debt.Status, debt.Notes, debt.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	created := debt
	return &created, nil
}

func (s *Store) GetDebt(ctx context.Context, ownerID, id string) (*domain.Debt, error) {
	var debt domain.Debt
	var dueDate sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, direction, party_name, initial_amount, currency,
			current_balance_owed, due_date, status, notes, created_at
		FROM debts
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&debt.ID, &debt.OwnerID, &debt.Name, &debt.Direction, &debt.PartyName, &debt.InitialAmount, &debt.Currency,
		&debt.CurrentBalanceOwed, &dueDate, &debt.Status, &debt.Notes, &debt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if dueDate.Valid {
		at := dueDate.Time.UTC()
		debt.DueDate = &at
	}
	debt.CreatedAt = debt.CreatedAt.UTC()
	return &debt, nil
}

func (s *Store) ListDebts(ctx context.Context, ownerID string) ([]domain.Debt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, direction, party_name, initial_amount, currency,
			current_balance_owed, due_date, status, notes, created_at
		FROM debts
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := make([]domain.Debt, 0, 16)
	for rows.Next() {
		var debt domain.Debt
		var dueDate sql.NullTime
		if err := rows.Scan(&debt.ID, &debt.OwnerID, &debt.Name, &debt.Direction, &debt.PartyName, &debt.InitialAmount, &debt.Currency,
			&debt.CurrentBalanceOwed, &dueDate, &debt.Status, &debt.Notes, &debt.CreatedAt); err != nil {
			return nil, err
		}
		if dueDate.Valid {
			at := dueDate.Time.UTC()
			debt.DueDate = &at
		}
		debt.CreatedAt = debt.CreatedAt.UTC()
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return debts, nil
}

// UpdateDebt writes display fields only. Balance and status move
// exclusively through UpdateDebtBalance.
func (s *Store) UpdateDebt(ctx context.Context, debt domain.Debt) (*domain.Debt, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE debts
		SET name = $3, party_name = $4, due_date = $5, notes = $6
		WHERE owner_id = $1 AND id = $2
	`, debt.OwnerID, debt.ID, debt.Name, debt.PartyName, nullTime(debt.DueDate), debt.Notes)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetDebt(ctx, debt.OwnerID, debt.ID)
}

func (s *Store) DeleteDebt(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM debts
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateDebtBalance(ctx context.Context, ownerID, id string, balance decimal.Decimal, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE debts
		SET current_balance_owed = $3, status = $4
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id, balance, status)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO currencies (id, owner_id, code, name, symbol, is_custom)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, currency.ID, currency.OwnerID, currency.Code, currency.Name, currency.Symbol, currency.IsCustom)
	if err != nil {
		return nil, mapPgError(err)
	}
	created := currency
	return &created, nil
}

func (s *Store) GetCurrency(ctx context.Context, ownerID, id string) (*domain.Currency, error) {
	var currency domain.Currency
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, code, name, symbol, is_custom
		FROM currencies
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&currency.ID, &currency.OwnerID, &currency.Code, &currency.Name, &currency.Symbol, &currency.IsCustom)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &currency, nil
}

func (s *Store) ListCurrencies(ctx context.Context, ownerID string) ([]domain.Currency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, code, name, symbol, is_custom
		FROM currencies
		WHERE owner_id = $1
		ORDER BY code ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	currencies := make([]domain.Currency, 0, 8)
	for rows.Next() {
		var currency domain.Currency
		if err := rows.Scan(&currency.ID, &currency.OwnerID, &currency.Code, &currency.Name, &currency.Symbol, &currency.IsCustom); err != nil {
			return nil, err
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return currencies, nil
}

// UpdateCurrency writes name and symbol only. Code is immutable once
// accounts may reference it.
func (s *Store) UpdateCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error) {
	var saved domain.Currency
	err := s.db.QueryRowContext(ctx, `
		UPDATE currencies
		SET name = $3, symbol = $4
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, code, name, symbol, is_custom
	`, currency.OwnerID, currency.ID, currency.Name, currency.Symbol).Scan(
		&saved.ID, &saved.OwnerID, &saved.Code, &saved.Name, &saved.Symbol, &saved.IsCustom)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}

// DeleteCurrency removes a custom currency unless one of the owner's
// accounts is denominated in its code. Accounts reference currencies by
// code rather than id, so the check cannot be a foreign key.
func (s *Store) DeleteCurrency(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var code string
	err = tx.QueryRowContext(ctx, `
		SELECT code
		FROM currencies
		WHERE owner_id = $1 AND id = $2
		FOR UPDATE
	`, ownerID, id).Scan(&code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}

	var inUse int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)::int
		FROM accounts
		WHERE owner_id = $1 AND currency = $2
	`, ownerID, code).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return store.ErrConstraintViolation
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM currencies
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (id, username, password, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.ID, user.Username, user.Password, user.Active, user.CreatedAt)
	return mapPgError(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	var user domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, active, created_at
		FROM app_users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.Password, &user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.OwnerID,
		&tx.Kind,
		&tx.Amount,
		&tx.Currency,
		&tx.AccountID,
		&tx.Date,
		&tx.Notes,
		&tx.MaterialID,
		&tx.MaterialQuantityAffected,
		&tx.ImageURL,
		&tx.CorrelationID,
		&tx.DebtID,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Date = tx.Date.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()
	return &tx, nil
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrDuplicate
		case "23503":
			return store.ErrConstraintViolation
		}
	}
	return err
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullTime(val *time.Time) any {
	if val == nil {
		return nil
	}
	return *val
}
