package postgres

import (
	"context"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so startup can
// run this unconditionally.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS app_users (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			active     BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			name        TEXT NOT NULL,
			type        TEXT NOT NULL,
			currency    TEXT NOT NULL,
			balance     NUMERIC(20,6) NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts (owner_id)`,
		`CREATE TABLE IF NOT EXISTS materials (
			id             TEXT PRIMARY KEY,
			owner_id       TEXT NOT NULL,
			name           TEXT NOT NULL,
			price_per_unit NUMERIC(20,6) NOT NULL DEFAULT 0,
			currency       TEXT NOT NULL,
			quantity       INTEGER NOT NULL DEFAULT 0,
			unit_type      TEXT NOT NULL DEFAULT '',
			image_url      TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_owner ON materials (owner_id)`,
		`CREATE TABLE IF NOT EXISTS debts (
			id                   TEXT PRIMARY KEY,
			owner_id             TEXT NOT NULL,
			name                 TEXT NOT NULL,
			direction            TEXT NOT NULL,
			party_name           TEXT NOT NULL DEFAULT '',
			initial_amount       NUMERIC(20,6) NOT NULL,
			currency             TEXT NOT NULL,
			current_balance_owed NUMERIC(20,6) NOT NULL,
			due_date             TIMESTAMPTZ,
			status               TEXT NOT NULL DEFAULT 'active',
			notes                TEXT NOT NULL DEFAULT '',
			created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_debts_owner ON debts (owner_id)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id                         TEXT PRIMARY KEY,
			owner_id                   TEXT NOT NULL,
			kind                       TEXT NOT NULL,
			amount                     NUMERIC(20,6) NOT NULL,
			currency                   TEXT NOT NULL,
			account_id                 TEXT NOT NULL REFERENCES accounts (id) ON DELETE RESTRICT,
			date                       TIMESTAMPTZ NOT NULL,
			notes                      TEXT NOT NULL DEFAULT '',
			material_id                TEXT REFERENCES materials (id) ON DELETE RESTRICT,
			material_quantity_affected INTEGER NOT NULL DEFAULT 0,
			image_url                  TEXT NOT NULL DEFAULT '',
			correlation_id             TEXT,
			debt_id                    TEXT REFERENCES debts (id) ON DELETE RESTRICT,
			created_at                 TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_owner_date ON transactions (owner_id, date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_correlation ON transactions (correlation_id)`,
		`CREATE TABLE IF NOT EXISTS currencies (
			id        TEXT PRIMARY KEY,
			owner_id  TEXT NOT NULL,
			code      TEXT NOT NULL,
			name      TEXT NOT NULL,
			symbol    TEXT NOT NULL DEFAULT '',
			is_custom BOOLEAN NOT NULL DEFAULT true,
			UNIQUE (owner_id, code)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
