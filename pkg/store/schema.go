package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Contact table DDL, one statement per kind. Shared columns first, then
// the kind's extra columns. IDs are client-generated UUIDs.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		org_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		organization_name TEXT,
		email TEXT,
		phone TEXT,
		website TEXT,
		address TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vendors (
		id UUID PRIMARY KEY,
		org_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		organization_name TEXT,
		email TEXT,
		phone TEXT,
		website TEXT,
		address TEXT,
		notes TEXT,
		contact_name TEXT,
		category TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS subcontractors (
		id UUID PRIMARY KEY,
		org_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		organization_name TEXT,
		email TEXT,
		phone TEXT,
		website TEXT,
		address TEXT,
		notes TEXT,
		contact_name TEXT,
		trade TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY,
		org_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		organization_name TEXT,
		email TEXT,
		phone TEXT,
		website TEXT,
		address TEXT,
		notes TEXT,
		role TEXT,
		department TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_org ON clients (org_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_vendors_org ON vendors (org_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_subcontractors_org ON subcontractors (org_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_org ON team_members (org_id, created_at)`,
}

// EnsureSchema creates the contact tables if they do not exist. All
// statements run in one transaction so a partial bootstrap never
// persists.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // nolint: errcheck

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}
