package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"greenpulse/adapters/postgres"
	"greenpulse/internal/errors"
)

// MigrationRunner creates the observation table and the load log
type MigrationRunner struct {
	version string
	table   string
}

// NewRunner creates a runner for the observation table. table must be a plain
// identifier, optionally schema-qualified.
func NewRunner(table string) *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		table:   table,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.steps() {
		if _, err := db.ExecContext(ctx, step.sql); err != nil {
			return errors.Wrapf(err, "failed to %s", step.name)
		}
	}
	return nil
}

type step struct {
	name string
	sql  string
}

func (r *MigrationRunner) steps() []step {
	table := postgres.QuoteTable(r.table)
	index := pq.QuoteIdentifier(indexName(r.table))
	return []step{
		{
			name: "create observation table " + r.table,
			sql: fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			year            INTEGER          NOT NULL,
			income_group    TEXT             NOT NULL,
			ndvi            DOUBLE PRECISION NOT NULL,
			ndvi_pct_change DOUBLE PRECISION NOT NULL
		)`, table),
		},
		{
			name: "create year index on " + r.table,
			sql:  fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (year)`, index, table),
		},
		{
			name: "create " + postgres.LoadsTable + " table",
			sql: fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			load_id     UUID PRIMARY KEY,
			target      TEXT NOT NULL,
			source      TEXT NOT NULL,
			rows_read   INTEGER NOT NULL,
			rows_kept   INTEGER NOT NULL,
			fingerprint TEXT NOT NULL,
			loaded_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, postgres.QuoteTable(postgres.LoadsTable)),
		},
	}
}

func indexName(table string) string {
	return strings.ReplaceAll(table, ".", "_") + "_year_idx"
}
