package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"greenpulse/domain/core"
	"greenpulse/domain/series"
	"greenpulse/internal/errors"
)

// LoadsTable records every import into an observation table
const LoadsTable = "greenpulse_loads"

// recordRow is the persisted shape of a normalized record. Column names match the
// loader's primary aliases so a stored table reads back through NewRowSource.
type recordRow struct {
	Year        int     `db:"year"`
	IncomeGroup string  `db:"income_group"`
	NDVI        float64 `db:"ndvi"`
	PctChange   float64 `db:"ndvi_pct_change"`
}

// RecordStore writes normalized records into an observation table
type RecordStore struct {
	db    *sqlx.DB
	table string
}

// NewRecordStore creates a store over table
func NewRecordStore(db *sqlx.DB, table string) *RecordStore {
	return &RecordStore{db: db, table: table}
}

func (s *RecordStore) insertSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (year, income_group, ndvi, ndvi_pct_change)
		VALUES (:year, :income_group, :ndvi, :ndvi_pct_change)`, QuoteTable(s.table))
}

// ReplaceAll replaces the table's content with records in one transaction. The
// table must exist; see internal/migration.
func (s *RecordStore) ReplaceAll(ctx context.Context, records []series.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", QuoteTable(s.table))); err != nil {
		return errors.Wrapf(err, "failed to clear table %s", s.table)
	}

	if len(records) > 0 {
		if _, err := tx.NamedExecContext(ctx, s.insertSQL(), toRows(records)); err != nil {
			return errors.Wrapf(err, "failed to insert %d records", len(records))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit records")
	}
	return nil
}

// LoadEntry is one line of the load log
type LoadEntry struct {
	LoadID      core.LoadID `db:"load_id"`
	Target      string      `db:"target"`
	Source      string      `db:"source"`
	RowsRead    int         `db:"rows_read"`
	RowsKept    int         `db:"rows_kept"`
	Fingerprint core.Hash   `db:"fingerprint"`
	LoadedAt    time.Time   `db:"loaded_at"`
}

// RecordLoad appends an entry to the load log
func (s *RecordStore) RecordLoad(ctx context.Context, entry LoadEntry) error {
	if entry.Target == "" {
		entry.Target = s.table
	}
	_, err := s.db.NamedExecContext(ctx, fmt.Sprintf(`INSERT INTO %s
		(load_id, target, source, rows_read, rows_kept, fingerprint, loaded_at)
		VALUES (:load_id, :target, :source, :rows_read, :rows_kept, :fingerprint, :loaded_at)`,
		QuoteTable(LoadsTable)), entry)
	if err != nil {
		return errors.Wrapf(err, "failed to record load %s", entry.LoadID)
	}
	return nil
}

func toRows(records []series.Record) []recordRow {
	rows := make([]recordRow, len(records))
	for i, r := range records {
		rows[i] = recordRow{
			Year:        r.Year,
			IncomeGroup: r.Category.String(),
			NDVI:        r.RawValue,
			PctChange:   r.PctChange,
		}
	}
	return rows
}
