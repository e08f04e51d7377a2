package postgres

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"greenpulse/domain/dataset"
	"greenpulse/internal/errors"
	"greenpulse/ports"
)

// Connect opens and pings a Postgres connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.SourceError("postgres", err)
	}
	return db, nil
}

// rowSource reads an observation table as raw string rows
type rowSource struct {
	db    *sqlx.DB
	table string
}

// NewRowSource creates a row source over table. The table name must already be
// validated as a plain identifier.
func NewRowSource(db *sqlx.DB, table string) ports.RowSourcePort {
	return &rowSource{db: db, table: table}
}

// Name identifies the source in logs
func (s *rowSource) Name() string {
	return "postgres:" + s.table
}

// ReadTable selects every row of the table. Columns keep their database names so
// the loader's alias matching applies unchanged.
func (s *rowSource) ReadTable(ctx context.Context) (*dataset.Table, error) {
	start := time.Now()
	query := fmt.Sprintf("SELECT * FROM %s", QuoteTable(s.table))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.SourceError(s.Name(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.SourceError(s.Name(), err)
	}

	raw := [][]string{columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.SourceError(s.Name(), err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellString(v)
		}
		raw = append(raw, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SourceError(s.Name(), err)
	}

	log.Printf("[Postgres] %s read in %.2fms (%d rows)", s.table,
		float64(time.Since(start).Nanoseconds())/1e6, len(raw)-1)
	return dataset.NewTable(s.Name(), raw), nil
}

// cellString renders a scanned value the way a CSV export would
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// QuoteTable quotes each dot-separated part of a possibly schema-qualified table name
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
