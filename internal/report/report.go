// Package report runs the canonical monthly revenue segmentation query
// against a populated store and materializes ordered result sets.
package report

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/fathomdata/saasforge/internal/schema"
)

//go:embed segment_monthly_revenue.sql
var segmentMonthlyRevenueSQL string

// ErrStoreNotReady indicates the store has not been populated by the loader.
// It is distinct from a query legitimately returning zero rows.
var ErrStoreNotReady = errors.New("store not populated")

// Row maps a result column name to its value.
type Row map[string]any

// Result is a materialized query result with column order preserved.
type Result struct {
	Columns []string
	Rows    []Row
}

// Run executes the segmentation report. An unpopulated store yields
// ErrStoreNotReady; an empty but populated store yields an empty result.
func Run(ctx context.Context, db *sql.DB) (*Result, error) {
	if err := checkPopulated(ctx, db); err != nil {
		return nil, err
	}
	return Query(ctx, db, segmentMonthlyRevenueSQL)
}

// checkPopulated probes every dataset table so a missing schema is
// distinguishable from a report over zero rows.
func checkPopulated(ctx context.Context, db *sql.DB) error {
	for _, t := range schema.Tables {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT count(*) FROM "+t.Name).Scan(&n); err != nil {
			return fmt.Errorf("%w: table %s absent (run 'saasforge load' first)", ErrStoreNotReady, t.Name)
		}
	}
	return nil
}

// Query runs an arbitrary SQL statement and materializes the rows.
func Query(ctx context.Context, db *sql.DB, query string) (*Result, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols, Rows: []Row{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			// Text columns come back as []byte from some drivers.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
