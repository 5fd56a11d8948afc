// Package loader translates the generated CSV artifacts into the relational
// schema. Integrity is enforced by the schema's foreign keys: loading out of
// dependency order, or loading rows with dangling references, fails fast.
package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fathomdata/saasforge/internal/schema"
)

var (
	// ErrMissingSource indicates a generated CSV artifact is absent; the
	// generator has to run before the loader.
	ErrMissingSource = errors.New("missing source artifact")

	// ErrConstraintViolation indicates a row failed a relational integrity
	// constraint on insert. That means the generator broke an invariant; it
	// is a bug, not a retryable runtime condition.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Loader bulk-inserts CSV artifacts into the store. It only ever inserts;
// prior state is discarded wholesale by Reset.
type Loader struct {
	db      *sql.DB
	dataDir string
	logger  *slog.Logger
}

// New creates a Loader reading artifacts from dataDir.
func New(db *sql.DB, dataDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{db: db, dataDir: dataDir, logger: logger}
}

// Reset drops the dataset tables children-first and recreates them
// parents-first. Both orders are derived from the schema's declared
// dependencies.
func (l *Loader) Reset(ctx context.Context) error {
	drops, err := schema.DropOrder()
	if err != nil {
		return err
	}
	for _, t := range drops {
		if _, err := l.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.Name); err != nil {
			return fmt.Errorf("drop %s: %w", t.Name, err)
		}
	}

	creates, err := schema.CreateOrder()
	if err != nil {
		return err
	}
	for _, t := range creates {
		if _, err := l.db.ExecContext(ctx, t.DDL); err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	l.logger.Debug("schema reset", "tables", len(creates))
	return nil
}

// Load bulk-inserts one table's CSV artifact inside a single transaction.
// Any failure rolls the whole table back. Returns the number of rows
// inserted.
func (l *Loader) Load(ctx context.Context, table schema.Table) (int, error) {
	path := filepath.Join(l.dataDir, table.CSVFile())
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s (run 'saasforge generate' first)", ErrMissingSource, path)
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: %s is empty", ErrMissingSource, path)
		}
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	if !slices.Equal(header, table.Columns) {
		return 0, fmt.Errorf("%s: header %v does not match columns of table %s %v",
			path, header, table.Name, table.Columns)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	count, err := l.insertAll(ctx, tx, table, r)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", table.Name, err)
	}

	l.logger.Debug("table loaded", "table", table.Name, "rows", count)
	return count, nil
}

func (l *Loader) insertAll(ctx context.Context, tx *sql.Tx, table schema.Table, r *csv.Reader) (int, error) {
	stmt, err := tx.PrepareContext(ctx, table.InsertSQL())
	if err != nil {
		return 0, fmt.Errorf("prepare insert for %s: %w", table.Name, err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read %s row %d: %w", table.Name, count+1, err)
		}

		args := make([]any, len(record))
		for i, v := range record {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			if isConstraintError(err) {
				return 0, fmt.Errorf("%w: %s row %d: %v", ErrConstraintViolation, table.Name, count+1, err)
			}
			return 0, fmt.Errorf("insert into %s row %d: %w", table.Name, count+1, err)
		}
		count++
	}
}

// Run resets the schema and loads every table in dependency order. All
// source artifacts are verified up front so a partially generated data
// directory never destroys a previously loaded store.
func (l *Loader) Run(ctx context.Context) (map[string]int, error) {
	order, err := schema.CreateOrder()
	if err != nil {
		return nil, err
	}
	for _, t := range order {
		path := filepath.Join(l.dataDir, t.CSVFile())
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run 'saasforge generate' first)", ErrMissingSource, path)
		}
	}

	if err := l.Reset(ctx); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(order))
	for _, t := range order {
		n, err := l.Load(ctx, t)
		if err != nil {
			return nil, err
		}
		counts[t.Name] = n
	}
	return counts, nil
}

func isConstraintError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}
