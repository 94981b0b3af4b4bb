package mock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hylode/hyui/internal/schema"
)

// Store is the destination database. *sql.DB satisfies it.
type Store interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// CreateTable creates the table for a schema. With dropExisting any previous
// table is removed first; without it an existing table is a conflict rather
// than something to reuse.
func CreateTable(ctx context.Context, store Store, table schema.Table, dropExisting bool) error {
	if dropExisting {
		if _, err := store.ExecContext(ctx, table.DropSQL()); err != nil {
			return &SchemaConflictError{Table: table.Name, Err: fmt.Errorf("drop: %w", err)}
		}
	}
	if _, err := store.ExecContext(ctx, table.CreateSQL()); err != nil {
		exists, _ := tableExists(ctx, store, table.Name)
		return &SchemaConflictError{Table: table.Name, Exists: exists, Err: err}
	}
	return nil
}

// Replace recreates the table and fills it with ds.
func Replace(ctx context.Context, store Store, table schema.Table, ds *Dataset) (int, error) {
	if err := CreateTable(ctx, store, table, true); err != nil {
		return 0, err
	}
	return InsertRecords(ctx, store, table, ds)
}

func tableExists(ctx context.Context, store Store, name string) (bool, error) {
	var one int
	err := store.QueryRowContext(ctx,
		`SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// InsertRecords coerces every record to the table schema and inserts the
// whole dataset in a single transaction. Columns the schema does not name are
// ignored. The first failure rolls back every row and is reported as a
// *RecordValidationError.
func InsertRecords(ctx context.Context, store Store, table schema.Table, ds *Dataset) (int, error) {
	tx, err := store.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert into %s: %w", table.Name, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, table.InsertSQL())
	if err != nil {
		return 0, &SchemaConflictError{Table: table.Name, Err: fmt.Errorf("prepare insert: %w", err)}
	}
	defer stmt.Close()

	args := make([]any, len(table.Fields))
	for i, rec := range ds.Rows {
		for j, f := range table.Fields {
			v, err := f.Coerce(rec[f.Name])
			if err != nil {
				return 0, &RecordValidationError{
					Route: ds.Route, Row: i, Field: f.Name, Value: rec[f.Name],
					Reason: err.Error(), Err: err,
				}
			}
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, &RecordValidationError{Route: ds.Route, Row: i, Reason: err.Error(), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert into %s: %w", table.Name, err)
	}
	return len(ds.Rows), nil
}
