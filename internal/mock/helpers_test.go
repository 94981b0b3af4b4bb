package mock

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/schema"
)

func newStore(t *testing.T) *sql.DB {
	t.Helper()
	store, err := db.OpenSQLite("sqlite://")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestBuilder(root string, routes ...string) *Builder {
	return NewBuilder(Config{Root: root, Routes: routes}, schema.Default(), zerolog.Nop())
}

func writeArchive(t *testing.T, root string, table schema.Table, rows []Record) string {
	t.Helper()
	path := filepath.Join(root, table.Name, ArchiveFile)
	require.NoError(t, WriteArchiveFile(path, table, rows))
	return path
}

// writeSnapshot records rows into <root>/<route>/mock.db the way a previous
// mock build would have.
func writeSnapshot(t *testing.T, root string, table schema.Table, rows []Record) string {
	t.Helper()
	path := filepath.Join(root, table.Name, SnapshotFile)
	snap, err := db.OpenSQLite("sqlite:///" + path)
	require.NoError(t, err)
	defer snap.Close()

	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, snap, table, true))
	_, err = InsertRecords(ctx, snap, table, &Dataset{Route: table.Name, Rows: rows})
	require.NoError(t, err)
	return path
}

func countRows(t *testing.T, store *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.QueryRow("SELECT COUNT(*) FROM "+schema.QuoteIdent(table)).Scan(&n))
	return n
}

func selectAll(t *testing.T, store *sql.DB, table string) []map[string]any {
	t.Helper()
	rows, err := store.Query("SELECT * FROM " + schema.QuoteIdent(table) + " ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			if ts, ok := vals[i].(time.Time); ok {
				vals[i] = ts.UTC().Format(time.RFC3339Nano)
			}
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	require.NoError(t, rows.Err())
	return out
}

func bedRows() []Record {
	return []Record{
		{"location_id": int64(1), "location_string": "T03^T03 BY01^BY01-01", "department": "UCH T03 INTENSIVE CARE", "bed": "BY01-01", "closed": false, "covid": false},
		{"location_id": int64(2), "location_string": "T03^T03 BY01^BY01-02", "department": "UCH T03 INTENSIVE CARE", "bed": "BY01-02", "closed": true, "covid": false},
		{"location_id": int64(3), "location_string": "T03^T03 SR05^SR05-05", "department": "UCH T03 INTENSIVE CARE", "room": "SR05", "covid": true},
	}
}

func censusRows() []Record {
	return []Record{
		{"encounter": int64(1001), "mrn": "40001111", "firstname": "Ada", "lastname": "Lovelace", "date_of_birth": time.Date(1950, 1, 2, 0, 0, 0, 0, time.UTC), "location_id": int64(1), "department": "UCH T03 INTENSIVE CARE", "modified_at": time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"encounter": int64(1002), "mrn": "40002222", "firstname": "Alan", "lastname": "Turing", "date_of_birth": time.Date(1960, 6, 23, 0, 0, 0, 0, time.UTC), "location_id": int64(2), "department": "UCH T03 INTENSIVE CARE", "modified_at": time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
}
