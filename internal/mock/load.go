package mock

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/schema"
)

// Load reads the dataset behind src. Archives and snapshots yield the same
// Go value types for the same logical column.
func Load(ctx context.Context, src DatasetSource) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch src.Kind {
	case KindArchive:
		ds, err = loadArchive(src)
	case KindSnapshot:
		ds, err = loadSnapshot(ctx, src)
	case KindFixture:
		ds, err = LoadJSONRecords(src.Path, src.DataPath)
	default:
		err = fmt.Errorf("unknown source kind %q", src.Kind)
	}
	if err != nil {
		return nil, &DatasetLoadError{Route: src.Route, Path: src.Path, Err: err}
	}
	ds.Route = src.Route
	return ds, nil
}

// ---------------------------------------------------------------------------
// Arrow IPC archives
// ---------------------------------------------------------------------------

func loadArchive(src DatasetSource) (*Dataset, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("read arrow file: %w", err)
	}
	defer r.Close()

	fields := r.Schema().Fields()
	cols := make([]string, len(fields))
	for i, field := range fields {
		cols[i] = field.Name
	}

	ds := &Dataset{Route: src.Route, Columns: cols}
	for b := 0; b < r.NumRecords(); b++ {
		rec, err := r.Record(b)
		if err != nil {
			return nil, fmt.Errorf("read record batch %d: %w", b, err)
		}
		for row := 0; row < int(rec.NumRows()); row++ {
			out := make(Record, len(cols))
			for c := range cols {
				v, err := arrowValue(rec.Column(c), row)
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", cols[c], len(ds.Rows), err)
				}
				out[cols[c]] = v
			}
			ds.Rows = append(ds.Rows, out)
		}
	}
	return ds, nil
}

// natSentinel is how a missing timestamp is encoded when it is not null.
const natSentinel = math.MinInt64

func arrowValue(col arrow.Array, i int) (any, error) {
	if col.IsNull(i) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.Int64:
		return a.Value(i), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Int16:
		return int64(a.Value(i)), nil
	case *array.Int8:
		return int64(a.Value(i)), nil
	case *array.Uint32:
		return int64(a.Value(i)), nil
	case *array.Uint16:
		return int64(a.Value(i)), nil
	case *array.Uint8:
		return int64(a.Value(i)), nil
	case *array.Uint64:
		v := a.Value(i)
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows int64", v)
		}
		return int64(v), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.Float32:
		return float64(a.Value(i)), nil
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Binary:
		return string(a.Value(i)), nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Timestamp:
		v := a.Value(i)
		if int64(v) == natSentinel {
			return time.Time{}, nil
		}
		unit := a.DataType().(*arrow.TimestampType).Unit
		return v.ToTime(unit).UTC(), nil
	case *array.Date32:
		return a.Value(i).ToTime().UTC(), nil
	case *array.Date64:
		return a.Value(i).ToTime().UTC(), nil
	case *array.Dictionary:
		return arrowValue(a.Dictionary(), a.GetValueIndex(i))
	}
	return nil, fmt.Errorf("unsupported arrow type %s", col.DataType())
}

// ---------------------------------------------------------------------------
// SQLite snapshots
// ---------------------------------------------------------------------------

func loadSnapshot(ctx context.Context, src DatasetSource) (*Dataset, error) {
	conn, err := db.OpenSnapshot(src.Path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+schema.QuoteIdent(src.Route))
	if err != nil {
		return nil, fmt.Errorf("query snapshot table: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("snapshot columns: %w", err)
	}

	// The surrogate key belongs to the store, not the dataset; an archive of
	// the same route never carries it.
	ds := &Dataset{Route: src.Route}
	for _, ct := range types {
		if ct.Name() != schema.KeyColumn {
			ds.Columns = append(ds.Columns, ct.Name())
		}
	}
	for rows.Next() {
		vals := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan snapshot row %d: %w", len(ds.Rows), err)
		}
		rec := make(Record, len(ds.Columns))
		for i, ct := range types {
			if ct.Name() == schema.KeyColumn {
				continue
			}
			rec[ct.Name()] = snapshotValue(ct.DatabaseTypeName(), vals[i])
		}
		ds.Rows = append(ds.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot: %w", err)
	}
	return ds, nil
}

// snapshotValue normalizes a scanned SQLite value. BOOLEAN columns are
// stored as 0/1 and come back as int64.
func snapshotValue(declared string, v any) any {
	if n, ok := v.(int64); ok && strings.EqualFold(declared, "BOOLEAN") {
		return n != 0
	}
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case time.Time:
		return x.UTC()
	}
	return v
}
