package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/hylode/hyui/internal/schema"
)

// ArrowType returns the archive column type used for a field type.
func ArrowType(t schema.FieldType) arrow.DataType {
	switch t {
	case schema.Integer:
		return arrow.PrimitiveTypes.Int64
	case schema.Real:
		return arrow.PrimitiveTypes.Float64
	case schema.Boolean:
		return arrow.FixedWidthTypes.Boolean
	case schema.Date:
		return arrow.FixedWidthTypes.Date32
	case schema.DateTime:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// ArchiveSchema returns the arrow schema for a table. Every column is
// nullable; the surrogate key is not stored.
func ArchiveSchema(table schema.Table) *arrow.Schema {
	fields := make([]arrow.Field, len(table.Fields))
	for i, f := range table.Fields {
		fields[i] = arrow.Field{Name: f.Name, Type: ArrowType(f.Type), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteArchive writes rows as a single-batch Arrow IPC file laid out by table.
func WriteArchive(w io.Writer, table schema.Table, rows []Record) error {
	mem := memory.NewGoAllocator()
	sc := ArchiveSchema(table)

	b := array.NewRecordBuilder(mem, sc)
	defer b.Release()

	for i, row := range rows {
		for j, f := range table.Fields {
			if err := appendArrow(b.Field(j), f.Type, row[f.Name]); err != nil {
				return fmt.Errorf("row %d field %q: %w", i, f.Name, err)
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(sc), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("create arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("write record batch: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}

// WriteArchiveFile writes an archive to path, creating parent directories.
func WriteArchiveFile(path string, table schema.Table, rows []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := WriteArchive(f, table, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func appendArrow(b array.Builder, t schema.FieldType, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch t {
	case schema.Integer:
		n, ok := v.(int64)
		if !ok {
			if i, isInt := v.(int); isInt {
				n, ok = int64(i), true
			}
		}
		if !ok {
			return fmt.Errorf("expected integer, got %T", v)
		}
		b.(*array.Int64Builder).Append(n)
	case schema.Real:
		switch x := v.(type) {
		case float64:
			b.(*array.Float64Builder).Append(x)
		case int64:
			b.(*array.Float64Builder).Append(float64(x))
		default:
			return fmt.Errorf("expected real, got %T", v)
		}
	case schema.Boolean:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected boolean, got %T", v)
		}
		b.(*array.BooleanBuilder).Append(x)
	case schema.Date, schema.DateTime:
		ts, err := archiveTime(v)
		if err != nil {
			return err
		}
		if t == schema.Date {
			b.(*array.Date32Builder).Append(arrow.Date32FromTime(ts))
		} else {
			b.(*array.TimestampBuilder).Append(arrow.Timestamp(ts.UnixMicro()))
		}
	default:
		s, err := archiveText(v)
		if err != nil {
			return err
		}
		b.(*array.StringBuilder).Append(s)
	}
	return nil
}

func archiveTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		return schema.ParseTime(x)
	}
	return time.Time{}, fmt.Errorf("expected timestamp, got %T", v)
}

func archiveText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(b), nil
}
