package db

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
)

// Dialect selects the bind parameter syntax of a store.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// Params renders n bind parameters starting at position start (1-based),
// e.g. "$2, $3" or "?, ?".
func (d Dialect) Params(start, n int) string {
	marks := make([]string, n)
	for i := range marks {
		if d == Postgres {
			marks[i] = "$" + strconv.Itoa(start+i)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

// Args converts a typed slice into query arguments.
func Args[T any](vals []T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func StringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func Int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func Float64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func BoolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}

// RawJSON returns the column text as a JSON document, or nil for NULL or
// text that is not valid JSON.
func RawJSON(v sql.NullString) json.RawMessage {
	if !v.Valid || !json.Valid([]byte(v.String)) {
		return nil
	}
	return json.RawMessage(v.String)
}
