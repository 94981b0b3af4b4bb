// Package schema holds the structural descriptions of the dashboard's tables
// and the registry that maps a route name to its table. The registry is the
// only authority on table shape: mock tables are created from it and every
// inserted record is coerced against it.
package schema

import (
	"fmt"
	"strings"
)

// FieldType is the logical type of a column.
type FieldType string

const (
	Integer  FieldType = "integer"
	Real     FieldType = "real"
	Text     FieldType = "text"
	Boolean  FieldType = "boolean"
	Date     FieldType = "date"
	DateTime FieldType = "datetime"
	JSON     FieldType = "json"
)

// SQLType returns the SQLite column declaration for the type. DATE and
// DATETIME are declared explicitly so the sqlite driver hands back
// time.Time values on read.
func (t FieldType) SQLType() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Boolean:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case DateTime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// Field describes a single column.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

// Table is the schema bound to one route.
type Table struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// KeyColumn is the surrogate key every mock table carries.
const KeyColumn = "id"

// FieldNames returns the ordered list of field names, without the key column.
func (t Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the named field.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CreateSQL renders a CREATE TABLE statement. It deliberately omits
// IF NOT EXISTS: creating over an existing table must fail.
func (t Table) CreateSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n\t%s INTEGER PRIMARY KEY AUTOINCREMENT", QuoteIdent(t.Name), KeyColumn)
	for _, f := range t.Fields {
		fmt.Fprintf(&b, ",\n\t%s %s", QuoteIdent(f.Name), f.Type.SQLType())
		if f.Required {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString("\n)")
	return b.String()
}

// DropSQL renders a DROP TABLE IF EXISTS statement.
func (t Table) DropSQL() string {
	return "DROP TABLE IF EXISTS " + QuoteIdent(t.Name)
}

// InsertSQL renders a parameterized INSERT covering every field in order.
func (t Table) InsertSQL() string {
	cols := make([]string, len(t.Fields))
	marks := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = QuoteIdent(f.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// SelectSQL renders a SELECT of every field (key column first).
func (t Table) SelectSQL() string {
	cols := make([]string, 0, len(t.Fields)+1)
	cols = append(cols, KeyColumn)
	for _, f := range t.Fields {
		cols = append(cols, QuoteIdent(f.Name))
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), QuoteIdent(t.Name))
}

// QuoteIdent quotes an SQL identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
