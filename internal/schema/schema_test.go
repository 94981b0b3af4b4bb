package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestTable_CreateSQL(t *testing.T) {
	tbl := Table{Name: "beds", Fields: []Field{
		{Name: "location_id", Type: Integer, Required: true},
		{Name: "covid", Type: Boolean},
	}}

	got := tbl.CreateSQL()
	want := "CREATE TABLE \"beds\" (\n\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n\t\"location_id\" INTEGER NOT NULL,\n\t\"covid\" BOOLEAN\n)"
	if got != want {
		t.Errorf("CreateSQL:\n got %q\nwant %q", got, want)
	}
	if strings.Contains(got, "IF NOT EXISTS") {
		t.Error("CreateSQL must not skip existing tables")
	}
}

func TestTable_InsertAndSelectSQL(t *testing.T) {
	tbl := Table{Name: "ros", Fields: []Field{{Name: "department", Type: Text}, {Name: "mrn", Type: Text}}}

	if got := tbl.InsertSQL(); got != `INSERT INTO "ros" ("department", "mrn") VALUES (?, ?)` {
		t.Errorf("unexpected insert sql: %s", got)
	}
	if got := tbl.SelectSQL(); got != `SELECT id, "department", "mrn" FROM "ros"` {
		t.Errorf("unexpected select sql: %s", got)
	}
	if got := tbl.DropSQL(); got != `DROP TABLE IF EXISTS "ros"` {
		t.Errorf("unexpected drop sql: %s", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("expected escaped quote, got %s", got)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := Default()

	tbl, err := r.Lookup(RouteBeds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Name != "beds" {
		t.Errorf("expected beds, got %s", tbl.Name)
	}

	_, err = r.Lookup("pharmacy")
	if !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("expected ErrUnknownRoute, got %v", err)
	}
}

func TestRegistry_Validate(t *testing.T) {
	r := Default()

	if err := r.Validate([]string{"beds", "census", "sitrep", "electives", "ros"}); err != nil {
		t.Errorf("expected default routes to validate, got %v", err)
	}

	err := r.Validate([]string{"beds", "foo", "bar"})
	if !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
	if !strings.Contains(err.Error(), `"foo"`) || !strings.Contains(err.Error(), `"bar"`) {
		t.Errorf("expected both unknown routes reported, got %v", err)
	}
}

func TestRegistry_RoutesSorted(t *testing.T) {
	got := Default().Routes()
	want := []string{"beds", "census", "electives", "icu_discharge", "ros", "sitrep"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}
