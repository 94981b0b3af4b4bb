package beds

import (
	"database/sql"
	"encoding/json"

	"github.com/hylode/hyui/internal/platform/db"
)

// Bed is one physical bed location.
type Bed struct {
	LocationID     int64           `json:"location_id"`
	LocationString string          `json:"location_string"`
	Department     string          `json:"department"`
	Room           *string         `json:"room"`
	Bed            *string         `json:"bed"`
	BedFunctional  json.RawMessage `json:"bed_functional"`
	BedPhysical    json.RawMessage `json:"bed_physical"`
	Closed         *bool           `json:"closed"`
	Covid          *bool           `json:"covid"`
	UnitOrder      *int64          `json:"unit_order"`
	DischargeReady *string         `json:"discharge_ready"`
}

// Filter restricts a bed listing. Empty slices do not filter.
type Filter struct {
	Departments []string
	Locations   []string
}

const bedCols = `location_id, location_string, department, room, bed,
	bed_functional, bed_physical, closed, covid, unit_order, discharge_ready`

func scanBed(row interface{ Scan(...any) error }) (*Bed, error) {
	var (
		b                     Bed
		room, bed, dischReady sql.NullString
		functional, physical  sql.NullString
		closed, covid         sql.NullBool
		unitOrder             sql.NullInt64
	)
	err := row.Scan(&b.LocationID, &b.LocationString, &b.Department, &room, &bed,
		&functional, &physical, &closed, &covid, &unitOrder, &dischReady)
	if err != nil {
		return nil, err
	}
	b.Room = db.StringPtr(room)
	b.Bed = db.StringPtr(bed)
	b.BedFunctional = db.RawJSON(functional)
	b.BedPhysical = db.RawJSON(physical)
	b.Closed = db.BoolPtr(closed)
	b.Covid = db.BoolPtr(covid)
	b.UnitOrder = db.Int64Ptr(unitOrder)
	b.DischargeReady = db.StringPtr(dischReady)
	return &b, nil
}

// where renders the filter as a WHERE clause for the dialect.
func (f Filter) where(d db.Dialect) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if len(f.Departments) > 0 {
		clauses = append(clauses, "department IN ("+d.Params(len(args)+1, len(f.Departments))+")")
		args = append(args, db.Args(f.Departments)...)
	}
	if len(f.Locations) > 0 {
		clauses = append(clauses, "location_string IN ("+d.Params(len(args)+1, len(f.Locations))+")")
		args = append(args, db.Args(f.Locations)...)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	q := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		q += " AND " + c
	}
	return q, args
}
