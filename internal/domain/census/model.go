package census

import (
	"database/sql"
	"time"

	"github.com/hylode/hyui/internal/platform/db"
)

// CensusRow is a patient occupying a location.
type CensusRow struct {
	Encounter      int64      `json:"encounter"`
	MRN            *string    `json:"mrn"`
	Firstname      *string    `json:"firstname"`
	Lastname       *string    `json:"lastname"`
	DateOfBirth    *string    `json:"date_of_birth"`
	LocationID     *int64     `json:"location_id"`
	LocationString *string    `json:"location_string"`
	Department     *string    `json:"department"`
	ModifiedAt     *time.Time `json:"modified_at"`
}

const censusCols = `encounter, mrn, firstname, lastname, date_of_birth,
	location_id, location_string, department, modified_at`

func scanCensusRow(row interface{ Scan(...any) error }) (*CensusRow, error) {
	var (
		r                           CensusRow
		mrn, first, last, loc, dept sql.NullString
		locationID                  sql.NullInt64
		dob, modified               db.Timestamp
	)
	if err := row.Scan(&r.Encounter, &mrn, &first, &last, &dob,
		&locationID, &loc, &dept, &modified); err != nil {
		return nil, err
	}
	r.MRN = db.StringPtr(mrn)
	r.Firstname = db.StringPtr(first)
	r.Lastname = db.StringPtr(last)
	r.DateOfBirth = dob.DatePtr()
	r.LocationID = db.Int64Ptr(locationID)
	r.LocationString = db.StringPtr(loc)
	r.Department = db.StringPtr(dept)
	r.ModifiedAt = modified.Ptr()
	return &r, nil
}
