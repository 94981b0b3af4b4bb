package ros

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hylode/hyui/internal/platform/db"
)

// RosRow is a patient with their respiratory, MRSA and covid screening
// orders. The order lists are passed through as JSON.
type RosRow struct {
	Department                string          `json:"department"`
	BedName                   *string         `json:"bed_name"`
	MRN                       *string         `json:"mrn"`
	Encounter                 *int64          `json:"encounter"`
	Firstname                 *string         `json:"firstname"`
	Lastname                  *string         `json:"lastname"`
	DateOfBirth               *string         `json:"date_of_birth"`
	HospitalAdmissionDatetime *time.Time      `json:"hospital_admission_datetime"`
	LocationAdmissionDatetime *time.Time      `json:"location_admission_datetime"`
	RosOrders                 json.RawMessage `json:"ros_orders"`
	MrsaOrders                json.RawMessage `json:"mrsa_orders"`
	CovidOrders               json.RawMessage `json:"covid_orders"`
}

const rosCols = `department, bed_name, mrn, encounter, firstname, lastname, date_of_birth,
	hospital_admission_datetime, location_admission_datetime,
	ros_orders, mrsa_orders, covid_orders`

func scanRosRow(row interface{ Scan(...any) error }) (*RosRow, error) {
	var (
		r                         RosRow
		bed, mrn, first, last     sql.NullString
		encounter                 sql.NullInt64
		dob, hospAdmit, locAdmit  db.Timestamp
		rosOrd, mrsaOrd, covidOrd sql.NullString
	)
	err := row.Scan(&r.Department, &bed, &mrn, &encounter, &first, &last, &dob,
		&hospAdmit, &locAdmit, &rosOrd, &mrsaOrd, &covidOrd)
	if err != nil {
		return nil, err
	}
	r.BedName = db.StringPtr(bed)
	r.MRN = db.StringPtr(mrn)
	r.Encounter = db.Int64Ptr(encounter)
	r.Firstname = db.StringPtr(first)
	r.Lastname = db.StringPtr(last)
	r.DateOfBirth = dob.DatePtr()
	r.HospitalAdmissionDatetime = hospAdmit.Ptr()
	r.LocationAdmissionDatetime = locAdmit.Ptr()
	r.RosOrders = db.RawJSON(rosOrd)
	r.MrsaOrders = db.RawJSON(mrsaOrd)
	r.CovidOrders = db.RawJSON(covidOrd)
	return &r, nil
}
