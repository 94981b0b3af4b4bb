package electives

import (
	"database/sql"

	"github.com/hylode/hyui/internal/platform/db"
)

// ElectiveCase is a booked elective surgical case.
type ElectiveCase struct {
	SurgicalCaseKey   int64    `json:"surgical_case_key"`
	PatientDurableKey *int64   `json:"patient_durable_key"`
	PrimaryMRN        *string  `json:"primary_mrn"`
	SurgeryDate       *string  `json:"surgery_date"`
	Theatre           *string  `json:"theatre"`
	Department        *string  `json:"department"`
	PrimaryProcedure  *string  `json:"primary_procedure"`
	PlannedLosDays    *float64 `json:"planned_los_days"`
	PACU              *bool    `json:"pacu"`
	IcuProb           *float64 `json:"icu_prob"`
	Firstname         *string  `json:"firstname"`
	Lastname          *string  `json:"lastname"`
	AgeInYears        *int64   `json:"age_in_years"`
}

const electiveCols = `surgical_case_key, patient_durable_key, primary_mrn, surgery_date,
	theatre, department, primary_procedure, planned_los_days, pacu, icu_prob,
	firstname, lastname, age_in_years`

func scanElectiveCase(row interface{ Scan(...any) error }) (*ElectiveCase, error) {
	var (
		e                                     ElectiveCase
		durableKey, age                       sql.NullInt64
		mrn, theatre, dept, proc, first, last sql.NullString
		surgeryDate                           db.Timestamp
		los, icuProb                          sql.NullFloat64
		pacu                                  sql.NullBool
	)
	err := row.Scan(&e.SurgicalCaseKey, &durableKey, &mrn, &surgeryDate,
		&theatre, &dept, &proc, &los, &pacu, &icuProb,
		&first, &last, &age)
	if err != nil {
		return nil, err
	}
	e.PatientDurableKey = db.Int64Ptr(durableKey)
	e.PrimaryMRN = db.StringPtr(mrn)
	e.SurgeryDate = surgeryDate.DatePtr()
	e.Theatre = db.StringPtr(theatre)
	e.Department = db.StringPtr(dept)
	e.PrimaryProcedure = db.StringPtr(proc)
	e.PlannedLosDays = db.Float64Ptr(los)
	e.PACU = db.BoolPtr(pacu)
	e.IcuProb = db.Float64Ptr(icuProb)
	e.Firstname = db.StringPtr(first)
	e.Lastname = db.StringPtr(last)
	e.AgeInYears = db.Int64Ptr(age)
	return &e, nil
}
