package sitrep

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/schema"
)

// SitrepRow is one critical care patient on the situation report.
type SitrepRow struct {
	Dob               *string    `json:"dob"`
	AdmissionAgeYears *int64     `json:"admission_age_years"`
	Name              *string    `json:"name"`
	MRN               *string    `json:"mrn"`
	CSN               *int64     `json:"csn"`
	EpisodeSliceID    *int64     `json:"episode_slice_id"`
	AdmissionDt       *time.Time `json:"admission_dt"`
	ElapsedLosTd      *float64   `json:"elapsed_los_td"`
	BedCode           *string    `json:"bed_code"`
	BayCode           *string    `json:"bay_code"`
	WardCode          *string    `json:"ward_code"`
	Sex               *string    `json:"sex"`
	IsProned          *bool      `json:"is_proned_1_4h"`
	DischargeReady    *bool      `json:"discharge_ready_1_4h"`
	IsAgitated        *bool      `json:"is_agitated_1_8h"`
	NInotropes        *int64     `json:"n_inotropes_1_4h"`
	HadNitric         *bool      `json:"had_nitric_1_8h"`
	HadRRT            *bool      `json:"had_rrt_1_4h"`
	HadTrache         *bool      `json:"had_trache_1_12h"`
	VentType          *string    `json:"vent_type_1_4h"`
	AvgHeartRate      *float64   `json:"avg_heart_rate_1_24h"`
	MaxTemp           *float64   `json:"max_temp_1_12h"`
	AvgRespRate       *float64   `json:"avg_resp_rate_1_24h"`
	WIM               *int64     `json:"wim_1"`
}

// UnmarshalJSON accepts dob and admission_dt in any of the timestamp
// layouts HyCastle emits. dob is reduced to its date.
func (r *SitrepRow) UnmarshalJSON(b []byte) error {
	type plain SitrepRow
	aux := struct {
		*plain
		Dob         *string `json:"dob"`
		AdmissionDt *string `json:"admission_dt"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Dob, r.AdmissionDt = nil, nil
	if aux.Dob != nil && *aux.Dob != "" {
		t, err := schema.ParseTime(*aux.Dob)
		if err != nil {
			return fmt.Errorf("dob: %w", err)
		}
		d := t.Format(schema.DateLayout)
		r.Dob = &d
	}
	if aux.AdmissionDt != nil && *aux.AdmissionDt != "" {
		t, err := schema.ParseTime(*aux.AdmissionDt)
		if err != nil {
			return fmt.Errorf("admission_dt: %w", err)
		}
		r.AdmissionDt = &t
	}
	return nil
}

const sitrepCols = `dob, admission_age_years, name, mrn, csn, episode_slice_id,
	admission_dt, elapsed_los_td, bed_code, bay_code, ward_code, sex,
	is_proned_1_4h, discharge_ready_1_4h, is_agitated_1_8h, n_inotropes_1_4h,
	had_nitric_1_8h, had_rrt_1_4h, had_trache_1_12h, vent_type_1_4h,
	avg_heart_rate_1_24h, max_temp_1_12h, avg_resp_rate_1_24h, wim_1`

func scanSitrepRow(row interface{ Scan(...any) error }) (*SitrepRow, error) {
	var (
		dob, admitted                               db.Timestamp
		name, mrn, bed, bay, ward, sex, vent        sql.NullString
		age, csn, slice, inotropes, wim             sql.NullInt64
		los, heart, temp, resp                      sql.NullFloat64
		proned, ready, agitated, nitric, rrt, trach sql.NullBool
	)
	err := row.Scan(&dob, &age, &name, &mrn, &csn, &slice,
		&admitted, &los, &bed, &bay, &ward, &sex,
		&proned, &ready, &agitated, &inotropes,
		&nitric, &rrt, &trach, &vent,
		&heart, &temp, &resp, &wim)
	if err != nil {
		return nil, err
	}
	return &SitrepRow{
		Dob:               dob.DatePtr(),
		AdmissionAgeYears: db.Int64Ptr(age),
		Name:              db.StringPtr(name),
		MRN:               db.StringPtr(mrn),
		CSN:               db.Int64Ptr(csn),
		EpisodeSliceID:    db.Int64Ptr(slice),
		AdmissionDt:       admitted.Ptr(),
		ElapsedLosTd:      db.Float64Ptr(los),
		BedCode:           db.StringPtr(bed),
		BayCode:           db.StringPtr(bay),
		WardCode:          db.StringPtr(ward),
		Sex:               db.StringPtr(sex),
		IsProned:          db.BoolPtr(proned),
		DischargeReady:    db.BoolPtr(ready),
		IsAgitated:        db.BoolPtr(agitated),
		NInotropes:        db.Int64Ptr(inotropes),
		HadNitric:         db.BoolPtr(nitric),
		HadRRT:            db.BoolPtr(rrt),
		HadTrache:         db.BoolPtr(trach),
		VentType:          db.StringPtr(vent),
		AvgHeartRate:      db.Float64Ptr(heart),
		MaxTemp:           db.Float64Ptr(temp),
		AvgRespRate:       db.Float64Ptr(resp),
		WIM:               db.Int64Ptr(wim),
	}, nil
}

// Option is a Baserow select option.
type Option struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// Number is a Baserow number field. Baserow serializes decimals as strings.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", b)
	}
	*n = Number(f)
	return nil
}

// BedRow is a row of the Baserow beds table.
type BedRow struct {
	ID             *int64          `json:"id,omitempty"`
	Department     *string         `json:"department"`
	LocationID     *Number         `json:"location_id"`
	LocationString string          `json:"location_string"`
	Room           *string         `json:"room"`
	Bed            *string         `json:"bed"`
	BedID          *string         `json:"bed_id"`
	UnitOrder      *Number         `json:"unit_order"`
	Closed         bool            `json:"closed"`
	Covid          bool            `json:"covid"`
	BedFunctional  []Option        `json:"bed_functional"`
	BedPhysical    []Option        `json:"bed_physical"`
	DischargeReady json.RawMessage `json:"DischargeReady,omitempty"`
}
