package hymind

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/schema"
)

// ErrInvalidPayload marks predictions that fail validation.
var ErrInvalidPayload = errors.New("invalid prediction payload")

// IcuDischarge is the predicted probability that a critical care patient is
// discharged within the model's horizon.
type IcuDischarge struct {
	EpisodeSliceID    int64             `json:"episode_slice_id"`
	WardCode          *string           `json:"ward_code"`
	BedCode           *string           `json:"bed_code"`
	AdmissionAgeYears *int64            `json:"admission_age_years"`
	AdmissionDt       *schema.Timestamp `json:"admission_dt"`
	ElapsedLosTd      *float64          `json:"elapsed_los_td"`
	AvgHeartRate      *float64          `json:"avg_heart_rate_1_24h"`
	MaxTemp           *float64          `json:"max_temp_1_12h"`
	AvgRespRate       *float64          `json:"avg_resp_rate_1_24h"`
	NInotropes        *int64            `json:"n_inotropes_1_4h"`
	WIM               *int64            `json:"wim_1"`
	PredictionAsReal  *float64          `json:"prediction_as_real"`
}

func (d *IcuDischarge) Validate() error {
	if d.EpisodeSliceID == 0 {
		return errors.New("episode_slice_id is required")
	}
	if d.PredictionAsReal != nil && (*d.PredictionAsReal < 0 || *d.PredictionAsReal > 1) {
		return fmt.Errorf("prediction_as_real %v outside [0, 1]", *d.PredictionAsReal)
	}
	if d.AdmissionAgeYears != nil && (*d.AdmissionAgeYears < 0 || *d.AdmissionAgeYears > 130) {
		return fmt.Errorf("admission_age_years %d out of range", *d.AdmissionAgeYears)
	}
	if d.NInotropes != nil && *d.NInotropes < 0 {
		return fmt.Errorf("n_inotropes_1_4h %d is negative", *d.NInotropes)
	}
	return nil
}

const dischargeCols = `episode_slice_id, ward_code, bed_code, admission_age_years, admission_dt,
	elapsed_los_td, avg_heart_rate_1_24h, max_temp_1_12h, avg_resp_rate_1_24h,
	n_inotropes_1_4h, wim_1, prediction_as_real`

func scanIcuDischarge(row interface{ Scan(...any) error }) (IcuDischarge, error) {
	var (
		d                            IcuDischarge
		ward, bed                    sql.NullString
		age, inotropes, wim          sql.NullInt64
		admitted                     db.Timestamp
		los, heart, temp, resp, pred sql.NullFloat64
	)
	err := row.Scan(&d.EpisodeSliceID, &ward, &bed, &age, &admitted,
		&los, &heart, &temp, &resp, &inotropes, &wim, &pred)
	if err != nil {
		return d, err
	}
	d.WardCode = db.StringPtr(ward)
	d.BedCode = db.StringPtr(bed)
	d.AdmissionAgeYears = db.Int64Ptr(age)
	if admitted.Valid {
		d.AdmissionDt = &schema.Timestamp{Time: admitted.Time}
	}
	d.ElapsedLosTd = db.Float64Ptr(los)
	d.AvgHeartRate = db.Float64Ptr(heart)
	d.MaxTemp = db.Float64Ptr(temp)
	d.AvgRespRate = db.Float64Ptr(resp)
	d.NInotropes = db.Int64Ptr(inotropes)
	d.WIM = db.Int64Ptr(wim)
	d.PredictionAsReal = db.Float64Ptr(pred)
	return d, nil
}

// ElEmTap is one point of the predicted distribution of emergency
// admissions to a department.
type ElEmTap struct {
	BedCount    int     `json:"bed_count"`
	Probability float64 `json:"probability"`
}

func (t *ElEmTap) Validate() error {
	if t.BedCount < 0 {
		return fmt.Errorf("bed_count %d is negative", t.BedCount)
	}
	if t.Probability < 0 || t.Probability > 1 {
		return fmt.Errorf("probability %v outside [0, 1]", t.Probability)
	}
	return nil
}

// TapRequest asks for the emergency admission forecast of a department.
type TapRequest struct {
	HorizonDt  schema.Timestamp `json:"horizon_dt"`
	Department string           `json:"department"`
}

func (r *TapRequest) Validate() error {
	if r.HorizonDt.IsZero() {
		return errors.New("horizon_dt is required")
	}
	if r.Department == "" {
		return errors.New("department is required")
	}
	return nil
}

// decodeData decodes {"data": [...]} or a bare array and validates every
// element.
func decodeData[T any](body []byte, validate func(*T) error) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		var env struct {
			Data *[]T `json:"data"`
		}
		if envErr := json.Unmarshal(body, &env); envErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, envErr)
		}
		if env.Data == nil {
			return nil, fmt.Errorf("%w: no data", ErrInvalidPayload)
		}
		items = *env.Data
	}
	for i := range items {
		if err := validate(&items[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidPayload, i, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
