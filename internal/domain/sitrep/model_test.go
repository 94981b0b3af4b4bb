package sitrep

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows_Envelope(t *testing.T) {
	rows, err := decodeRows([]byte(`{"data":[{"dob":"1950-07-01T00:00:00","mrn":"40800000","csn":1,"admission_dt":"2022-03-01 10:00:00","is_proned_1_4h":true}]}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "1950-07-01", *r.Dob)
	assert.Equal(t, "40800000", *r.MRN)
	assert.Equal(t, int64(1), *r.CSN)
	assert.True(t, time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC).Equal(*r.AdmissionDt))
	assert.True(t, *r.IsProned)
	assert.Nil(t, r.WIM)
}

func TestDecodeRows_BareArray(t *testing.T) {
	rows, err := decodeRows([]byte(` [{"bed_code":"BY01-BD01"},{"bed_code":"BY01-BD02"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BY01-BD02", *rows[1].BedCode)
}

func TestDecodeRows_Invalid(t *testing.T) {
	for _, body := range []string{
		`{"rows":[]}`,
		`[{"dob":"yesterday"}]`,
		`[{"csn":"not a number"}]`,
		`<html>`,
	} {
		_, err := decodeRows([]byte(body))
		assert.True(t, errors.Is(err, ErrInvalidPayload), "body %s: %v", body, err)
	}
}

func TestNumber_Unmarshal(t *testing.T) {
	var b BedRow
	require.NoError(t, json.Unmarshal([]byte(`{"unit_order":"3.00","location_id":12,"closed":true}`), &b))
	assert.Equal(t, Number(3), *b.UnitOrder)
	assert.Equal(t, Number(12), *b.LocationID)
	assert.True(t, b.Closed)

	assert.Error(t, json.Unmarshal([]byte(`{"unit_order":"three"}`), &b))
}
