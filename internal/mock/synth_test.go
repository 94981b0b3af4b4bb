package mock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/schema"
)

func TestGenerator_Deterministic(t *testing.T) {
	cfg := SynthConfig{Rows: 20, Seed: 42, NullRate: 0.1, NaNRate: 0.1, Now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}

	a := NewGenerator(cfg).Dataset(schema.Electives)
	b := NewGenerator(cfg).Dataset(schema.Electives)

	require.Equal(t, len(a.Rows), len(b.Rows))
	for i := range a.Rows {
		for k, v := range a.Rows[i] {
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				assert.True(t, math.IsNaN(b.Rows[i][k].(float64)))
				continue
			}
			assert.Equal(t, v, b.Rows[i][k], "row %d field %s", i, k)
		}
	}
}

func TestGenerator_RespectsSchema(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ds := NewGenerator(SynthConfig{Rows: 200, Seed: 1, NullRate: 0.2, Now: now}).Dataset(schema.Electives)

	nulls := 0
	for _, row := range ds.Rows {
		require.NotNil(t, row["surgical_case_key"])
		date, ok := row["surgery_date"].(time.Time)
		require.True(t, ok)
		assert.False(t, date.Before(now))
		assert.True(t, date.Before(now.AddDate(0, 0, 8)))
		if row["theatre"] == nil {
			nulls++
		}
	}
	assert.Greater(t, nulls, 0, "optional fields should sometimes be null")
	assert.Less(t, nulls, 100)
}

func TestGenerator_UniqueKeys(t *testing.T) {
	ds := NewGenerator(SynthConfig{Rows: 50, Seed: 9}).Dataset(schema.Beds)
	seen := map[int64]bool{}
	for _, row := range ds.Rows {
		id := row["location_id"].(int64)
		assert.False(t, seen[id], "duplicate location_id %d", id)
		seen[id] = true
	}
}
