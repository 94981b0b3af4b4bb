package mock

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylode/hyui/internal/schema"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// SynthConfig controls the volume and shape of synthetic datasets.
type SynthConfig struct {
	Rows     int       `json:"rows"`
	Seed     int64     `json:"seed"`
	NullRate float64   `json:"null_rate"`
	NaNRate  float64   `json:"nan_rate"`
	Now      time.Time `json:"now"`
}

// DefaultSynthConfig returns the settings used by `mock synth`.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Rows:     40,
		Seed:     1,
		NullRate: 0.1,
		NaNRate:  0.05,
		Now:      time.Now().UTC().Truncate(24 * time.Hour),
	}
}

// ---------------------------------------------------------------------------
// Value pools
// ---------------------------------------------------------------------------

var (
	synthFirstNames = []string{
		"James", "Robert", "John", "Michael", "David", "William", "Richard",
		"Mary", "Patricia", "Jennifer", "Linda", "Barbara", "Elizabeth",
		"Susan", "Jessica", "Sarah", "Karen", "Amir", "Priya", "Chen",
	}
	synthLastNames = []string{
		"Smith", "Jones", "Williams", "Brown", "Taylor", "Davies", "Evans",
		"Wilson", "Thomas", "Johnson", "Roberts", "Patel", "Khan", "Walker",
		"Wright", "Robinson", "Thompson", "White", "Hughes", "Edwards",
	}
	synthDepartments = []string{
		"UCH T03 INTENSIVE CARE", "UCH T06 HEAD (T06H)", "UCH P03 CV UNIT",
		"GWB L01 CRITICAL CARE", "WMS W01 CRITICAL CARE", "UCH T07 NORTH (T07N)",
	}
	synthWards      = []string{"T03", "T06", "P03", "GWB", "WMS"}
	synthVentTypes  = []string{"Ventilated", "HFNO", "CPAP", "Oxygen", "Room air"}
	synthTheatres   = []string{"UCH P02 THR 01", "UCH P02 THR 02", "UCH P03 THR 04", "WMS THR 01"}
	synthProcedures = []string{
		"CORONARY ARTERY BYPASS GRAFT", "AORTIC VALVE REPLACEMENT",
		"CRANIOTOMY", "LAPAROTOMY", "OESOPHAGECTOMY", "HIP REPLACEMENT",
		"WHIPPLE PROCEDURE", "NEPHRECTOMY",
	}
	synthOrderStatus  = []string{"Completed", "Sent", "In process", "Cancelled"}
	synthBedFunctions = []string{"Critical Care", "Surgical", "Medical", "Side Room"}
)

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

// Generator produces reproducible synthetic rows for any registered table.
type Generator struct {
	cfg     SynthConfig
	rng     *rand.Rand
	counter int64
}

// NewGenerator creates a generator. The same config yields the same rows.
func NewGenerator(cfg SynthConfig) *Generator {
	if cfg.Now.IsZero() {
		cfg.Now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func (g *Generator) between(lo, hi float64) float64 {
	return math.Round((lo+g.rng.Float64()*(hi-lo))*100) / 100
}

func (g *Generator) nextID(base int64) int64 {
	g.counter++
	return base + g.counter
}

func (g *Generator) randomDate(minYear, maxYear int) time.Time {
	y := minYear + g.rng.Intn(maxYear-minYear+1)
	m := time.Month(1 + g.rng.Intn(12))
	d := 1 + g.rng.Intn(28)
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Dataset generates cfg.Rows rows for table.
func (g *Generator) Dataset(table schema.Table) *Dataset {
	ds := &Dataset{Route: table.Name, Columns: table.FieldNames(), Rows: make([]Record, g.cfg.Rows)}
	for i := range ds.Rows {
		rec := make(Record, len(table.Fields))
		for _, f := range table.Fields {
			rec[f.Name] = g.value(f, i)
		}
		ds.Rows[i] = rec
	}
	return ds
}

func (g *Generator) value(f schema.Field, row int) any {
	if !f.Required && !isKeyLike(f.Name) && g.rng.Float64() < g.cfg.NullRate {
		return nil
	}
	switch f.Type {
	case schema.Integer:
		return g.integer(f.Name, row)
	case schema.Real:
		if !f.Required && g.rng.Float64() < g.cfg.NaNRate {
			return math.NaN()
		}
		return g.real(f.Name)
	case schema.Boolean:
		return g.rng.Float64() < 0.2
	case schema.Date:
		return g.date(f.Name)
	case schema.DateTime:
		return g.cfg.Now.Add(-time.Duration(g.rng.Int63n(int64(30 * 24 * time.Hour)))).Truncate(time.Second)
	case schema.JSON:
		return g.json(f.Name)
	}
	return g.text(f.Name, row)
}

func isKeyLike(name string) bool {
	switch name {
	case "location_id", "encounter", "csn", "episode_slice_id", "surgical_case_key", "patient_durable_key":
		return true
	}
	return false
}

func (g *Generator) integer(name string, row int) int64 {
	switch name {
	case "location_id":
		return g.nextID(1000)
	case "encounter", "csn":
		return g.nextID(1_000_000_000)
	case "episode_slice_id", "surgical_case_key", "patient_durable_key":
		return g.nextID(100_000)
	case "admission_age_years", "age_in_years":
		return int64(18 + g.rng.Intn(78))
	case "unit_order":
		return int64(row + 1)
	case "n_inotropes_1_4h":
		return int64(g.rng.Intn(4))
	case "wim_1":
		return int64(g.rng.Intn(6))
	}
	return int64(g.rng.Intn(100))
}

func (g *Generator) real(name string) float64 {
	switch {
	case strings.Contains(name, "heart_rate"):
		return g.between(50, 130)
	case strings.Contains(name, "temp"):
		return g.between(35.5, 40)
	case strings.Contains(name, "resp_rate"):
		return g.between(10, 35)
	case name == "icu_prob", name == "prediction_as_real":
		return g.between(0, 1)
	case name == "planned_los_days":
		return float64(g.rng.Intn(15))
	case name == "elapsed_los_td":
		return g.between(3600, 30*86400)
	}
	return g.between(0, 100)
}

func (g *Generator) date(name string) time.Time {
	if name == "surgery_date" {
		return g.cfg.Now.AddDate(0, 0, g.rng.Intn(8))
	}
	year := g.cfg.Now.Year()
	return g.randomDate(year-95, year-18)
}

func (g *Generator) text(name string, row int) string {
	switch name {
	case "department":
		return g.pick(synthDepartments)
	case "ward_code":
		return g.pick(synthWards)
	case "bay_code":
		return fmt.Sprintf("BY%02d", 1+g.rng.Intn(8))
	case "bed", "bed_code", "bed_name":
		return fmt.Sprintf("BY%02d-%02d", 1+g.rng.Intn(8), 1+g.rng.Intn(30))
	case "room":
		return fmt.Sprintf("SR%02d", 1+g.rng.Intn(20))
	case "location_string":
		ward := g.pick(synthWards)
		return fmt.Sprintf("%s^%s BY%02d^BY%02d-%02d", ward, ward, 1+g.rng.Intn(8), 1+g.rng.Intn(8), row+1)
	case "mrn", "primary_mrn":
		return fmt.Sprintf("%08d", g.rng.Intn(100_000_000))
	case "firstname":
		return g.pick(synthFirstNames)
	case "lastname":
		return g.pick(synthLastNames)
	case "name":
		return g.pick(synthFirstNames) + " " + strings.ToUpper(g.pick(synthLastNames))
	case "sex":
		return []string{"M", "F"}[g.rng.Intn(2)]
	case "vent_type_1_4h":
		return g.pick(synthVentTypes)
	case "theatre":
		return g.pick(synthTheatres)
	case "primary_procedure":
		return g.pick(synthProcedures)
	case "discharge_ready":
		return []string{"Yes", "No", "Review"}[g.rng.Intn(3)]
	}
	return fmt.Sprintf("%s-%d", name, row)
}

func (g *Generator) json(name string) any {
	if strings.HasPrefix(name, "bed_") {
		return []string{g.pick(synthBedFunctions)}
	}
	n := g.rng.Intn(3)
	orders := make([]map[string]any, n)
	for i := range orders {
		orders[i] = map[string]any{
			"order_datetime": g.cfg.Now.Add(-time.Duration(g.rng.Intn(72)) * time.Hour).Format(time.RFC3339),
			"order_status":   g.pick(synthOrderStatus),
			"lab_result":     []string{"Positive", "Negative", "Pending"}[g.rng.Intn(3)],
		}
	}
	return orders
}

// ---------------------------------------------------------------------------
// Synthesize
// ---------------------------------------------------------------------------

// Synthesize writes an archive for every table under root and returns the
// written paths in table order.
func Synthesize(root string, tables []schema.Table, cfg SynthConfig) ([]string, error) {
	g := NewGenerator(cfg)
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(root, t.Name, ArchiveFile)
		if err := WriteArchiveFile(path, t, g.Dataset(t).Rows); err != nil {
			return paths, fmt.Errorf("synthesize %s: %w", t.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
