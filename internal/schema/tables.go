package schema

// Route names served by the dashboard.
const (
	RouteBeds         = "beds"
	RouteCensus       = "census"
	RouteSitrep       = "sitrep"
	RouteElectives    = "electives"
	RouteRos          = "ros"
	RouteIcuDischarge = "icu_discharge"
)

// Beds is one physical bed location.
var Beds = Table{
	Name: RouteBeds,
	Fields: []Field{
		{Name: "location_id", Type: Integer, Required: true},
		{Name: "location_string", Type: Text, Required: true},
		{Name: "department", Type: Text, Required: true},
		{Name: "room", Type: Text},
		{Name: "bed", Type: Text},
		{Name: "bed_functional", Type: JSON},
		{Name: "bed_physical", Type: JSON},
		{Name: "closed", Type: Boolean},
		{Name: "covid", Type: Boolean},
		{Name: "unit_order", Type: Integer},
		{Name: "discharge_ready", Type: Text},
	},
}

// Census is one occupied location.
var Census = Table{
	Name: RouteCensus,
	Fields: []Field{
		{Name: "encounter", Type: Integer, Required: true},
		{Name: "mrn", Type: Text},
		{Name: "firstname", Type: Text},
		{Name: "lastname", Type: Text},
		{Name: "date_of_birth", Type: Date},
		{Name: "location_id", Type: Integer},
		{Name: "location_string", Type: Text},
		{Name: "department", Type: Text},
		{Name: "modified_at", Type: DateTime},
	},
}

// Sitrep is a critical care situation report row.
var Sitrep = Table{
	Name: RouteSitrep,
	Fields: []Field{
		{Name: "dob", Type: Date},
		{Name: "admission_age_years", Type: Integer},
		{Name: "name", Type: Text},
		{Name: "mrn", Type: Text},
		{Name: "csn", Type: Integer},
		{Name: "episode_slice_id", Type: Integer},
		{Name: "admission_dt", Type: DateTime},
		{Name: "elapsed_los_td", Type: Real},
		{Name: "bed_code", Type: Text},
		{Name: "bay_code", Type: Text},
		{Name: "ward_code", Type: Text},
		{Name: "sex", Type: Text},
		{Name: "is_proned_1_4h", Type: Boolean},
		{Name: "discharge_ready_1_4h", Type: Boolean},
		{Name: "is_agitated_1_8h", Type: Boolean},
		{Name: "n_inotropes_1_4h", Type: Integer},
		{Name: "had_nitric_1_8h", Type: Boolean},
		{Name: "had_rrt_1_4h", Type: Boolean},
		{Name: "had_trache_1_12h", Type: Boolean},
		{Name: "vent_type_1_4h", Type: Text},
		{Name: "avg_heart_rate_1_24h", Type: Real},
		{Name: "max_temp_1_12h", Type: Real},
		{Name: "avg_resp_rate_1_24h", Type: Real},
		{Name: "wim_1", Type: Integer},
	},
}

// Electives is one booked elective surgical case.
var Electives = Table{
	Name: RouteElectives,
	Fields: []Field{
		{Name: "surgical_case_key", Type: Integer, Required: true},
		{Name: "patient_durable_key", Type: Integer},
		{Name: "primary_mrn", Type: Text},
		{Name: "surgery_date", Type: Date, Required: true},
		{Name: "theatre", Type: Text},
		{Name: "department", Type: Text},
		{Name: "primary_procedure", Type: Text},
		{Name: "planned_los_days", Type: Real},
		{Name: "pacu", Type: Boolean},
		{Name: "icu_prob", Type: Real},
		{Name: "firstname", Type: Text},
		{Name: "lastname", Type: Text},
		{Name: "age_in_years", Type: Integer},
	},
}

// Ros tracks respiratory / MRSA / covid screening orders per patient.
var Ros = Table{
	Name: RouteRos,
	Fields: []Field{
		{Name: "department", Type: Text, Required: true},
		{Name: "bed_name", Type: Text},
		{Name: "mrn", Type: Text},
		{Name: "encounter", Type: Integer},
		{Name: "firstname", Type: Text},
		{Name: "lastname", Type: Text},
		{Name: "date_of_birth", Type: Date},
		{Name: "hospital_admission_datetime", Type: DateTime},
		{Name: "location_admission_datetime", Type: DateTime},
		{Name: "ros_orders", Type: JSON},
		{Name: "mrsa_orders", Type: JSON},
		{Name: "covid_orders", Type: JSON},
	},
}

// IcuDischarge is a discharge prediction for a critical care patient.
var IcuDischarge = Table{
	Name: RouteIcuDischarge,
	Fields: []Field{
		{Name: "episode_slice_id", Type: Integer, Required: true},
		{Name: "ward_code", Type: Text},
		{Name: "bed_code", Type: Text},
		{Name: "admission_age_years", Type: Integer},
		{Name: "admission_dt", Type: DateTime},
		{Name: "elapsed_los_td", Type: Real},
		{Name: "avg_heart_rate_1_24h", Type: Real},
		{Name: "max_temp_1_12h", Type: Real},
		{Name: "avg_resp_rate_1_24h", Type: Real},
		{Name: "n_inotropes_1_4h", Type: Integer},
		{Name: "wim_1", Type: Integer},
		{Name: "prediction_as_real", Type: Real},
	},
}

// Default returns the registry of every dashboard table.
func Default() *Registry {
	return NewRegistry(Beds, Census, Sitrep, Electives, Ros, IcuDischarge)
}
