package electives

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/mock"
	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/schema"
)

func seedElectives(t *testing.T, dates ...string) ElectiveRepository {
	t.Helper()
	store, err := db.OpenSQLite("sqlite://")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rows := make([]mock.Record, len(dates))
	for i, d := range dates {
		rows[i] = mock.Record{"surgical_case_key": int64(i + 1), "surgery_date": d, "theatre": "T1", "pacu": i%2 == 0}
	}
	_, err = mock.Replace(context.Background(), store, schema.Electives, &mock.Dataset{Route: "electives", Rows: rows})
	require.NoError(t, err)
	return NewElectiveRepoMock(store)
}

func TestRelativeService_WindowEndsAtLatestCase(t *testing.T) {
	repo := seedElectives(t, "2022-02-20", "2022-02-27", "2022-03-01", "2022-03-02")
	svc := NewRelativeService(repo)

	items, err := svc.Upcoming(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2022-03-01", *items[0].SurgeryDate)
	assert.Equal(t, "2022-03-02", *items[1].SurgeryDate)
	assert.True(t, *items[0].PACU)

	items, err = svc.Upcoming(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = svc.Upcoming(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestRelativeService_EmptyTable(t *testing.T) {
	items, err := NewRelativeService(seedElectives(t)).Upcoming(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_WindowStartsToday(t *testing.T) {
	conn, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	sm.ExpectQuery(`FROM hyui\.elective_cases WHERE surgery_date >= \$1::date AND surgery_date <= \$2::date`).
		WithArgs("2022-03-01", "2022-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"surgical_case_key", "patient_durable_key", "primary_mrn", "surgery_date",
			"theatre", "department", "primary_procedure", "planned_los_days", "pacu", "icu_prob",
			"firstname", "lastname", "age_in_years"}).
			AddRow(int64(7), nil, "4080", time.Date(2022, 3, 2, 0, 0, 0, 0, time.UTC),
				"T1", "SURGERY", "Hip", 2.5, true, 0.1, "Ann", "Lee", int64(71)))

	svc := NewService(NewElectiveRepoPG(conn))
	svc.now = func() time.Time { return time.Date(2022, 3, 1, 15, 30, 0, 0, time.UTC) }

	items, err := svc.Upcoming(context.Background(), DefaultDays)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2022-03-02", *items[0].SurgeryDate)
	assert.Equal(t, 0.1, *items[0].IcuProb)
	assert.Nil(t, items[0].PatientDurableKey)
	assert.NoError(t, sm.ExpectationsWereMet())
}

func TestHandler_ListElectives(t *testing.T) {
	h := NewHandler(NewRelativeService(seedElectives(t, "2022-03-01")))
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/electives/?days=1", nil), rec)
	require.NoError(t, h.ListElectives(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"surgery_date":"2022-03-01"`)

	for _, bad := range []string{"x", "-1", "1000"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/electives/?days="+bad, nil), httptest.NewRecorder())
		err := h.ListElectives(c)
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok, "days=%s", bad) {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	}
}
