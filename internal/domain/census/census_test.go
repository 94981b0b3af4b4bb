package census

import (
	"context"
	"encoding/json"
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

func TestCensusRepoPG_ListByDepartments(t *testing.T) {
	conn, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	modified := time.Date(2022, 1, 2, 3, 4, 0, 0, time.UTC)
	cols := []string{"encounter", "mrn", "firstname", "lastname", "date_of_birth",
		"location_id", "location_string", "department", "modified_at"}
	sm.ExpectQuery(`FROM hyui\.live_census WHERE department IN \(\$1\)`).
		WithArgs("UCH T03 INTENSIVE CARE").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1013378594), "abc", "Santa", "Claus", time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC),
				int64(2), "location_a", "UCH T03 INTENSIVE CARE", modified))

	items, err := NewCensusRepoPG(conn).ListByDepartments(context.Background(), []string{"UCH T03 INTENSIVE CARE"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1013378594), items[0].Encounter)
	assert.Equal(t, "2001-02-03", *items[0].DateOfBirth)
	assert.True(t, modified.Equal(*items[0].ModifiedAt))
	assert.NoError(t, sm.ExpectationsWereMet())
}

func TestCensusRepoMock_ListByDepartments(t *testing.T) {
	ctx := context.Background()
	store, err := db.OpenSQLite("sqlite://")
	require.NoError(t, err)
	defer store.Close()

	_, err = mock.Replace(ctx, store, schema.Census, &mock.Dataset{Route: "census", Rows: []mock.Record{
		{"encounter": int64(1), "department": "T03", "date_of_birth": "1950-07-01",
			"modified_at": time.Date(2022, 1, 2, 3, 4, 0, 0, time.UTC), "location_string": "b"},
		{"encounter": int64(2), "department": "T03", "location_string": "a"},
		{"encounter": int64(3), "department": "T06"},
	}})
	require.NoError(t, err)

	items, err := NewCensusRepoMock(store).ListByDepartments(ctx, []string{"T03"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].Encounter)
	assert.Nil(t, items[0].DateOfBirth)
	assert.Nil(t, items[0].ModifiedAt)
	assert.Equal(t, "1950-07-01", *items[1].DateOfBirth)
	assert.True(t, time.Date(2022, 1, 2, 3, 4, 0, 0, time.UTC).Equal(*items[1].ModifiedAt))
}

type fakeRepo struct {
	got []string
}

func (f *fakeRepo) ListByDepartments(_ context.Context, departments []string) ([]*CensusRow, error) {
	f.got = departments
	return []*CensusRow{{Encounter: 7}}, nil
}

func TestHandler_ListCensus(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(NewService(repo, []string{"T03"}))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/census/?departments=GWB", nil), rec)

	require.NoError(t, h.ListCensus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"GWB"}, repo.got)

	var out []CensusRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(7), out[0].Encounter)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/census/", nil), httptest.NewRecorder())
	require.NoError(t, h.ListCensus(c))
	assert.Equal(t, []string{"T03"}, repo.got)
}
