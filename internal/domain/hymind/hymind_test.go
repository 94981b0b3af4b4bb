package hymind

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/mock"
	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/platform/upstream"
	"github.com/hylode/hyui/internal/schema"
)

const (
	dischargeFixture = "../../../data/hymind/mock_icu_discharge.json"
	tapFixture       = "../../../data/hymind/tap_nonelective_tower.json"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDecodeData(t *testing.T) {
	items, err := decodeData([]byte(`{"data":[{"bed_count":1,"probability":0.2}]}`), (*ElEmTap).Validate)
	require.NoError(t, err)
	assert.Equal(t, []ElEmTap{{BedCount: 1, Probability: 0.2}}, items)

	items, err = decodeData([]byte(`[]`), (*ElEmTap).Validate)
	require.NoError(t, err)
	assert.NotNil(t, items)

	for _, body := range []string{
		`{"data":[{"bed_count":1,"probability":1.5}]}`,
		`{"data":[{"bed_count":-1,"probability":0.1}]}`,
		`{"predictions":[]}`,
		`[{"bed_count":"one"}]`,
	} {
		_, err := decodeData([]byte(body), (*ElEmTap).Validate)
		assert.True(t, errors.Is(err, ErrInvalidPayload), "body %s: %v", body, err)
	}
}

func TestIcuDischarge_Validate(t *testing.T) {
	bad := 1.2
	assert.Error(t, (&IcuDischarge{}).Validate())
	assert.Error(t, (&IcuDischarge{EpisodeSliceID: 1, PredictionAsReal: &bad}).Validate())
	assert.NoError(t, (&IcuDischarge{EpisodeSliceID: 1}).Validate())
}

func TestMockSource_FallsBackToFixture(t *testing.T) {
	store, err := db.OpenSQLite("sqlite://")
	require.NoError(t, err)
	defer store.Close()

	src := NewMockSource(store, dischargeFixture, tapFixture)
	items, err := src.IcuDischarge(context.Background(), "T03")
	require.NoError(t, err)
	require.Len(t, items, 8)
	assert.Equal(t, int64(301000), items[0].EpisodeSliceID)
	assert.True(t, time.Date(2022, 3, 1, 8, 15, 0, 0, time.UTC).Equal(items[0].AdmissionDt.Time))

	taps, err := src.TapEmergency(context.Background(), TapRequest{})
	require.NoError(t, err)
	assert.Len(t, taps, 13)
}

func TestMockSource_ReadsLoadedTable(t *testing.T) {
	ctx := context.Background()
	store, err := db.OpenSQLite("sqlite://")
	require.NoError(t, err)
	defer store.Close()

	_, err = mock.Replace(ctx, store, schema.IcuDischarge, &mock.Dataset{Route: schema.RouteIcuDischarge, Rows: []mock.Record{
		{"episode_slice_id": int64(9), "ward_code": "T03", "prediction_as_real": 0.4,
			"admission_dt": time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
	}})
	require.NoError(t, err)

	items, err := NewMockSource(store, "", "").IcuDischarge(ctx, "T03")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(9), items[0].EpisodeSliceID)
	assert.Equal(t, 0.4, *items[0].PredictionAsReal)
	assert.Nil(t, items[0].BedCode)
}

func TestMockSource_InvalidFixture(t *testing.T) {
	path := writeFixture(t, `{"data":[{"bed_count":2,"probability":7}]}`)
	_, err := NewMockSource(nil, "", path).TapEmergency(context.Background(), TapRequest{})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestHyMindSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/predictions/icu/discharge":
			assert.Equal(t, "T03", r.URL.Query().Get("ward"))
			w.Write([]byte(`{"data":[{"episode_slice_id":1,"prediction_as_real":0.3}]}`))
		case "/predict/":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "UCH T03 INTENSIVE CARE", req["department"])
			assert.Equal(t, "2022-03-01T12:00:00Z", req["horizon_dt"])
			w.Write([]byte(`{"data":[{"bed_count":0,"probability":0.7},{"bed_count":1,"probability":0.3}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHyMindSource(upstream.New(upstream.Options{Name: "hymind", BaseURL: srv.URL, Logger: zerolog.Nop()}))

	items, err := src.IcuDischarge(context.Background(), "T03")
	require.NoError(t, err)
	require.Len(t, items, 1)

	taps, err := src.TapEmergency(context.Background(), TapRequest{
		HorizonDt:  schema.Timestamp{Time: time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)},
		Department: "UCH T03 INTENSIVE CARE",
	})
	require.NoError(t, err)
	assert.Len(t, taps, 2)
}

type fakeSource struct {
	discharge []IcuDischarge
	taps      []ElEmTap
	err       error
}

func (f *fakeSource) IcuDischarge(context.Context, string) ([]IcuDischarge, error) {
	return f.discharge, f.err
}

func (f *fakeSource) TapEmergency(context.Context, TapRequest) ([]ElEmTap, error) {
	return f.taps, f.err
}

func TestHandler_GetIcuDischarge(t *testing.T) {
	h := NewHandler(&fakeSource{discharge: []IcuDischarge{{EpisodeSliceID: 5}}})
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/hymind/icu/discharge?ward=T03", nil), rec)
	require.NoError(t, h.GetIcuDischarge(c))

	var body struct {
		Data []IcuDischarge `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(5), body.Data[0].EpisodeSliceID)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/hymind/icu/discharge", nil), httptest.NewRecorder())
	he, ok := h.GetIcuDischarge(c).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestHandler_InvalidUpstreamPayloadIsBadGateway(t *testing.T) {
	h := NewHandler(&fakeSource{err: ErrInvalidPayload})
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/hymind/icu/discharge?ward=T03", nil), httptest.NewRecorder())

	he, ok := h.GetIcuDischarge(c).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Code)
}

func TestHandler_PostTapEmergency(t *testing.T) {
	h := NewHandler(&fakeSource{taps: []ElEmTap{{BedCount: 0, Probability: 1}}})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/hymind/icu/tap/emergency",
		strings.NewReader(`{"horizon_dt":"2022-03-01T12:00:00","department":"T03"}`))
	rec := httptest.NewRecorder()
	require.NoError(t, h.PostTapEmergency(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"bed_count":0,"probability":1}]}`, rec.Body.String())

	for _, body := range []string{`{"department":"T03"}`, `{"horizon_dt":"2022-03-01"}`, `nope`} {
		req := httptest.NewRequest(http.MethodPost, "/hymind/icu/tap/emergency", strings.NewReader(body))
		he, ok := h.PostTapEmergency(e.NewContext(req, httptest.NewRecorder())).(*echo.HTTPError)
		require.True(t, ok, body)
		assert.Equal(t, http.StatusBadRequest, he.Code, body)
	}
}
