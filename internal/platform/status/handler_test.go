package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/mock"
)

type fixedReports struct{ r *mock.Report }

func (f fixedReports) Last() *mock.Report { return f.r }

func TestPing(t *testing.T) {
	e := echo.New()
	NewHandler(nil).RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["ping"] != "pong" {
		t.Errorf("expected pong, got %v", body)
	}
}

func TestPingFast(t *testing.T) {
	h := NewHandler(nil)
	h.now = func() time.Time { return time.Date(2022, 3, 4, 5, 6, 7, 891_000_000, time.UTC) }

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/ping/fast", nil), rec)

	if err := h.PingFast(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got string
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got != "2022-03-04 05:06:07.891" {
		t.Errorf("unexpected timestamp %q", got)
	}
}

func TestPingSlow_ReturnsArrivalTime(t *testing.T) {
	calls := 0
	h := NewHandler(nil)
	h.slowDelay = 10 * time.Millisecond
	h.now = func() time.Time {
		calls++
		return time.Date(2022, 1, 1, 0, 0, calls, 0, time.UTC)
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/ping/slow", nil), rec)

	if err := h.PingSlow(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got string
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got != "2022-01-01 00:00:01.000" {
		t.Errorf("unexpected timestamp %q", got)
	}
}

func TestPingSlow_HonoursCancellation(t *testing.T) {
	h := NewHandler(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/ping/slow", nil).WithContext(ctx)
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	start := time.Now()
	err := h.PingSlow(c)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("handler did not return promptly")
	}
}

func TestMockStatus(t *testing.T) {
	report := &mock.Report{
		Loaded: []mock.RouteResult{{Route: "beds", Source: mock.KindArchive, Rows: 3}},
		Failed: []mock.RouteFailure{{Route: "census", Kind: mock.DatasetNotFound, Message: "no dataset"}},
	}
	h := NewHandler(fixedReports{report})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/mock/status", nil), rec)
	if err := h.MockStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body struct {
		Built  bool `json:"built"`
		OK     bool `json:"ok"`
		Loaded []struct {
			Route string `json:"route"`
			Rows  int    `json:"rows"`
		} `json:"loaded"`
		Failed []struct {
			Route string `json:"route"`
			Kind  string `json:"kind"`
		} `json:"failed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Built || body.OK {
		t.Errorf("expected built and not ok, got %+v", body)
	}
	if len(body.Loaded) != 1 || body.Loaded[0].Rows != 3 {
		t.Errorf("unexpected loaded %+v", body.Loaded)
	}
	if len(body.Failed) != 1 || body.Failed[0].Kind != string(mock.DatasetNotFound) {
		t.Errorf("unexpected failed %+v", body.Failed)
	}
}

func TestMockStatus_NotBuilt(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/mock/status", nil), rec)
	if err := NewHandler(nil).MockStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "{\"built\":false,\"ok\":false}\n" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}
