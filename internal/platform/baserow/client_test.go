package baserow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/platform/upstream"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	api := upstream.New(upstream.Options{
		Name:    "baserow",
		BaseURL: srv.URL,
		Headers: map[string]string{"Authorization": "Token secret"},
		Logger:  zerolog.Nop(),
	})
	return New(api, map[string]int{"beds": 11})
}

func TestClient_FilterEqual(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/database/fields/table/11/":
			w.Write([]byte(`[{"id":101,"name":"department","type":"text"},{"id":102,"name":"room","type":"text"}]`))
		case "/api/database/rows/table/11/":
			q := r.URL.Query()
			assert.Equal(t, "UCH T03 INTENSIVE CARE", q.Get("filter__field_101__equal"))
			assert.Equal(t, "200", q.Get("size"))
			assert.Equal(t, "true", q.Get("user_field_names"))
			w.Write([]byte(`{"count":1,"next":null,"results":[{"id":1,"department":"UCH T03 INTENSIVE CARE"}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	rows, err := c.FilterEqual(context.Background(), "beds", "department", "UCH T03 INTENSIVE CARE")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "UCH T03 INTENSIVE CARE", rows[0]["department"])
}

func TestClient_RowsFollowsPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`{"count":2,"next":"http://x/?page=2","results":[{"id":1}]}`))
			return
		}
		w.Write([]byte(`{"count":2,"next":null,"results":[{"id":2}]}`))
	})

	rows, err := c.Rows(context.Background(), "beds", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestClient_UnknownField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":101,"name":"room"}]`))
	})

	_, err := c.FilterEqual(context.Background(), "beds", "department", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestClient_UnknownTable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.Fields(context.Background(), "consults")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestClient_UpdateRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/database/rows/table/11/7/", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("user_field_names"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["closed"])
		w.Write([]byte(`{"id":7}`))
	})

	require.NoError(t, c.UpdateRow(context.Background(), 11, 7, map[string]any{"closed": true}))
}
