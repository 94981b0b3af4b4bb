// Package baserow reads and updates the bed management tables kept in
// Baserow.
package baserow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hylode/hyui/internal/platform/upstream"
)

// PageSize is the largest page Baserow serves.
const PageSize = 200

// maxPages bounds a listing that keeps returning a next page.
const maxPages = 50

var (
	ErrUnknownTable = errors.New("unknown baserow table")
	ErrUnknownField = errors.New("unknown baserow field")
)

// Field is a column of a Baserow table.
type Field struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Primary bool   `json:"primary"`
}

type rowPage struct {
	Count   int              `json:"count"`
	Next    *string          `json:"next"`
	Results []map[string]any `json:"results"`
}

// Client talks to the Baserow REST API. Table names are resolved to ids
// through the configured table map.
type Client struct {
	api    *upstream.Client
	tables map[string]int
}

// New wraps api, which must already carry the "Authorization: Token ..."
// header.
func New(api *upstream.Client, tables map[string]int) *Client {
	return &Client{api: api, tables: tables}
}

func (c *Client) Configured() bool {
	return c != nil && c.api.Configured()
}

// TableID resolves a configured table name.
func (c *Client) TableID(table string) (int, error) {
	id, ok := c.tables[table]
	if !ok || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return id, nil
}

// Fields maps each field name of table to its id.
func (c *Client) Fields(ctx context.Context, table string) (map[string]int, error) {
	id, err := c.TableID(table)
	if err != nil {
		return nil, err
	}
	var fields []Field
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/api/database/fields/table/%d/", id), nil, &fields); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(fields))
	for _, f := range fields {
		out[f.Name] = f.ID
	}
	return out, nil
}

// FieldID returns the id of the named field.
func (c *Client) FieldID(ctx context.Context, table, name string) (int, error) {
	fields, err := c.Fields(ctx, table)
	if err != nil {
		return 0, err
	}
	id, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, table, name)
	}
	return id, nil
}

// Rows lists rows of table with user field names, following next pages.
func (c *Client) Rows(ctx context.Context, table string, params url.Values) ([]map[string]any, error) {
	id, err := c.TableID(table)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("size", strconv.Itoa(PageSize))
	q.Set("user_field_names", "true")

	path := fmt.Sprintf("/api/database/rows/table/%d/", id)
	var rows []map[string]any
	for page := 1; page <= maxPages; page++ {
		q.Set("page", strconv.Itoa(page))
		var p rowPage
		if err := c.api.GetJSON(ctx, path, q, &p); err != nil {
			return nil, err
		}
		rows = append(rows, p.Results...)
		if p.Next == nil || len(p.Results) == 0 {
			break
		}
	}
	return rows, nil
}

// FilterEqual lists the rows of table whose field equals value.
func (c *Client) FilterEqual(ctx context.Context, table, field, value string) ([]map[string]any, error) {
	fieldID, err := c.FieldID(ctx, table, field)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set(fmt.Sprintf("filter__field_%d__equal", fieldID), value)
	return c.Rows(ctx, table, params)
}

// UpdateRow patches one row, addressing fields by name.
func (c *Client) UpdateRow(ctx context.Context, tableID, rowID int, data map[string]any) error {
	path := fmt.Sprintf("/api/database/rows/table/%d/%d/", tableID, rowID)
	q := url.Values{"user_field_names": {"true"}}
	_, err := c.api.Do(ctx, http.MethodPatch, path, q, data, nil)
	return err
}
