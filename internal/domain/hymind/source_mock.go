package hymind

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hylode/hyui/internal/mock"
	"github.com/hylode/hyui/internal/schema"
)

type mockSource struct {
	store            *sql.DB
	dischargeFixture string
	tapFixture       string
}

// NewMockSource answers discharge predictions from the mock store's
// icu_discharge table when it has been built, and from dischargeFixture
// otherwise. Tap forecasts always come from tapFixture.
func NewMockSource(store *sql.DB, dischargeFixture, tapFixture string) Source {
	return &mockSource{store: store, dischargeFixture: dischargeFixture, tapFixture: tapFixture}
}

func (s *mockSource) IcuDischarge(ctx context.Context, _ string) ([]IcuDischarge, error) {
	ok, err := s.tableLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fromFixture(s.dischargeFixture, (*IcuDischarge).Validate)
	}

	rows, err := s.store.QueryContext(ctx,
		`SELECT `+dischargeCols+` FROM `+schema.QuoteIdent(schema.RouteIcuDischarge)+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []IcuDischarge{}
	for rows.Next() {
		d, err := scanIcuDischarge(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (s *mockSource) TapEmergency(_ context.Context, _ TapRequest) ([]ElEmTap, error) {
	return fromFixture(s.tapFixture, (*ElEmTap).Validate)
}

func (s *mockSource) tableLoaded(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	var one int
	err := s.store.QueryRowContext(ctx,
		`SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`, schema.RouteIcuDischarge).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// fromFixture reads the records under "data" in a JSON fixture file.
func fromFixture[T any](path string, validate func(*T) error) ([]T, error) {
	if path == "" {
		return nil, errors.New("no fixture configured")
	}
	ds, err := mock.LoadJSONRecords(path, "data")
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(ds.Rows)
	if err != nil {
		return nil, err
	}
	items, err := decodeData(body, validate)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return items, nil
}
