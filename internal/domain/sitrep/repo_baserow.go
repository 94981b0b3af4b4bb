package sitrep

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hylode/hyui/internal/platform/baserow"
)

const bedsTable = "beds"

type bedRepoBaserow struct {
	client *baserow.Client
}

func NewBedRepoBaserow(client *baserow.Client) BedRepository {
	return &bedRepoBaserow{client: client}
}

func (r *bedRepoBaserow) BedsByDepartment(ctx context.Context, department string) ([]*BedRow, error) {
	rows, err := r.client.FilterEqual(ctx, bedsTable, "department", department)
	if err != nil {
		return nil, err
	}
	out := make([]*BedRow, 0, len(rows))
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		var b BedRow
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: bed row: %v", ErrInvalidPayload, err)
		}
		out = append(out, &b)
	}
	return out, nil
}

func (r *bedRepoBaserow) UpdateBed(ctx context.Context, tableID, rowID int, data map[string]any) error {
	return r.client.UpdateRow(ctx, tableID, rowID, data)
}
