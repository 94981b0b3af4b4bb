package sitrep

import (
	"context"
)

// LiveRepository serves the live critical care view of a ward.
type LiveRepository interface {
	LiveUI(ctx context.Context, ward string) ([]*SitrepRow, error)
}

// BedRepository serves the bed management table.
type BedRepository interface {
	BedsByDepartment(ctx context.Context, department string) ([]*BedRow, error)
	UpdateBed(ctx context.Context, tableID, rowID int, data map[string]any) error
}
