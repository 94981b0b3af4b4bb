package sitrep

import (
	"context"
	"database/sql"

	"github.com/hylode/hyui/internal/platform/db"
)

type liveRepoMock struct {
	conn *sql.DB
}

// NewLiveRepoMock reads the mock store's sitrep table. The table holds a
// single ward, so every ward is answered from it.
func NewLiveRepoMock(conn *sql.DB) LiveRepository {
	return &liveRepoMock{conn: conn}
}

func (r *liveRepoMock) LiveUI(ctx context.Context, _ string) ([]*SitrepRow, error) {
	if r.conn == nil {
		return nil, db.ErrNotConfigured
	}
	rows, err := r.conn.QueryContext(ctx, `SELECT `+sitrepCols+` FROM sitrep ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*SitrepRow{}
	for rows.Next() {
		row, err := scanSitrepRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}
