package beds

import (
	"context"
	"database/sql"

	"github.com/hylode/hyui/internal/platform/db"
)

// bedRepoSQL serves both the warehouse reporting view and the mock table;
// the two share a column layout and differ in relation and dialect.
type bedRepoSQL struct {
	conn     *sql.DB
	relation string
	dialect  db.Dialect
}

// NewBedRepoPG reads the warehouse's live bed view.
func NewBedRepoPG(conn *sql.DB) BedRepository {
	return &bedRepoSQL{conn: conn, relation: "hyui.live_beds", dialect: db.Postgres}
}

// NewBedRepoMock reads the mock store's beds table.
func NewBedRepoMock(conn *sql.DB) BedRepository {
	return &bedRepoSQL{conn: conn, relation: "beds", dialect: db.SQLite}
}

func (r *bedRepoSQL) List(ctx context.Context, f Filter) ([]*Bed, error) {
	if r.conn == nil {
		return nil, db.ErrNotConfigured
	}
	where, args := f.where(r.dialect)
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+bedCols+` FROM `+r.relation+where+` ORDER BY department, unit_order, location_string`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Bed{}
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
