package electives

import (
	"context"
	"database/sql"
	"time"

	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/schema"
)

type electiveRepoSQL struct {
	conn     *sql.DB
	relation string
	dialect  db.Dialect
}

// NewElectiveRepoPG reads booked cases from the warehouse's surgical mart.
func NewElectiveRepoPG(conn *sql.DB) ElectiveRepository {
	return &electiveRepoSQL{conn: conn, relation: "hyui.elective_cases", dialect: db.Postgres}
}

func NewElectiveRepoMock(conn *sql.DB) ElectiveRepository {
	return &electiveRepoSQL{conn: conn, relation: "electives", dialect: db.SQLite}
}

// Dates are bound as YYYY-MM-DD text; the mock table stores them that way
// and the warehouse casts them.
func (r *electiveRepoSQL) Between(ctx context.Context, from, to time.Time) ([]*ElectiveCase, error) {
	if r.conn == nil {
		return nil, db.ErrNotConfigured
	}
	query := `SELECT ` + electiveCols + ` FROM ` + r.relation + ` WHERE surgery_date >= ? AND surgery_date <= ?
		ORDER BY surgery_date, theatre, surgical_case_key`
	if r.dialect == db.Postgres {
		query = `SELECT ` + electiveCols + ` FROM ` + r.relation + ` WHERE surgery_date >= $1::date AND surgery_date <= $2::date
		ORDER BY surgery_date, theatre, surgical_case_key`
	}
	rows, err := r.conn.QueryContext(ctx, query, from.Format(schema.DateLayout), to.Format(schema.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*ElectiveCase{}
	for rows.Next() {
		e, err := scanElectiveCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *electiveRepoSQL) LatestDate(ctx context.Context) (time.Time, error) {
	if r.conn == nil {
		return time.Time{}, db.ErrNotConfigured
	}
	var latest db.Timestamp
	if err := r.conn.QueryRowContext(ctx, `SELECT MAX(surgery_date) FROM `+r.relation).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	return latest.Time, nil
}
