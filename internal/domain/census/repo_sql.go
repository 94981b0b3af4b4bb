package census

import (
	"context"
	"database/sql"

	"github.com/hylode/hyui/internal/platform/db"
)

type censusRepoSQL struct {
	conn     *sql.DB
	relation string
	dialect  db.Dialect
}

func NewCensusRepoPG(conn *sql.DB) CensusRepository {
	return &censusRepoSQL{conn: conn, relation: "hyui.live_census", dialect: db.Postgres}
}

func NewCensusRepoMock(conn *sql.DB) CensusRepository {
	return &censusRepoSQL{conn: conn, relation: "census", dialect: db.SQLite}
}

func (r *censusRepoSQL) ListByDepartments(ctx context.Context, departments []string) ([]*CensusRow, error) {
	if r.conn == nil {
		return nil, db.ErrNotConfigured
	}
	query := `SELECT ` + censusCols + ` FROM ` + r.relation
	var args []any
	if len(departments) > 0 {
		query += ` WHERE department IN (` + r.dialect.Params(1, len(departments)) + `)`
		args = db.Args(departments)
	}
	query += ` ORDER BY department, location_string`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*CensusRow{}
	for rows.Next() {
		row, err := scanCensusRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}
