package ros

import (
	"context"
	"database/sql"

	"github.com/hylode/hyui/internal/platform/db"
)

type rosRepoSQL struct {
	conn     *sql.DB
	relation string
	dialect  db.Dialect
}

func NewRosRepoPG(conn *sql.DB) RosRepository {
	return &rosRepoSQL{conn: conn, relation: "hyui.live_ros", dialect: db.Postgres}
}

func NewRosRepoMock(conn *sql.DB) RosRepository {
	return &rosRepoSQL{conn: conn, relation: "ros", dialect: db.SQLite}
}

func (r *rosRepoSQL) ListByDepartments(ctx context.Context, departments []string) ([]*RosRow, error) {
	if r.conn == nil {
		return nil, db.ErrNotConfigured
	}
	query := `SELECT ` + rosCols + ` FROM ` + r.relation
	var args []any
	if len(departments) > 0 {
		query += ` WHERE department IN (` + r.dialect.Params(1, len(departments)) + `)`
		args = db.Args(departments)
	}
	query += ` ORDER BY department, bed_name`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*RosRow{}
	for rows.Next() {
		row, err := scanRosRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}
