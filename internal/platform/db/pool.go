package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse warehouse url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}

	return pool, nil
}

// Warehouse is the connection to the clinical data warehouse. Repositories
// query through DB, a database/sql view over the same pool.
type Warehouse struct {
	Pool *pgxpool.Pool
	DB   *sql.DB
}

// OpenWarehouse connects to the warehouse and verifies it is reachable.
func OpenWarehouse(ctx context.Context, databaseURL string, maxConns, minConns int32) (*Warehouse, error) {
	pool, err := NewPool(ctx, databaseURL, maxConns, minConns)
	if err != nil {
		return nil, err
	}
	return &Warehouse{Pool: pool, DB: stdlib.OpenDBFromPool(pool)}, nil
}

func (w *Warehouse) Close() {
	if w == nil {
		return
	}
	w.DB.Close()
	w.Pool.Close()
}
