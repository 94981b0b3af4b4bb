package db

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats represents warehouse connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

// StoreStatus reports the reachability of one backing database.
type StoreStatus struct {
	Status string     `json:"status"`
	Error  string     `json:"error,omitempty"`
	Pool   *PoolStats `json:"pool,omitempty"`
}

const (
	statusHealthy       = "healthy"
	statusUnhealthy     = "unhealthy"
	statusNotConfigured = "not_configured"
)

// HealthHandler reports on the warehouse pool and the mock store. Either may
// be nil when the process runs without it; only a configured store that fails
// to answer makes the check unhealthy.
func HealthHandler(pool *pgxpool.Pool, store *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		warehouse := StoreStatus{Status: statusNotConfigured}
		if pool != nil {
			warehouse.Pool = GetPoolStats(pool)
			warehouse.Status = statusHealthy
			if err := pool.Ping(ctx); err != nil {
				warehouse.Pool.Healthy = false
				warehouse.Status = statusUnhealthy
				warehouse.Error = err.Error()
			}
		}

		mock := StoreStatus{Status: statusNotConfigured}
		if store != nil {
			mock.Status = statusHealthy
			if err := store.PingContext(ctx); err != nil {
				mock.Status = statusUnhealthy
				mock.Error = err.Error()
			}
		}

		code := http.StatusOK
		status := statusHealthy
		if warehouse.Status == statusUnhealthy || mock.Status == statusUnhealthy {
			code = http.StatusServiceUnavailable
			status = statusUnhealthy
		}
		return c.JSON(code, map[string]interface{}{
			"status":    status,
			"warehouse": warehouse,
			"mock":      mock,
		})
	}
}
