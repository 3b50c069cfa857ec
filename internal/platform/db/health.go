package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 3 * time.Second

// Health states reported by /health/db.
const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// PoolStats is the JSON view of *pgxpool.Stat.
type PoolStats struct {
	TotalConns    int32  `json:"total_conns"`
	IdleConns     int32  `json:"idle_conns"`
	AcquiredConns int32  `json:"acquired_conns"`
	MaxConns      int32  `json:"max_conns"`
	AcquireCount  int64  `json:"acquire_count"`
	AcquireWait   string `json:"acquire_wait"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// StatSource is implemented by *pgxpool.Pool.
type StatSource interface {
	Pinger
	Stat() *pgxpool.Stat
}

// MigrationSource is implemented by *Migrator.
type MigrationSource interface {
	Status(ctx context.Context) ([]MigrationStatus, error)
}

// HealthReport is the /health/db body. The database is degraded, not down,
// when it answers but the schema is behind the binary.
type HealthReport struct {
	Status            string     `json:"status"`
	Error             string     `json:"error,omitempty"`
	Pool              *PoolStats `json:"pool,omitempty"`
	PendingMigrations int        `json:"pending_migrations"`
	MigrationError    string     `json:"migration_error,omitempty"`
}

func GetPoolStats(pool StatSource) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
		AcquireCount:  stat.AcquireCount(),
		AcquireWait:   stat.AcquireDuration().String(),
	}
}

// Check pings the database and, when migrations is non-nil, counts pending
// migrations. Pool statistics are included when db is a StatSource.
func Check(ctx context.Context, db Pinger, migrations MigrationSource) *HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	report := &HealthReport{Status: StatusOK}
	if s, ok := db.(StatSource); ok {
		report.Pool = GetPoolStats(s)
	}
	if err := db.Ping(ctx); err != nil {
		report.Status = StatusUnhealthy
		report.Error = err.Error()
		return report
	}
	if migrations == nil {
		return report
	}

	statuses, err := migrations.Status(ctx)
	switch {
	case err != nil:
		report.Status = StatusDegraded
		report.MigrationError = err.Error()
	case CountPending(statuses) > 0:
		report.Status = StatusDegraded
		report.PendingMigrations = CountPending(statuses)
	}
	return report
}

// HealthHandler serves /health/db: 503 when the database is unreachable,
// 200 otherwise.
func HealthHandler(db Pinger, migrations MigrationSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		report := Check(c.Request().Context(), db, migrations)
		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, report)
	}
}
