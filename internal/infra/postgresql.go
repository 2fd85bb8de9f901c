package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib" // registers pgx database/sql driver
	"github.com/umalmyha/customers-crud/internal/config"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

const pgxDriverName = "pgx"

// Postgresql opens instrumented connection pool and verifies it with ping
func Postgresql(ctx context.Context, cfg config.PostgresCfg) (*sql.DB, error) {
	driverName, err := otelsql.Register(pgxDriverName,
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		otelsql.WithDatabaseName(cfg.Database),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register instrumented driver - %w", err)
	}

	db, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to establish connection to db - %w", err)
	}
	db.SetMaxOpenConns(cfg.PoolMaxConn)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("didn't get response from database after sending ping request - %w", err)
	}

	if err := otelsql.RecordStats(db,
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		otelsql.WithDatabaseName(cfg.Database),
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to record db stats - %w", err)
	}

	return db, nil
}
