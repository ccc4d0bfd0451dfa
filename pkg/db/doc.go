// Package db provides PostgreSQL database utilities optimized for SaaS applications.
//
// This package wraps [github.com/jackc/pgx/v5/pgxpool] to provide connection pooling,
// health checks, and database migrations with sensible defaults for production workloads.
//
// # Features
//
//   - Connection pooling with configurable limits and timeouts
//   - Automatic retry during startup, with a wait that grows by one interval per failed attempt
//   - Database migrations using [github.com/pressly/goose/v3]
//   - A [Config] struct with environment variable tags for deployment convenience
//
// # Configuration
//
// [Config] declares these environment variables in its struct tags. [Open]
// itself takes a connection string and options and does not read the environment:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 5)
//	DATABASE_HEALTHCHECK_PERIOD - Health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_PATH    - Migrations directory (default: internal/db/migrations)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
// Basic connection setup with functional options:
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/ardentq/qtask/pkg/db"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		pool, err := db.Open(ctx, os.Getenv("DATABASE_CONN_URL"),
//			db.WithMaxConns(10),
//			db.WithMinConns(5),
//		)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer pool.Close()
//	}
//
// # Health Checks
//
// The package has no health check function of its own; the pool's Ping
// serves as one:
//
//	import (
//		"net/http"
//
//		"github.com/jackc/pgx/v5/pgxpool"
//	)
//
//	func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
//		return func(w http.ResponseWriter, r *http.Request) {
//			if err := pool.Ping(r.Context()); err != nil {
//				w.WriteHeader(http.StatusServiceUnavailable)
//				return
//			}
//			w.WriteHeader(http.StatusOK)
//		}
//	}
//
// # Transactions
//
// The [WithTx] helper provides automatic transaction management with rollback on error:
//
//	import (
//		"context"
//
//		"github.com/ardentq/qtask/pkg/db"
//	)
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		// Execute queries using tx
//		return tx.QueryRow(ctx, "SELECT 1").Scan(&result)
//	})
//	if err != nil {
//		// Transaction was rolled back automatically
//	}
//
// # Migrations
//
// Run database migrations using embedded SQL files:
//
//	import (
//		"context"
//		"embed"
//		"log/slog"
//
//		"github.com/ardentq/qtask/pkg/db"
//	)
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//
//   - [ErrFailedToParseDBConfig] - Invalid connection string format
//   - [ErrFailedToOpenDBConnection] - Connection failed after all retries
//   - [ErrHealthcheckFailed] - Database ping failed (declared; no function in this package returns it)
//   - [ErrSetDialect] - Migration dialect configuration error
//   - [ErrApplyMigrations] - Migration execution failed
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package db
