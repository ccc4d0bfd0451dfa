package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Shutdown returns a function that gracefully closes the database connection pool.
// Use with qtask.ShutdownHook().
//
// Example:
//
//	err := app.Run(":8080",
//	    qtask.ShutdownHook(db.Shutdown(pool)),
//	)
func Shutdown(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		pool.Close()
		return nil
	}
}
