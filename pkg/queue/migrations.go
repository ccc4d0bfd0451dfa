package queue

import "embed"

// Migrations holds the queue's schema: queued_tasks, queued_task_workers,
// and queued_task_logs. Hosts apply them alongside their own schema via
// db.WithMigrations:
//
//	pool := db.MustOpen(ctx, dsn, db.WithMigrations(queue.Migrations))
//
// The pg_notify trigger is not part of the migrations; Manager.Start
// installs it idempotently because the channel name is runtime config.
//
//go:embed migrations/*.sql
var Migrations embed.FS
