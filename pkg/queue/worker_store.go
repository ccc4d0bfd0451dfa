package queue

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// aliveWindow is the heartbeat staleness bound used by WorkerRecord.Alive
// and the fleet view.
const aliveWindow = 2 * time.Minute

// WorkerRecord is a per-server registration row in queued_task_workers.
type WorkerRecord struct {
	ID            int64
	ServerName    string
	MaxWorkers    int
	ActiveWorkers int
	IdleWorkers   int
	IsRunning     bool
	LastHeartbeat time.Time
	StartedAt     time.Time
	Version       string
}

// Alive reports whether the record represents a live server: running and
// heartbeating within the last two minutes.
func (w *WorkerRecord) Alive() bool {
	return w.IsRunning && time.Since(w.LastHeartbeat) <= aliveWindow
}

// WorkerStore is the durable worker-registry contract: server identity on
// startup, periodic heartbeats, and the rows backing the fleet view.
type WorkerStore interface {
	Upsert(ctx context.Context, serverName string, maxWorkers int, version string) (*WorkerRecord, error)
	Heartbeat(ctx context.Context, serverName string, active, idle int) error
	MarkStopped(ctx context.Context, serverName string) error
	Fleet(ctx context.Context) ([]*WorkerRecord, error)
}

type pgWorkerStore struct {
	pool *pgxpool.Pool
}

// NewWorkerStore creates a pgx-backed WorkerStore.
func NewWorkerStore(pool *pgxpool.Pool) WorkerStore {
	return &pgWorkerStore{pool: pool}
}

func (s *pgWorkerStore) Upsert(ctx context.Context, serverName string, maxWorkers int, version string) (*WorkerRecord, error) {
	const q = `
INSERT INTO queued_task_workers
	(server_name, max_workers, active_workers, idle_workers, is_running, last_heartbeat, started_at, version)
VALUES ($1, $2, 0, 0, true, now(), now(), $3)
ON CONFLICT (server_name) DO UPDATE SET
	max_workers = EXCLUDED.max_workers,
	is_running = true,
	last_heartbeat = now(),
	started_at = now(),
	version = EXCLUDED.version
RETURNING id, server_name, max_workers, active_workers, idle_workers, is_running,
	last_heartbeat, started_at, version`

	w := &WorkerRecord{}
	err := s.pool.QueryRow(ctx, q, serverName, maxWorkers, version).Scan(
		&w.ID, &w.ServerName, &w.MaxWorkers, &w.ActiveWorkers, &w.IdleWorkers,
		&w.IsRunning, &w.LastHeartbeat, &w.StartedAt, &w.Version,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *pgWorkerStore) Heartbeat(ctx context.Context, serverName string, active, idle int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE queued_task_workers SET active_workers = $2, idle_workers = $3, last_heartbeat = now()
		 WHERE server_name = $1`,
		serverName, active, idle,
	)
	return err
}

func (s *pgWorkerStore) MarkStopped(ctx context.Context, serverName string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE queued_task_workers SET is_running = false, active_workers = 0, idle_workers = 0,
		 last_heartbeat = now() WHERE server_name = $1`,
		serverName,
	)
	return err
}

func (s *pgWorkerStore) Fleet(ctx context.Context) ([]*WorkerRecord, error) {
	const q = `
SELECT id, server_name, max_workers, active_workers, idle_workers, is_running, last_heartbeat, started_at, version
FROM queued_task_workers
WHERE is_running = true AND last_heartbeat >= now() - interval '2 minutes'`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*WorkerRecord
	for rows.Next() {
		w := &WorkerRecord{}
		if err := rows.Scan(
			&w.ID, &w.ServerName, &w.MaxWorkers, &w.ActiveWorkers, &w.IdleWorkers,
			&w.IsRunning, &w.LastHeartbeat, &w.StartedAt, &w.Version,
		); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
