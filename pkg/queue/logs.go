package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskLogEntry is one append-only log line attached to a task, distinct
// from the exception snapshot on the task row itself: a task can log many
// informational lines before ending in any state. LoggerName and Info are
// optional and may be empty.
type TaskLogEntry struct {
	ID         int64
	TaskID     int64
	LogType    string
	LoggerName string
	Message    string
	Info       string
	LoggedAt   time.Time
}

// LogStore appends and reads a task's log lines.
type LogStore interface {
	Append(ctx context.Context, taskID int64, logType, loggerName, message, info string) error
	ByTask(ctx context.Context, taskID int64) ([]TaskLogEntry, error)
}

type pgLogStore struct {
	pool *pgxpool.Pool
}

// NewLogStore creates a pgx-backed LogStore.
func NewLogStore(pool *pgxpool.Pool) LogStore {
	return &pgLogStore{pool: pool}
}

func (s *pgLogStore) Append(ctx context.Context, taskID int64, logType, loggerName, message, info string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO queued_task_logs (task_id, log_type, logger_name, message, info, logged_at)
		 VALUES ($1, $2, $3, $4, $5, now())`,
		taskID, logType, loggerName, message, info,
	)
	return err
}

func (s *pgLogStore) ByTask(ctx context.Context, taskID int64) ([]TaskLogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, task_id, log_type, logger_name, message, info, logged_at
		 FROM queued_task_logs WHERE task_id = $1 ORDER BY logged_at ASC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskLogEntry
	for rows.Next() {
		var e TaskLogEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.LogType, &e.LoggerName, &e.Message, &e.Info, &e.LoggedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Log appends a line to the current task's log from inside a task body. It
// is a no-op outside ambient task scope.
// The append happens in the background; failures are reported through the
// scope's logger, never by returning an error to the caller, so a logging
// backend outage never fails a task body.
func Log(ctx context.Context, logType, loggerName, format string, args ...any) {
	s, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	task := s.task
	store := s.logStore
	logger := s.logger
	s.mu.Unlock()

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	logger.Info("queue: task log", "task_id", task.ID, "log_type", logType, "logger", loggerName, "message", message)

	if store == nil || task == nil {
		return
	}
	go func() {
		if err := store.Append(context.Background(), task.ID, logType, loggerName, message, ""); err != nil {
			logger.Error("queue: persist task log failed", "task_id", task.ID, "error", err)
		}
	}()
}
