package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StateUpdate is a transactional write to a task's state plus its
// associated date field and, for failure transitions, the exception
// snapshot. It models "update_state(id, fields)".
type StateUpdate struct {
	State         State
	ExceptionName string
	ExceptionMsg  string
	ExceptionInfo string
	ExecutionTime float64
}

// Store is the durable task store contract. pgStore is the
// production implementation; tests substitute an in-memory fake so
// worker/pool/manager logic can be verified without a live Postgres.
type Store interface {
	Create(ctx context.Context, d Descriptor) (*Task, error)
	// CreateTx inserts within an already-open transaction, so a task
	// creation can commit atomically alongside the business writes that
	// triggered it.
	CreateTx(ctx context.Context, tx pgx.Tx, d Descriptor) (*Task, error)
	ByID(ctx context.Context, id int64) (*Task, error)
	PendingCount(ctx context.Context) (int, error)
	EnqueuedOrdered(ctx context.Context) ([]*Task, error)
	UpdateState(ctx context.Context, id int64, u StateUpdate) error
	// UpdateContext overwrites only the task's persisted context column,
	// used by the ambient task-context auto-commit path.
	UpdateContext(ctx context.Context, id int64, raw json.RawMessage) error
	// CountByNameInStates returns how many rows with the given task name
	// are currently in one of states. Backs cron duplicate suppression.
	CountByNameInStates(ctx context.Context, name string, states []State) (int, error)
	// Delete removes a row outright (cancel-before-run, or cascade from a
	// deleted parent via ON DELETE CASCADE at the schema level).
	Delete(ctx context.Context, id int64) error
	// Clone duplicates a terminal task's descriptor into a fresh
	// enqueued row, used by RetryTask on done/failed/cancelled sources.
	Clone(ctx context.Context, id int64, nameSuffix string) (*Task, error)
	// Children returns a task's direct children regardless of state, used
	// by cascadeFail to propagate a parent's terminal outcome.
	Children(ctx context.Context, parentID int64) ([]*Task, error)
}

// pgStore is the PostgreSQL-backed Store implementation.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a pgx-backed Store against pool. Callers that only need
// submission (no worker processing) can use this directly.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, letting create
// run unmodified whether or not the caller supplied a transaction.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *pgStore) Create(ctx context.Context, d Descriptor) (*Task, error) {
	return s.create(ctx, s.pool, d)
}

func (s *pgStore) CreateTx(ctx context.Context, tx pgx.Tx, d Descriptor) (*Task, error) {
	return s.create(ctx, tx, d)
}

func (s *pgStore) create(ctx context.Context, q pgxQuerier, d Descriptor) (*Task, error) {
	name := d.Name
	if name == "" {
		name = d.TaskName
	}
	args := d.Args
	if len(args) == 0 {
		args = json.RawMessage(`[]`)
	}
	kwargs := d.Kwargs
	if len(kwargs) == 0 {
		kwargs = json.RawMessage(`{}`)
	}
	var taskCtx json.RawMessage
	if d.Context != nil {
		b, err := json.Marshal(d.Context)
		if err != nil {
			return nil, errors.Join(ErrValidation, err)
		}
		taskCtx = b
	} else {
		taskCtx = json.RawMessage(`{}`)
	}

	var parentID *int64
	switch {
	case d.Parent != nil:
		id, err := d.Parent.ID(ctx)
		if err != nil {
			return nil, errors.Join(ErrValidation, err)
		}
		parentID = &id
	case d.ParentID != nil:
		parentID = d.ParentID
	}

	const query = `
INSERT INTO queued_tasks
	(name, module_name, function_name, args, kwargs, context, parent_task_id, auto_remove,
	 state, date_enqueued, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now(), now())
RETURNING id, name, module_name, function_name, state, args, kwargs, context,
	parent_task_id, auto_remove, exception_name, exception_message, exception_info,
	execution_time, date_enqueued, date_started, date_stopped, date_ended, date_done,
	date_cancelled, date_failed, created_at, updated_at`

	row := q.QueryRow(ctx, query, name, "", d.TaskName, args, kwargs, taskCtx, parentID, d.AutoRemove, StateEnqueued)
	return scanTask(row)
}

func (s *pgStore) ByID(ctx context.Context, id int64) (*Task, error) {
	const q = `
SELECT id, name, module_name, function_name, state, args, kwargs, context,
	parent_task_id, auto_remove, exception_name, exception_message, exception_info,
	execution_time, date_enqueued, date_started, date_stopped, date_ended, date_done,
	date_cancelled, date_failed, created_at, updated_at
FROM queued_tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *pgStore) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM queued_tasks WHERE state = $1`, StateEnqueued).Scan(&n)
	return n, err
}

func (s *pgStore) EnqueuedOrdered(ctx context.Context) ([]*Task, error) {
	const q = `
SELECT id, name, module_name, function_name, state, args, kwargs, context,
	parent_task_id, auto_remove, exception_name, exception_message, exception_info,
	execution_time, date_enqueued, date_started, date_stopped, date_ended, date_done,
	date_cancelled, date_failed, created_at, updated_at
FROM queued_tasks WHERE state = $1 ORDER BY date_enqueued ASC`

	rows, err := s.pool.Query(ctx, q, StateEnqueued)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *pgStore) UpdateState(ctx context.Context, id int64, u StateUpdate) error {
	dateCol, err := dateColumnFor(u.State)
	if err != nil {
		return err
	}

	endedClause := ""
	if u.State.Terminal() || u.State == StateStopped {
		endedClause = ", date_ended = now()"
	}
	resetClause := ""
	if u.State == StateDoing {
		resetClause = `, date_stopped = NULL, date_done = NULL, date_cancelled = NULL,
			date_failed = NULL, date_ended = NULL, exception_name = NULL,
			exception_message = NULL, exception_info = NULL`
	}
	args := []any{u.ExceptionName, u.ExceptionMsg, u.ExceptionInfo, u.ExecutionTime, id, string(u.State)}

	// dateCol comes only from dateColumnFor's fixed whitelist above, never
	// from caller input, so it is safe to interpolate into the statement.
	dateSet := dateCol + ` = now(),`
	if dateCol == "updated_at" {
		dateSet = "" // already set below; Postgres rejects a second assignment
	}
	q := `UPDATE queued_tasks SET state = $6, ` + dateSet + `
		exception_name = $1, exception_message = $2, exception_info = $3,
		execution_time = $4, updated_at = now()` + endedClause + resetClause + `
		WHERE id = $5`

	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return classifyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) UpdateContext(ctx context.Context, id int64, raw json.RawMessage) error {
	tag, err := s.pool.Exec(ctx, `UPDATE queued_tasks SET context = $1, updated_at = now() WHERE id = $2`, raw, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) CountByNameInStates(ctx context.Context, name string, states []State) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM queued_tasks WHERE name = $1 AND state = ANY($2)`,
		name, statesToStrings(states),
	).Scan(&n)
	return n, err
}

func (s *pgStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM queued_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) Clone(ctx context.Context, id int64, nameSuffix string) (*Task, error) {
	src, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO queued_tasks
	(name, module_name, function_name, args, kwargs, context, parent_task_id, auto_remove,
	 state, date_enqueued, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now(), now())
RETURNING id, name, module_name, function_name, state, args, kwargs, context,
	parent_task_id, auto_remove, exception_name, exception_message, exception_info,
	execution_time, date_enqueued, date_started, date_stopped, date_ended, date_done,
	date_cancelled, date_failed, created_at, updated_at`

	row := s.pool.QueryRow(ctx, q,
		src.Name+nameSuffix, src.ModuleName, src.FunctionName, src.Args, src.Kwargs, src.Context,
		src.ParentTaskID, src.AutoRemove, StateEnqueued,
	)
	return scanTask(row)
}

func (s *pgStore) Children(ctx context.Context, parentID int64) ([]*Task, error) {
	const q = `
SELECT id, name, module_name, function_name, state, args, kwargs, context,
	parent_task_id, auto_remove, exception_name, exception_message, exception_info,
	execution_time, date_enqueued, date_started, date_stopped, date_ended, date_done,
	date_cancelled, date_failed, created_at, updated_at
FROM queued_tasks WHERE parent_task_id = $1`

	rows, err := s.pool.Query(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func dateColumnFor(s State) (string, error) {
	switch s {
	case StateEnqueued:
		return "date_enqueued", nil
	case StateDoing:
		return "date_started", nil
	case StateStopped:
		return "date_stopped", nil
	case StateDone:
		return "date_done", nil
	case StateFailed:
		return "date_failed", nil
	case StateCancelled:
		return "date_cancelled", nil
	case StateWaiting:
		return "updated_at", nil
	default:
		return "", errors.Join(ErrValidation, errors.New("queue: no date column for state "+string(s)))
	}
}

func statesToStrings(states []State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (*Task, error) {
	t := &Task{}
	err := row.Scan(
		&t.ID, &t.Name, &t.ModuleName, &t.FunctionName, &t.State, &t.Args, &t.Kwargs, &t.Context,
		&t.ParentTaskID, &t.AutoRemove, &t.ExceptionName, &t.ExceptionMsg, &t.ExceptionInfo,
		&t.ExecutionTime, &t.DateEnqueued, &t.DateStarted, &t.DateStopped, &t.DateEnded, &t.DateDone,
		&t.DateCancelled, &t.DateFailed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// classifyPgError wraps serialization-conflict (40001) and deadlock
// (40P01) errors as ErrTransient so callers can retry; everything else is
// returned unchanged.
func classifyPgError(err error) error {
	if isTransientPgError(err) {
		return errors.Join(ErrTransient, err)
	}
	return err
}

func isTransientPgError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}
	// Fallback substring match for drivers/wrappers that don't surface a
	// typed PgError.
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") || strings.Contains(msg, "could not serialize access")
}

// backoff computes the terminal-write retry delay for attempt (0-based):
// 50ms * 2^attempt, plus jitter.
func backoff(attempt int, jitter time.Duration) time.Duration {
	base := 50 * time.Millisecond
	d := base
	for range attempt {
		d *= 2
	}
	return d + jitter
}
