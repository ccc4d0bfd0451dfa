package internal

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ardentq/qtask/pkg/queue"
)

// TaskSubmitter wraps queue.QueuedTasks for internal use: enqueueing
// capability without running any worker loop.
type TaskSubmitter struct {
	tasks *queue.QueuedTasks
}

// NewTaskSubmitter creates a submitter against pool with no worker
// processing attached.
func NewTaskSubmitter(pool *pgxpool.Pool) *TaskSubmitter {
	store := queue.NewStore(pool)
	return &TaskSubmitter{tasks: queue.NewQueuedTasks(store, nil, nil)}
}

// Enqueue adds a task to the queue.
func (ts *TaskSubmitter) Enqueue(ctx context.Context, name string, payload any, opts ...queue.SubmitOption) error {
	_, err := ts.tasks.AddTaskAsync(ctx, name, payload, opts...)
	return err
}

// EnqueueTx adds a task to the queue within a transaction.
func (ts *TaskSubmitter) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...queue.SubmitOption) error {
	_, err := ts.tasks.EnqueueTx(ctx, tx, name, payload, opts...)
	return err
}

// Tasks returns the underlying queue.QueuedTasks.
func (ts *TaskSubmitter) Tasks() *queue.QueuedTasks {
	return ts.tasks
}
