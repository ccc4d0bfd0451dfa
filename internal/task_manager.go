package internal

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ardentq/qtask/pkg/queue"
)

// TaskManager wraps a queue.Manager for internal use: background worker
// processing plus the submission API it owns.
type TaskManager struct {
	manager *queue.Manager
}

// NewTaskManager creates a new TaskManager with the given pool and options.
func NewTaskManager(pool *pgxpool.Pool, opts ...queue.Option) (*TaskManager, error) {
	m, err := queue.NewManager(pool, opts...)
	if err != nil {
		return nil, err
	}
	return &TaskManager{manager: m}, nil
}

// Start begins task processing and blocks until ctx is cancelled.
func (tm *TaskManager) Start(ctx context.Context) error {
	return tm.manager.Start(ctx)
}

// Stop gracefully shuts down task processing.
func (tm *TaskManager) Stop(ctx context.Context) error {
	return tm.manager.Stop(ctx)
}

// Enqueue adds a task to the queue.
func (tm *TaskManager) Enqueue(ctx context.Context, name string, payload any, opts ...queue.SubmitOption) error {
	_, err := tm.manager.Enqueue(ctx, name, payload, opts...)
	return err
}

// EnqueueTx adds a task to the queue within a transaction.
func (tm *TaskManager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...queue.SubmitOption) error {
	_, err := tm.manager.EnqueueTx(ctx, tx, name, payload, opts...)
	return err
}

// Manager returns the underlying queue.Manager.
func (tm *TaskManager) Manager() *queue.Manager {
	return tm.manager
}

// StartFunc returns a startup-hook-compatible closure for the task manager.
func (tm *TaskManager) StartFunc() func(context.Context) error {
	return tm.manager.StartFunc()
}

// Shutdown returns a shutdown-hook-compatible closure for the task manager.
func (tm *TaskManager) Shutdown() func(context.Context) error {
	return tm.manager.Shutdown()
}
