package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Task is a durable unit of work persisted in the task store. It mirrors
// the queued_tasks table one column at a time.
type Task struct {
	ID             int64
	Name           string
	ModuleName     string
	FunctionName   string
	State          State
	Args           json.RawMessage // JSON array, default []
	Kwargs         json.RawMessage // JSON object, default {}
	Context        json.RawMessage // JSON object, default {}
	ParentTaskID   *int64
	ExceptionName  string
	ExceptionMsg   string
	ExceptionInfo  string
	ExecutionTime  float64
	AutoRemove     bool
	DateEnqueued   *time.Time
	DateStarted    *time.Time
	DateStopped    *time.Time
	DateEnded      *time.Time
	DateDone       *time.Time
	DateCancelled  *time.Time
	DateFailed     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsReady reports whether t is eligible for immediate assignment: it is
// enqueued and has no parent. Callers still must recheck a non-nil parent
// against the store before promoting t to doing.
func (t *Task) IsReady() bool {
	return t.State == StateEnqueued && t.ParentTaskID == nil
}

// Descriptor is the caller-facing request used to create a task, accepted
// by QueuedTasks.CreateTask and (indirectly) AddTask/AddTaskAsync.
type Descriptor struct {
	// Name overrides the default name, which is TaskName.
	Name string
	// TaskName is the name a TaskFunc was registered under (see Register).
	TaskName string
	// Args is JSON-marshaled positional argument data. Most callers use
	// AddTask, which builds this from a single payload value instead.
	Args json.RawMessage
	// Kwargs is JSON-marshaled named argument data.
	Kwargs json.RawMessage
	// Context seeds the task's persisted execution context.
	Context map[string]any
	// Parent, if set, is resolved to a parent task id before insert.
	Parent *TaskRef
	// ParentID is an already-resolved parent id; mutually exclusive with
	// Parent (Parent takes precedence when both are set).
	ParentID *int64
	// AutoRemove deletes the row on successful completion.
	AutoRemove bool
}

// TaskRef is an in-process handle to a task whose row may not exist yet.
// AddTask returns one immediately; the creation-queue consumer resolves it
// to a concrete id once the row is inserted. Reading ID before resolution
// blocks until resolved or ctx is done.
type TaskRef struct {
	resolved chan struct{}
	id       int64
	err      error
	tasks    *QueuedTasks
}

func newTaskRef(tasks *QueuedTasks) *TaskRef {
	return &TaskRef{resolved: make(chan struct{}), tasks: tasks}
}

func (r *TaskRef) resolve(id int64, err error) {
	r.id, r.err = id, err
	close(r.resolved)
}

// ID blocks until the referenced task has been inserted and returns its
// id, or returns ctx.Err() / the insert error, whichever comes first.
func (r *TaskRef) ID(ctx context.Context) (int64, error) {
	select {
	case <-r.resolved:
		return r.id, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Cancel cancels the referenced task: an enqueued task with no body
// running is deleted outright; a doing task is marked cancelled.
func (r *TaskRef) Cancel(ctx context.Context) error {
	id, err := r.ID(ctx)
	if err != nil {
		return err
	}
	return r.tasks.cancel(ctx, id)
}

// Stop marks a doing task as stopped (resumable via RetryTask).
func (r *TaskRef) Stop(ctx context.Context) error {
	id, err := r.ID(ctx)
	if err != nil {
		return err
	}
	return r.tasks.stop(ctx, id)
}

// MarkAsWaiting explicitly moves the referenced task to the waiting state:
// the selection algorithm excludes it from the ready set until it is moved
// back to enqueued.
func (r *TaskRef) MarkAsWaiting(ctx context.Context) error {
	id, err := r.ID(ctx)
	if err != nil {
		return err
	}
	return r.tasks.markAsWaiting(ctx, id)
}
