package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
)

// creationRequest is one pending AddTask call waiting for the consumer
// goroutine to insert its row.
type creationRequest struct {
	desc Descriptor
	ref  *TaskRef
}

// QueuedTasks is the caller-facing submission API.
type QueuedTasks struct {
	store  Store
	hooks  *HookRegistry
	logger *slog.Logger

	mu      sync.Mutex
	queue   []creationRequest
	running bool
}

// NewQueuedTasks creates a submission API writing through store. hooks may
// be nil (an empty registry is used).
func NewQueuedTasks(store Store, hooks *HookRegistry, logger *slog.Logger) *QueuedTasks {
	if hooks == nil {
		hooks = NewHookRegistry(logger)
	}
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &QueuedTasks{store: store, hooks: hooks, logger: logger}
}

// AddTask is the non-blocking submission entry point. It appends the
// request to the in-process creation queue and returns a TaskRef whose ID
// resolves once the background consumer inserts the row. WithParent lets
// the caller chain an unresolved handle:
//
//	parent := tasks.AddTask(ctx, "a", nil)
//	child := tasks.AddTask(ctx, "b", nil, queue.WithParent(parent))
func (q *QueuedTasks) AddTask(ctx context.Context, taskName string, payload any, opts ...SubmitOption) *TaskRef {
	ref := newTaskRef(q)

	desc, err := buildDescriptor(taskName, payload, opts...)
	if err != nil {
		ref.resolve(0, err)
		return ref
	}

	q.mu.Lock()
	q.queue = append(q.queue, creationRequest{desc: desc, ref: ref})
	started := q.running
	q.running = true
	q.mu.Unlock()

	if !started {
		go q.drain(context.WithoutCancel(ctx))
	}
	return ref
}

// AddTaskAsync synchronously creates the task row and returns it, blocking
// until the insert (and its parent, if unresolved) completes.
func (q *QueuedTasks) AddTaskAsync(ctx context.Context, taskName string, payload any, opts ...SubmitOption) (*Task, error) {
	ref := q.AddTask(ctx, taskName, payload, opts...)
	id, err := ref.ID(ctx)
	if err != nil {
		return nil, err
	}
	return q.store.ByID(ctx, id)
}

// CreateTask is the typed low-level insert, bypassing the deferred queue.
// A Parent reference in d is resolved by the store before the insert,
// blocking until that reference resolves.
func (q *QueuedTasks) CreateTask(ctx context.Context, d Descriptor) (*Task, error) {
	draft := &Task{Name: d.Name, FunctionName: d.TaskName, ParentTaskID: d.ParentID, AutoRemove: d.AutoRemove}
	q.hooks.runPreCreate(ctx, draft)

	t, err := q.store.Create(ctx, d)
	if err != nil {
		return nil, err
	}

	q.hooks.runPostCreate(ctx, t)
	return t, nil
}

// EnqueueTx creates a task synchronously within tx, so its visibility
// commits atomically with whatever business write triggered it. Unlike
// AddTask, a parent must already be a resolved id (WithParentID): an
// in-flight TaskRef can't be awaited from inside the caller's own
// transaction without risking a deadlock on the row it's waiting for.
func (q *QueuedTasks) EnqueueTx(ctx context.Context, tx pgx.Tx, taskName string, payload any, opts ...SubmitOption) (*Task, error) {
	d, err := buildDescriptor(taskName, payload, opts...)
	if err != nil {
		return nil, err
	}
	if d.Parent != nil {
		return nil, fmt.Errorf("%w: EnqueueTx requires WithParentID, not an unresolved TaskRef", ErrValidation)
	}

	draft := &Task{Name: d.Name, FunctionName: d.TaskName, ParentTaskID: d.ParentID, AutoRemove: d.AutoRemove}
	q.hooks.runPreCreate(ctx, draft)

	t, err := q.store.CreateTx(ctx, tx, d)
	if err != nil {
		return nil, err
	}

	q.hooks.runPostCreate(ctx, t)
	return t, nil
}

// drain is the single-consumer background task that processes the
// creation queue in two ordered passes, so a caller may write
// child := AddTask(f, WithParent(AddTask(g))) in either order without
// breaking foreign-key ordering.
func (q *QueuedTasks) drain(ctx context.Context) {
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		batch := q.queue
		q.queue = nil
		q.mu.Unlock()

		var withParent []creationRequest
		for _, req := range batch {
			if req.desc.Parent == nil && req.desc.ParentID == nil {
				q.insert(ctx, req)
			} else {
				withParent = append(withParent, req)
			}
		}
		for _, req := range withParent {
			q.insert(ctx, req)
		}
	}
}

func (q *QueuedTasks) insert(ctx context.Context, req creationRequest) {
	t, err := q.CreateTask(ctx, req.desc)
	if err != nil {
		req.ref.resolve(0, err)
		return
	}
	req.ref.resolve(t.ID, nil)
}

// RetryTask re-runs a task: a stopped task is mutated in place back to
// enqueued; a terminal (done/failed/cancelled) task is cloned with a
// "_retry" name suffix and fresh timing; enqueued/doing tasks are rejected.
func (q *QueuedTasks) RetryTask(ctx context.Context, id int64) (*Task, error) {
	t, err := q.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case t.State == StateEnqueued || t.State == StateDoing:
		return nil, fmt.Errorf("%w: cannot retry task in state %q", ErrInvalidState, t.State)
	case retryInPlace(t.State):
		if err := q.store.UpdateState(ctx, id, StateUpdate{State: StateEnqueued}); err != nil {
			return nil, err
		}
		return q.store.ByID(ctx, id)
	case t.State.Terminal():
		return q.store.Clone(ctx, id, "_retry")
	default:
		return nil, fmt.Errorf("%w: unexpected state %q", ErrInvalidState, t.State)
	}
}

func (q *QueuedTasks) cancel(ctx context.Context, id int64) error {
	t, err := q.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil // cancel of a nonexistent id is a silent no-op
		}
		return err
	}

	switch t.State {
	case StateEnqueued:
		return q.store.Delete(ctx, id)
	case StateDoing:
		return q.store.UpdateState(ctx, id, StateUpdate{State: StateCancelled})
	default:
		return nil
	}
}

func (q *QueuedTasks) stop(ctx context.Context, id int64) error {
	return q.store.UpdateState(ctx, id, StateUpdate{State: StateStopped})
}

// markAsWaiting explicitly moves an enqueued task to waiting: the selection
// algorithm excludes waiting rows from the ready set. No method of
// QueuedTasks moves a waiting task back to enqueued.
func (q *QueuedTasks) markAsWaiting(ctx context.Context, id int64) error {
	return q.store.UpdateState(ctx, id, StateUpdate{State: StateWaiting})
}

// SubmitOption configures a single AddTask/AddTaskAsync/EnqueueTx call.
type SubmitOption func(*Descriptor)

// WithParent references an in-flight TaskRef as the new task's parent.
func WithParent(ref *TaskRef) SubmitOption {
	return func(d *Descriptor) { d.Parent = ref }
}

// WithParentID references an already-resolved parent id.
func WithParentID(id int64) SubmitOption {
	return func(d *Descriptor) { d.ParentID = &id }
}

// WithTaskContext seeds the task's persisted execution context.
func WithTaskContext(ctx map[string]any) SubmitOption {
	return func(d *Descriptor) { d.Context = ctx }
}

// WithAutoRemove deletes the row after successful completion.
func WithAutoRemove() SubmitOption {
	return func(d *Descriptor) { d.AutoRemove = true }
}

// WithName overrides the autogenerated task name.
func WithName(name string) SubmitOption {
	return func(d *Descriptor) { d.Name = name }
}

func buildDescriptor(taskName string, payload any, opts ...SubmitOption) (Descriptor, error) {
	if !defaultRegistry.has(taskName) {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownTask, taskName)
	}

	var args json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: args not JSON-serializable: %w", ErrValidation, err)
		}
		args = b
	}

	d := Descriptor{TaskName: taskName, Args: args}
	for _, opt := range opts {
		opt(&d)
	}
	return d, nil
}
