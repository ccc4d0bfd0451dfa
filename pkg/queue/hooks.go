package queue

import (
	"context"
	"log/slog"
)

// PreCreateHook runs after a Task is built but before its first insert.
type PreCreateHook func(ctx context.Context, t *Task)

// PostCreateHook runs after a Task's insert has committed.
type PostCreateHook func(ctx context.Context, t *Task)

// PreRunHook runs inside the worker's isolated DB scope, before the task
// body. Its error is logged and never aborts the task.
type PreRunHook func(ctx context.Context, t *Task) error

// PostRunHook runs after the task body (or its terminal write). taskErr is
// nil when the task succeeded and non-nil when it failed.
type PostRunHook func(ctx context.Context, t *Task, taskErr error)

// HookRegistry holds the four ordered hook lists: pre-create, post-create,
// pre-run, and post-run. Hooks within a category run in registration order;
// a panicking or erroring hook is caught, logged by name, and never re-raised.
type HookRegistry struct {
	logger *slog.Logger

	preCreate  []namedHook[PreCreateHook]
	postCreate []namedHook[PostCreateHook]
	preRun     []namedHook[PreRunHook]
	postRun    []namedHook[PostRunHook]
}

type namedHook[T any] struct {
	name string
	fn   T
}

// NewHookRegistry creates an empty registry. A nil logger discards errors
// silently rather than panicking.
func NewHookRegistry(logger *slog.Logger) *HookRegistry {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &HookRegistry{logger: logger}
}

// OnPreCreate registers a pre-create hook under name, used only for logging.
func (h *HookRegistry) OnPreCreate(name string, fn PreCreateHook) {
	h.preCreate = append(h.preCreate, namedHook[PreCreateHook]{name, fn})
}

// OnPostCreate registers a post-create hook.
func (h *HookRegistry) OnPostCreate(name string, fn PostCreateHook) {
	h.postCreate = append(h.postCreate, namedHook[PostCreateHook]{name, fn})
}

// OnPreRun registers a pre-run hook.
func (h *HookRegistry) OnPreRun(name string, fn PreRunHook) {
	h.preRun = append(h.preRun, namedHook[PreRunHook]{name, fn})
}

// OnPostRun registers a post-run hook.
func (h *HookRegistry) OnPostRun(name string, fn PostRunHook) {
	h.postRun = append(h.postRun, namedHook[PostRunHook]{name, fn})
}

func (h *HookRegistry) runPreCreate(ctx context.Context, t *Task) {
	for _, hk := range h.preCreate {
		h.guard(hk.name, "pre_create", func() error {
			hk.fn(ctx, t)
			return nil
		})
	}
}

func (h *HookRegistry) runPostCreate(ctx context.Context, t *Task) {
	for _, hk := range h.postCreate {
		h.guard(hk.name, "post_create", func() error {
			hk.fn(ctx, t)
			return nil
		})
	}
}

// runPreRun executes pre-run hooks in order. Each hook's error is logged
// but never aborts the task; runPreRun itself never returns an error for
// that reason, despite PreRunHook's signature.
func (h *HookRegistry) runPreRun(ctx context.Context, t *Task) {
	for _, hk := range h.preRun {
		h.guard(hk.name, "pre_run", func() error {
			return hk.fn(ctx, t)
		})
	}
}

func (h *HookRegistry) runPostRun(ctx context.Context, t *Task, taskErr error) {
	for _, hk := range h.postRun {
		h.guard(hk.name, "post_run", func() error {
			hk.fn(ctx, t, taskErr)
			return nil
		})
	}
}

// guard invokes fn, recovering a panic and logging either outcome as a
// HookError-class failure. It never propagates.
func (h *HookRegistry) guard(name, phase string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("hook panicked",
				slog.String("hook", name),
				slog.String("phase", phase),
				slog.Any("recover", r),
			)
		}
	}()
	if err := fn(); err != nil {
		h.logger.Error("hook failed",
			slog.String("hook", name),
			slog.String("phase", phase),
			slog.Any("error", err),
		)
	}
}

// discardHandler is a zero-overhead slog.Handler that drops every record,
// used when no logger is supplied.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
