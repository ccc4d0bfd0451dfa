package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"strings"
	"sync"
)

type taskCtxKey struct{}

// taskScope is the mutable ambient state installed by the worker around a
// task body. It is carried on the context.Context, never in a
// package-level global, so it cannot leak across concurrently executing
// tasks.
type taskScope struct {
	mu       sync.Mutex
	task     *Task
	data     map[string]any
	store    Store
	logStore LogStore
	logger   *slog.Logger
}

// withTaskScope installs a fresh ambient scope for t into ctx, seeded from
// t's persisted Context column. logStore may be nil, in which case Log
// still writes through logger but never persists to queued_task_logs.
func withTaskScope(ctx context.Context, t *Task, store Store, logStore LogStore, logger *slog.Logger) context.Context {
	data := map[string]any{}
	if len(t.Context) > 0 {
		_ = json.Unmarshal(t.Context, &data)
	}
	scope := &taskScope{task: t, data: data, store: store, logStore: logStore, logger: logger}
	return context.WithValue(ctx, taskCtxKey{}, scope)
}

func scopeFrom(ctx context.Context) (*taskScope, bool) {
	s, ok := ctx.Value(taskCtxKey{}).(*taskScope)
	return s, ok
}

// CurrentTask returns the task executing in ctx, if any.
func CurrentTask(ctx context.Context) (*Task, bool) {
	s, ok := scopeFrom(ctx)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task, true
}

// GetContext reads a dotted-path value from the ambient execution context,
// e.g. GetContext(ctx, "tenant.id", nil).
func GetContext(ctx context.Context, path string, def any) any {
	s, ok := scopeFrom(ctx)
	if !ok {
		return def
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := lookupPath(s.data, path)
	if !ok {
		return def
	}
	return v
}

// GetFullContext returns a copy of the entire ambient execution context.
func GetFullContext(ctx context.Context) map[string]any {
	s, ok := scopeFrom(ctx)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.data)
}

// SetFullContext replaces the entire ambient execution context.
func SetFullContext(ctx context.Context, m map[string]any) {
	s, ok := scopeFrom(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	s.data = maps.Clone(m)
	s.mu.Unlock()
}

// ClearContext empties the ambient execution context without persisting.
func ClearContext(ctx context.Context) {
	s, ok := scopeFrom(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	s.data = map[string]any{}
	s.mu.Unlock()
}

// SetContext writes value at the dotted path into the ambient execution
// context. When autoCommit is true and a task is installed, a background
// write persists the updated context to the task's row; failures are
// logged, never propagated.
func SetContext(ctx context.Context, path string, value any, autoCommit bool) {
	s, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	setPath(s.data, path, value)
	snapshot := maps.Clone(s.data)
	task := s.task
	store := s.store
	logger := s.logger
	s.mu.Unlock()

	if !autoCommit || task == nil || store == nil {
		return
	}

	go func() {
		raw, err := json.Marshal(snapshot)
		if err != nil {
			logger.Error("queue: marshal ambient context failed", slog.Any("error", err), slog.Int64("task_id", task.ID))
			return
		}
		bgCtx := context.Background()
		if err := store.UpdateContext(bgCtx, task.ID, raw); err != nil {
			logger.Error("queue: persist ambient context failed", slog.Any("error", err), slog.Int64("task_id", task.ID))
		}
	}()
}

func lookupPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for i, p := range parts {
		if i == len(parts)-1 {
			cur[p] = value
			return
		}
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
}
