package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// TaskFunc is a registered task body. ctx carries the ambient task context
// (retrievable via CurrentTask/GetContext); raw is the task's JSON-encoded
// args.
type TaskFunc func(ctx context.Context, raw json.RawMessage) error

// taskRegistry resolves a task name to its callable. Closures can't be
// serialized across process boundaries, so resolution here is always a
// named-registry lookup rather than a captured function reference.
type taskRegistry struct {
	mu    sync.RWMutex
	funcs map[string]TaskFunc
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{funcs: make(map[string]TaskFunc)}
}

func (r *taskRegistry) register(name string, fn TaskFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

func (r *taskRegistry) get(name string) (TaskFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

func (r *taskRegistry) has(name string) bool {
	_, ok := r.get(name)
	return ok
}

// defaultRegistry is the process-wide registry used by the package-level
// Register/RegisterTyped helpers, mirroring how module-level functions are
// addressable by (module, function) name in the source system.
var defaultRegistry = newTaskRegistry()

// Register binds a task name to a raw handler. Most callers prefer
// RegisterTyped, which handles JSON decoding of a typed payload.
func Register(name string, fn TaskFunc) {
	defaultRegistry.register(name, fn)
}

// RegisterTyped binds a task name to a handler taking a typed payload P,
// decoded from the task's JSON args on each invocation. An empty/absent
// args value decodes to P's zero value.
//
//	queue.RegisterTyped("send_welcome", func(ctx context.Context, p SendWelcomePayload) error {
//	    return mailer.Send(ctx, "welcome", p.Email)
//	})
func RegisterTyped[P any](name string, handle func(ctx context.Context, p P) error) {
	defaultRegistry.register(name, func(ctx context.Context, raw json.RawMessage) error {
		var payload P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		}
		return handle(ctx, payload)
	})
}
