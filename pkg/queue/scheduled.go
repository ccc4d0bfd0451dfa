package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduledHandler is a periodic task's body, invoked with no payload.
type ScheduledHandler func(ctx context.Context) error

// ScheduledDefinition is a cron-bound function keyed by name, held only in
// memory and resolved against enablement lists at evaluation time. At a
// matching minute boundary the Manager materializes it as an ordinary task
// row via the submission API; Handler itself is registered against the task
// registry under Name, so the worker that later picks up the row resolves
// it exactly like any other task.
type ScheduledDefinition struct {
	Name        string
	CronExpr    string
	Handler     ScheduledHandler
	Description string
	// DefaultContext seeds the materialized task's persisted execution
	// context.
	DefaultContext map[string]any
	AutoRemove     bool
	Enabled        bool // decorator-time default, lowest-priority override

	schedule cron.Schedule
}

// asTaskFunc adapts d.Handler to the TaskFunc signature the task registry
// expects, discarding the (always-empty) args payload.
func (d *ScheduledDefinition) asTaskFunc() TaskFunc {
	return func(ctx context.Context, _ json.RawMessage) error {
		return d.Handler(ctx)
	}
}

// ScheduledRegistry is the in-process table of scheduled-task definitions,
// tracking registration order and enable/disable overrides.
type ScheduledRegistry struct {
	mu       sync.RWMutex
	defs     map[string]*ScheduledDefinition
	order    []string
	enabled  []string
	disabled []string
}

// NewScheduledRegistry creates an empty registry configured with the
// caller-supplied enabled/disabled name overrides.
func NewScheduledRegistry(enabled, disabled []string) *ScheduledRegistry {
	return &ScheduledRegistry{
		defs:     make(map[string]*ScheduledDefinition),
		enabled:  enabled,
		disabled: disabled,
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Register adds a scheduled task definition. An invalid cron expression is
// a configuration error surfaced immediately, not at evaluation time.
func (r *ScheduledRegistry) Register(d ScheduledDefinition) error {
	sched, err := cronParser.Parse(d.CronExpr)
	if err != nil {
		return fmt.Errorf("queue: invalid cron schedule %q for %q: %w", d.CronExpr, d.Name, err)
	}
	d.schedule = sched

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	dd := d
	r.defs[d.Name] = &dd
	return nil
}

// All returns every registered definition in registration order.
func (r *ScheduledRegistry) All() []*ScheduledDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ScheduledDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Enabled resolves whether d should fire right now, following a fixed
// precedence, highest priority first:
//  1. name in disabled list -> disabled
//  2. name in enabled list -> enabled
//  3. "all"/"*" in disabled list -> disabled
//  4. fall back to the definition's decorator-time Enabled flag
func (r *ScheduledRegistry) Enabled(d *ScheduledDefinition) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if slices.Contains(r.disabled, d.Name) {
		return false
	}
	if slices.Contains(r.enabled, d.Name) {
		return true
	}
	if slices.Contains(r.disabled, "all") || slices.Contains(r.disabled, "*") {
		return false
	}
	return d.Enabled
}

// Matches reports whether d's cron expression fires for the minute
// containing now: compute the next fire time from (now - 1 minute); it
// matches iff that equals now's minute boundary.
func (d *ScheduledDefinition) Matches(now time.Time) bool {
	minute := now.Truncate(time.Minute)
	next := d.schedule.Next(minute.Add(-time.Minute))
	return next.Equal(minute)
}
