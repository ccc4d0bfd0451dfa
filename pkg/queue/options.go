package queue

import (
	"log/slog"
	"runtime"
	"time"
)

// Default configuration values.
const (
	defaultWorkerIdleTimeout       = 60 * time.Second
	defaultPollingInterval         = 2 * time.Second
	defaultFallbackPollingInterval = 30 * time.Second
	defaultTaskTimeout             = 300 * time.Second
	defaultMaxRetries              = 3
	defaultNotifyChannel           = "queue_new_task"
)

// config holds Manager configuration, built from functional Options.
type config struct {
	logger *slog.Logger

	maxWorkers              int
	workerIdleTimeout       time.Duration
	pollingInterval         time.Duration
	fallbackPollingInterval time.Duration
	taskTimeout             time.Duration // declared, never enforced by the runtime loop
	maxRetries              int
	useNotify               bool
	notifyChannel           string

	enabledScheduled  []string
	disabledScheduled []string
	schedules         []ScheduledDefinition

	serverName string
	version    string

	store       Store
	workerStore WorkerStore
	logStore    LogStore
	hooks       *HookRegistry
	registry    *taskRegistry
}

func newConfig() *config {
	return &config{
		maxWorkers:              runtime.NumCPU(),
		workerIdleTimeout:       defaultWorkerIdleTimeout,
		pollingInterval:         defaultPollingInterval,
		fallbackPollingInterval: defaultFallbackPollingInterval,
		taskTimeout:             defaultTaskTimeout,
		maxRetries:              defaultMaxRetries,
		useNotify:               true,
		notifyChannel:           defaultNotifyChannel,
		registry:                defaultRegistry,
	}
}

// Option configures a Manager.
type Option func(*config)

// WithLogger sets the manager's logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the per-process worker pool capacity. Defaults to
// runtime.NumCPU().
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithWorkerIdleTimeout sets how long an idle worker survives before being
// reaped. Defaults to 60s.
func WithWorkerIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.workerIdleTimeout = d
		}
	}
}

// WithPollingInterval sets the notification listener's tick interval.
// Defaults to 2s.
func WithPollingInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollingInterval = d
		}
	}
}

// WithFallbackPollingInterval sets the fallback poll loop's interval.
// Defaults to 30s.
func WithFallbackPollingInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.fallbackPollingInterval = d
		}
	}
}

// WithTaskTimeout stores a declared task timeout. It is never enforced by
// the runtime loop, and no accessor exposes the stored value.
func WithTaskTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.taskTimeout = d
		}
	}
}

// WithMaxRetries stores a retry budget in the manager's configuration.
// Nothing in the package reads it, and the core does not itself retry
// failed task bodies.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithoutNotify disables the NOTIFY/LISTEN loop (L1), relying solely on
// fallback polling (L2). Use when the driver or deployment lacks LISTEN
// support.
func WithoutNotify() Option {
	return func(c *config) { c.useNotify = false }
}

// WithNotifyChannel overrides the pg_notify channel name. Defaults to
// "queue_new_task".
func WithNotifyChannel(name string) Option {
	return func(c *config) {
		if name != "" {
			c.notifyChannel = name
		}
	}
}

// WithEnabledScheduledTasks / WithDisabledScheduledTasks feed the
// enablement precedence ScheduledRegistry.Enabled applies at dispatch time.
func WithEnabledScheduledTasks(names ...string) Option {
	return func(c *config) { c.enabledScheduled = append(c.enabledScheduled, names...) }
}

func WithDisabledScheduledTasks(names ...string) Option {
	return func(c *config) { c.disabledScheduled = append(c.disabledScheduled, names...) }
}

// WithScheduledTask registers a cron-bound function, enabled by default
// unless overridden by the enabled/disabled lists.
func WithScheduledTask(name, cronExpr string, handler ScheduledHandler) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, ScheduledDefinition{
			Name: name, CronExpr: cronExpr, Handler: handler, Enabled: true,
		})
	}
}

// WithServerName sets this process's identity in the Worker Record Store.
// Defaults to a hostname-derived name when unset.
func WithServerName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.serverName = name
		}
	}
}

// WithVersion records a version string on the worker record.
func WithVersion(v string) Option {
	return func(c *config) { c.version = v }
}

// WithHooks installs a pre-built hook registry instead of an empty one.
func WithHooks(h *HookRegistry) Option {
	return func(c *config) {
		if h != nil {
			c.hooks = h
		}
	}
}

// WithLogStore overrides the append-only task log sink. Defaults to a
// pgx-backed LogStore against the same pool as the rest of the queue.
func WithLogStore(ls LogStore) Option {
	return func(c *config) {
		if ls != nil {
			c.logStore = ls
		}
	}
}

func (c *config) effectiveLogger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}
