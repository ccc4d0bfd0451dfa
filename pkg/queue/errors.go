package queue

import "errors"

// Sentinel errors returned by the queue package. Callers should use
// errors.Is/errors.As rather than comparing strings.
var (
	// ErrValidation wraps synchronous submission failures: non-serializable
	// args, an instance-bound method passed as a callable, a missing id on
	// retry, or an unsupported parent reference type.
	ErrValidation = errors.New("queue: validation error")

	// ErrNotFound is returned when an operation references a task or
	// worker record id that does not exist.
	ErrNotFound = errors.New("queue: not found")

	// ErrParentNotReady is the exception kind written to a task that
	// failed its pre-run parent recheck.
	ErrParentNotReady = errors.New("ParentTaskNotReady")

	// ErrParentFailed is the exception kind written to a task that failed
	// its pre-terminal-write parent recheck, or that was cascaded from a
	// failed parent.
	ErrParentFailed = errors.New("ParentTaskFailed")

	// ErrUnknownTask is returned when a task references a name that has
	// not been registered with Register.
	ErrUnknownTask = errors.New("queue: unknown task")

	// ErrInvalidPayload is returned when a task payload cannot be
	// unmarshaled into the registered handler's expected type.
	ErrInvalidPayload = errors.New("queue: invalid payload")

	// ErrInvalidState is returned by RetryTask when the source task is in
	// a state that cannot be retried (enqueued or doing).
	ErrInvalidState = errors.New("queue: invalid state for operation")

	// ErrTransient marks a database error recognized as a serialization
	// conflict (40001) or deadlock (40P01), eligible for the terminal
	// write's retry loop.
	ErrTransient = errors.New("queue: transient database error")

	// ErrAlreadyStarted is returned when Start is called on a Manager
	// that is already running.
	ErrAlreadyStarted = errors.New("queue: already started")

	// ErrNotStarted is returned when Stop is called on a Manager that is
	// not running, or a healthcheck runs before Start.
	ErrNotStarted = errors.New("queue: not started")

	// ErrPoolRequired is returned when constructing a Manager, Enqueuer,
	// or QueuedTasks without a database pool.
	ErrPoolRequired = errors.New("queue: pool is required")

	// ErrHealthcheckFailed wraps any failure surfaced by Healthcheck.
	ErrHealthcheckFailed = errors.New("queue: healthcheck failed")
)
