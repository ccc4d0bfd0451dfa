package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// notifyFunctionSQL is the trigger body installed by Manager.Start. It
// fires pg_notify only when a row transitions into (or is inserted directly
// as) enqueued, so listeners never wake for doing/terminal writes. The
// payload carries enough to identify the task without a round-trip, though
// the listener loop only uses the notification as a wake-up signal.
const notifyFunctionSQL = `
CREATE OR REPLACE FUNCTION queue_notify_new_task() RETURNS trigger AS $$
BEGIN
	IF NEW.state = 'enqueued' THEN
		PERFORM pg_notify(TG_ARGV[0], json_build_object(
			'task_id', NEW.id,
			'state', NEW.state,
			'module_name', NEW.module_name,
			'function_name', NEW.function_name,
			'created_at', NEW.created_at
		)::text);
	END IF;
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;`

const dropTriggerSQL = `DROP TRIGGER IF EXISTS queue_notify_new_task_trigger ON queued_tasks;`

// Manager runs the queue's background loops: the notification listener
// (L1), fallback poller (L2), heartbeat (L3), and cron scheduler (L4). It
// owns a worker Pool and drives tasks from enqueued through to a terminal
// state.
type Manager struct {
	pool        *pgxpool.Pool
	store       Store
	workerStore WorkerStore
	hooks       *HookRegistry
	registry    *taskRegistry
	scheduled   *ScheduledRegistry
	workerPool  *Pool
	logger      *slog.Logger
	cfg         *config
	serverName  string

	// Tasks is the submission API, wired to the same store and hooks as
	// this manager's worker pool.
	Tasks *QueuedTasks

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewManager builds a Manager against pool. The Store, WorkerStore, and
// HookRegistry default to pgx-backed/empty implementations unless supplied
// via WithHooks or a future store override option.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.effectiveLogger()

	store := cfg.store
	if store == nil {
		store = NewStore(pool)
	}
	workerStore := cfg.workerStore
	if workerStore == nil {
		workerStore = NewWorkerStore(pool)
	}
	logStore := cfg.logStore
	if logStore == nil {
		logStore = NewLogStore(pool)
	}
	hooks := cfg.hooks
	if hooks == nil {
		hooks = NewHookRegistry(logger)
	}
	registry := cfg.registry
	if registry == nil {
		registry = defaultRegistry
	}

	scheduled := NewScheduledRegistry(cfg.enabledScheduled, cfg.disabledScheduled)
	for _, d := range cfg.schedules {
		if err := scheduled.Register(d); err != nil {
			return nil, err
		}
		registry.register(d.Name, d.asTaskFunc())
	}

	serverName := cfg.serverName
	if serverName == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "queue-worker"
		}
		serverName = fmt.Sprintf("%s-%d", host, os.Getpid())
	}

	m := &Manager{
		pool:        pool,
		store:       store,
		workerStore: workerStore,
		hooks:       hooks,
		registry:    registry,
		scheduled:   scheduled,
		logger:      logger,
		cfg:         cfg,
		serverName:  serverName,
		Tasks:       NewQueuedTasks(store, hooks, logger),
	}
	m.workerPool = NewPool(cfg.maxWorkers, cfg.workerIdleTimeout, func(id string) *worker {
		return newWorker(id, store, logStore, registry, hooks, logger)
	})
	return m, nil
}

// Start installs the notification trigger, registers this process in the
// Worker Record Store, and runs the four background loops until ctx is
// cancelled or Stop is called. It blocks for the manager's full lifetime;
// callers typically run it in its own goroutine alongside an HTTP server,
// or use StartFunc to integrate it as a non-blocking startup hook.
func (m *Manager) Start(ctx context.Context) error {
	runCtx, err := m.prepare(ctx)
	if err != nil {
		return err
	}
	m.run(runCtx)
	return nil
}

// StartFunc adapts Start into a non-blocking startup hook: it
// performs the synchronous setup (trigger install, worker registration)
// before returning, then runs the background loops for the lifetime of
// ctx. Pair with Shutdown for a graceful-shutdown hook pair.
func (m *Manager) StartFunc() func(context.Context) error {
	return func(ctx context.Context) error {
		runCtx, err := m.prepare(ctx)
		if err != nil {
			return err
		}
		go m.run(runCtx)
		return nil
	}
}

// Shutdown returns a shutdown-hook-compatible closure equivalent to Stop.
func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}

// prepare validates the manager isn't already running, installs the
// notify trigger, and registers this server's Worker Record Store row. On
// success it returns the cancelable context run's loops should observe.
func (m *Manager) prepare(ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true
	m.mu.Unlock()

	if err := m.installTrigger(ctx); err != nil {
		m.failStart(cancel)
		return nil, fmt.Errorf("queue: install notify trigger: %w", err)
	}
	if _, err := m.workerStore.Upsert(ctx, m.serverName, m.cfg.maxWorkers, m.cfg.version); err != nil {
		m.failStart(cancel)
		return nil, fmt.Errorf("queue: register worker record: %w", err)
	}
	return runCtx, nil
}

// run launches the four background loops and blocks until runCtx is
// cancelled, then performs cleanup. Callers must have already succeeded at
// prepare.
func (m *Manager) run(runCtx context.Context) {
	var wg sync.WaitGroup
	loops := []func(context.Context){m.fallbackLoop, m.heartbeatLoop, m.cronLoop}
	if m.cfg.useNotify {
		loops = append(loops, m.listenLoop)
	}
	for _, loop := range loops {
		wg.Add(1)
		go func(fn func(context.Context)) {
			defer wg.Done()
			fn(runCtx)
		}(loop)
	}
	go func() {
		wg.Wait()
		close(m.done)
	}()

	m.logger.Info("queue: manager started",
		slog.String("server", m.serverName),
		slog.Int("max_workers", m.cfg.maxWorkers),
		slog.Bool("notify", m.cfg.useNotify),
	)

	<-runCtx.Done()
	<-m.done

	stopCtx := context.Background()
	if err := m.workerStore.MarkStopped(stopCtx, m.serverName); err != nil {
		m.logger.Warn("queue: failed to mark worker record stopped", slog.Any("error", err))
	}
	m.workerPool.Shutdown(stopCtx)

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	m.logger.Info("queue: manager stopped", slog.String("server", m.serverName))
}

func (m *Manager) failStart(cancel context.CancelFunc) {
	cancel()
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// Stop requests a graceful shutdown and waits for all loops to exit, or
// for ctx to be cancelled, whichever comes first. It never interrupts an
// in-flight task body.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotStarted
	}
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue creates a task by registered name and blocks until it is
// durably enqueued, delegating to the manager's own QueuedTasks instance.
func (m *Manager) Enqueue(ctx context.Context, taskName string, payload any, opts ...SubmitOption) (*Task, error) {
	return m.Tasks.AddTaskAsync(ctx, taskName, payload, opts...)
}

// EnqueueTx creates a task within an already-open transaction, so it
// becomes visible only when tx commits.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, taskName string, payload any, opts ...SubmitOption) (*Task, error) {
	return m.Tasks.EnqueueTx(ctx, tx, taskName, payload, opts...)
}

// Fleet returns every live (running, recently-heartbeating) worker record
// across the cluster, the view monitoring surfaces aggregate.
func (m *Manager) Fleet(ctx context.Context) ([]*WorkerRecord, error) {
	return m.workerStore.Fleet(ctx)
}

func (m *Manager) installTrigger(ctx context.Context) error {
	if !m.cfg.useNotify {
		return nil
	}
	if _, err := m.pool.Exec(ctx, notifyFunctionSQL); err != nil {
		return err
	}
	if _, err := m.pool.Exec(ctx, dropTriggerSQL); err != nil {
		return err
	}
	createQ := fmt.Sprintf(
		`CREATE TRIGGER queue_notify_new_task_trigger
		 AFTER INSERT OR UPDATE OF state ON queued_tasks
		 FOR EACH ROW EXECUTE FUNCTION queue_notify_new_task(%s);`,
		quoteLiteral(m.cfg.notifyChannel),
	)
	_, err := m.pool.Exec(ctx, createQ)
	return err
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// listenLoop holds a dedicated LISTEN connection and wakes processPendingTasks
// on every notification, falling back to a plain timeout tick so a missed
// or coalesced notification never stalls the queue.
func (m *Manager) listenLoop(ctx context.Context) {
	for ctx.Err() == nil {
		if err := m.listenOnce(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn("queue: notify listener lost connection, retrying", slog.Any("error", err))
			select {
			case <-time.After(m.cfg.pollingInterval):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (m *Manager) listenOnce(ctx context.Context) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `LISTEN `+pgx.Identifier{m.cfg.notifyChannel}.Sanitize()); err != nil {
		return err
	}

	for {
		waitCtx, cancel := context.WithTimeout(ctx, m.cfg.pollingInterval)
		_, err := conn.Conn().WaitForNotification(waitCtx)
		cancel()

		switch {
		case err == nil:
			m.processPendingTasks(ctx)
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, context.DeadlineExceeded):
			m.processPendingTasks(ctx)
		default:
			return err
		}
	}
}

// fallbackLoop re-scans for ready tasks on a fixed interval regardless of
// notifications, covering any row inserted by another process without
// triggering a notify, or a dropped notification.
func (m *Manager) fallbackLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.fallbackPollingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.processPendingTasks(ctx)
		}
	}
}

// heartbeatLoop refreshes this server's worker-registry row every 30s so
// other processes' fleet views and liveness windows stay current.
func (m *Manager) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active, idle := m.workerPool.Counts()
			if err := m.workerStore.Heartbeat(ctx, m.serverName, active, idle); err != nil {
				m.logger.Warn("queue: heartbeat failed", slog.Any("error", err))
			}
		}
	}
}

// cronLoop evaluates every registered scheduled task once per minute
// boundary.
func (m *Manager) cronLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastMinute time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			minute := now.Truncate(time.Minute)
			if minute.Equal(lastMinute) {
				continue
			}
			lastMinute = minute
			m.runScheduled(ctx, now)
		}
	}
}

func (m *Manager) runScheduled(ctx context.Context, now time.Time) {
	for _, d := range m.scheduled.All() {
		if !m.scheduled.Enabled(d) || !d.Matches(now) {
			continue
		}
		go m.materializeScheduled(ctx, d)
	}
}

// materializeScheduled inserts a new task row for d via the submission API,
// unless a row with d's name is already present in states {enqueued,
// waiting, doing} (duplicate suppression is per-name, not per-occurrence,
// so concurrent managers don't double-fire). The row runs through the
// ordinary worker pipeline like any other task; d.Handler was registered
// against the task registry by name when this Manager was built.
func (m *Manager) materializeScheduled(ctx context.Context, d *ScheduledDefinition) {
	n, err := m.store.CountByNameInStates(ctx, d.Name, []State{StateEnqueued, StateWaiting, StateDoing})
	if err != nil {
		m.logger.Warn("queue: scheduled duplicate-suppression check failed", slog.String("name", d.Name), slog.Any("error", err))
		return
	}
	if n > 0 {
		return
	}

	var opts []SubmitOption
	if d.AutoRemove {
		opts = append(opts, WithAutoRemove())
	}
	if d.DefaultContext != nil {
		opts = append(opts, WithTaskContext(d.DefaultContext))
	}
	if _, err := m.Tasks.AddTaskAsync(ctx, d.Name, nil, opts...); err != nil {
		m.logger.Error("queue: failed to materialize scheduled task", slog.String("name", d.Name), slog.Any("error", err))
	}
}

// processPendingTasks scans enqueued tasks oldest-first and assigns each
// ready one to an available worker. The "sibling gate" applies to done
// parents only: promoting a child marks its parent as processed for this
// tick, so at most one sibling races the parent's terminal write per
// pass. A Failed/Cancelled parent is not gated — every one of its
// enqueued siblings cascades in the same tick.
func (m *Manager) processPendingTasks(ctx context.Context) {
	tasks, err := m.store.EnqueuedOrdered(ctx)
	if err != nil {
		m.logger.Warn("queue: failed to list enqueued tasks", slog.Any("error", err))
		return
	}

	processedParents := make(map[int64]bool)

	for _, t := range tasks {
		if t.ParentTaskID != nil {
			parentID := *t.ParentTaskID
			if processedParents[parentID] {
				continue
			}

			parent, err := m.store.ByID(ctx, parentID)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					m.logger.Warn("queue: failed to recheck parent", slog.Int64("parent_id", parentID), slog.Any("error", err))
				}
				continue
			}
			switch parent.State {
			case StateDone:
				// Gate only here: a done parent promotes at most one child
				// per tick, while its remaining siblings are re-examined
				// next tick. Failed/cancelled parents stay ungated so every
				// sibling cascades in this same pass.
				processedParents[parentID] = true
			case StateFailed, StateCancelled:
				m.cascadeFail(ctx, t, parent.State, parent.Name)
				continue
			default:
				continue // parent still enqueued/doing/waiting/stopped
			}
		}

		w, ok := m.workerPool.GetAvailableWorker()
		if !ok {
			return // saturated; remaining candidates wait for the next tick
		}
		go m.dispatch(ctx, w, t)
	}
}

// dispatch promotes t to doing and runs it to completion on w, returning w
// to the pool and deleting the row on success when AutoRemove is set.
// Children of t are picked up by later scans of processPendingTasks.
func (m *Manager) dispatch(ctx context.Context, w *worker, t *Task) {
	defer m.workerPool.ReturnWorker(w)

	if err := m.store.UpdateState(ctx, t.ID, StateUpdate{State: StateDoing}); err != nil {
		m.logger.Warn("queue: failed to promote task to doing", slog.Int64("task_id", t.ID), slog.Any("error", err))
		return
	}
	t.State = StateDoing

	result := w.Run(ctx, t)

	if result.Status == "success" && t.AutoRemove {
		if err := m.store.Delete(ctx, t.ID); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Warn("queue: auto_remove delete failed", slog.Int64("task_id", t.ID), slog.Any("error", err))
		}
	}
}

// cascadeFail transitions t to match its parent's terminal outcome (failed
// stays failed, cancelled stays cancelled), then recursively cascades the
// same outcome to every non-terminal descendant. An in-flight (doing)
// descendant is transitioned here too; the worker executing it still writes
// its own failed state when the body returns, replacing this write (with
// ParentTaskFailed when the body succeeded, since its second parent recheck
// then finds the parent not done).
func (m *Manager) cascadeFail(ctx context.Context, t *Task, parentState State, parentName string) {
	if t.State.Terminal() || t.State == StateStopped {
		return
	}

	var update StateUpdate
	switch parentState {
	case StateFailed:
		update = StateUpdate{
			State:         StateFailed,
			ExceptionName: "ParentTaskFailed",
			ExceptionMsg:  fmt.Sprintf("Parent task %d failed", derefParent(t)),
			ExceptionInfo: fmt.Sprintf("parent: %s (id %d)", parentName, derefParent(t)),
		}
	default: // StateCancelled
		update = StateUpdate{State: StateCancelled}
	}

	if err := m.store.UpdateState(ctx, t.ID, update); err != nil {
		m.logger.Warn("queue: cascade transition failed", slog.Int64("task_id", t.ID), slog.Any("error", err))
		return
	}

	children, err := m.store.Children(ctx, t.ID)
	if err != nil {
		m.logger.Warn("queue: failed to list children for cascade", slog.Int64("parent_id", t.ID), slog.Any("error", err))
		return
	}
	for _, c := range children {
		m.cascadeFail(ctx, c, update.State, t.Name)
	}
}

func derefParent(t *Task) int64 {
	if t.ParentTaskID == nil {
		return 0
	}
	return *t.ParentTaskID
}
