package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager builds a Manager around fakes, bypassing NewManager (which
// requires a live pgxpool.Pool for trigger install / worker registration),
// so processPendingTasks/cascadeFail/materializeScheduled can be exercised
// directly against in-memory state.
func newTestManager(store *fakeStore, maxWorkers int) *Manager {
	logger := slog.New(discardHandler{})
	// Production wiring always resolves both worker dispatch and submission
	// validation against the same process-wide registry (no WithRegistry
	// override exists), so tests use defaultRegistry too rather than an
	// isolated one ("noop" is registered package-wide by queue_test.go).
	registry := defaultRegistry
	hooks := NewHookRegistry(logger)

	return &Manager{
		store:       store,
		workerStore: newFakeWorkerStore(),
		hooks:       hooks,
		registry:    registry,
		scheduled:   NewScheduledRegistry(nil, nil),
		logger:      logger,
		cfg:         newConfig(),
		serverName:  "test-server",
		Tasks:       NewQueuedTasks(store, hooks, logger),
		workerPool: NewPool(maxWorkers, time.Minute, func(id string) *worker {
			return newWorker(id, store, nil, registry, hooks, logger)
		}),
	}
}

func TestManager_ProcessPendingTasks_DispatchesReadyParentlessTasks(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 4)

	base := time.Now().Add(-time.Hour)
	a := store.seedTask("noop", nil, base, StateEnqueued)
	b := store.seedTask("noop", nil, base.Add(time.Second), StateEnqueued)

	m.processPendingTasks(context.Background())

	require.Eventually(t, func() bool {
		ga, _ := store.ByID(context.Background(), a.ID)
		gb, _ := store.ByID(context.Background(), b.ID)
		return ga.State == StateDone && gb.State == StateDone
	}, time.Second, 5*time.Millisecond)
}

func TestManager_ProcessPendingTasks_StopsAtPoolSaturation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 1)

	m.registry.register("blocks-until-released-manager-test", func(ctx context.Context, _ json.RawMessage) error {
		<-ctx.Done()
		return nil
	})

	base := time.Now().Add(-time.Hour)
	first := store.seedTask("blocks-until-released-manager-test", nil, base, StateEnqueued)
	second := store.seedTask("noop", nil, base.Add(time.Second), StateEnqueued)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.processPendingTasks(ctx)

	// The single worker is occupied by `first`; `second` must be left
	// enqueued until a worker frees up on a later tick.
	require.Eventually(t, func() bool {
		got, _ := store.ByID(context.Background(), first.ID)
		return got.State == StateDoing
	}, time.Second, 5*time.Millisecond)

	got, err := store.ByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, StateEnqueued, got.State, "second task must wait for the saturated pool")
}

func TestManager_ProcessPendingTasks_SiblingGate_PromotesOnlyOneChildPerTick(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now().Add(-time.Hour)
	parent := store.seedTask("noop", nil, base, StateDone)
	c1 := store.seedTask("noop", &parent.ID, base.Add(time.Second), StateEnqueued)
	c2 := store.seedTask("noop", &parent.ID, base.Add(2*time.Second), StateEnqueued)

	m.processPendingTasks(context.Background())

	// Both c1 and c2 share parent, so only the first-seen child is decided
	// this tick; the dispatch goroutine it spawns eventually completes, but
	// c2 was never looked at in this call because processedParents gated it.
	require.Eventually(t, func() bool {
		got, _ := store.ByID(context.Background(), c1.ID)
		return got.State == StateDone
	}, time.Second, 5*time.Millisecond)

	got2, err := store.ByID(context.Background(), c2.ID)
	require.NoError(t, err)
	assert.Equal(t, StateEnqueued, got2.State, "sibling gate must skip the second child of the same parent in one tick")
}

func TestManager_ProcessPendingTasks_FIFOOrderByEnqueueTime(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 1)

	base := time.Now().Add(-time.Hour)
	older := store.seedTask("noop", nil, base, StateEnqueued)
	newer := store.seedTask("noop", nil, base.Add(time.Minute), StateEnqueued)

	m.processPendingTasks(context.Background())

	require.Eventually(t, func() bool {
		got, _ := store.ByID(context.Background(), older.ID)
		return got.State == StateDone
	}, time.Second, 5*time.Millisecond)

	got, err := store.ByID(context.Background(), newer.ID)
	require.NoError(t, err)
	assert.Equal(t, StateEnqueued, got.State, "the single worker must have been claimed by the older task")
}

func TestManager_CascadeFail_FailedParentFailsDescendantsRecursively(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now()
	parent := store.seedTask("root", nil, base, StateFailed)
	child := store.seedTask("child", &parent.ID, base, StateEnqueued)
	grandchild := store.seedTask("grandchild", &child.ID, base, StateEnqueued)

	childTask, err := store.ByID(context.Background(), child.ID)
	require.NoError(t, err)
	m.cascadeFail(context.Background(), childTask, StateFailed, parent.Name)

	gotChild, err := store.ByID(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, gotChild.State)
	assert.Equal(t, "ParentTaskFailed", gotChild.ExceptionName)

	gotGrandchild, err := store.ByID(context.Background(), grandchild.ID)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, gotGrandchild.State, "cascade must recurse to grandchildren")
}

func TestManager_CascadeFail_CancelledParentCancelsDescendants(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now()
	parent := store.seedTask("root", nil, base, StateCancelled)
	child := store.seedTask("child", &parent.ID, base, StateEnqueued)

	childTask, err := store.ByID(context.Background(), child.ID)
	require.NoError(t, err)
	m.cascadeFail(context.Background(), childTask, StateCancelled, parent.Name)

	got, err := store.ByID(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, got.State)
	assert.Empty(t, got.ExceptionName, "a cancelled cascade carries no exception payload")
}

func TestManager_CascadeFail_SkipsAlreadyTerminalOrStopped(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now()
	parent := store.seedTask("root", nil, base, StateFailed)
	alreadyDone := store.seedTask("done-child", &parent.ID, base, StateDone)
	stopped := store.seedTask("stopped-child", &parent.ID, base, StateStopped)

	m.cascadeFail(context.Background(), alreadyDone, StateFailed, parent.Name)
	m.cascadeFail(context.Background(), stopped, StateFailed, parent.Name)

	got1, err := store.ByID(context.Background(), alreadyDone.ID)
	require.NoError(t, err)
	assert.Equal(t, StateDone, got1.State, "a terminal task must not be overwritten by cascade")

	got2, err := store.ByID(context.Background(), stopped.ID)
	require.NoError(t, err)
	assert.Equal(t, StateStopped, got2.State, "a stopped task must not be overwritten by cascade")
}

func TestManager_ProcessPendingTasks_CascadesAllSiblingsOfFailedParentInOneTick(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now().Add(-time.Hour)
	parent := store.seedTask("root", nil, base, StateFailed)
	c1 := store.seedTask("noop", &parent.ID, base.Add(time.Second), StateEnqueued)
	c2 := store.seedTask("noop", &parent.ID, base.Add(2*time.Second), StateEnqueued)
	c3 := store.seedTask("noop", &parent.ID, base.Add(3*time.Second), StateEnqueued)

	// The sibling gate only applies to done parents; a failed parent is
	// re-examined for every sibling so all of them cascade in this pass.
	m.processPendingTasks(context.Background())

	for _, c := range []*Task{c1, c2, c3} {
		got, err := store.ByID(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, StateFailed, got.State, "sibling %d must cascade in the same tick", c.ID)
		assert.Equal(t, "ParentTaskFailed", got.ExceptionName)
	}
}

func TestManager_ProcessPendingTasks_CascadesAllSiblingsOfCancelledParentInOneTick(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now().Add(-time.Hour)
	parent := store.seedTask("root", nil, base, StateCancelled)
	c1 := store.seedTask("noop", &parent.ID, base.Add(time.Second), StateEnqueued)
	c2 := store.seedTask("noop", &parent.ID, base.Add(2*time.Second), StateEnqueued)

	m.processPendingTasks(context.Background())

	for _, c := range []*Task{c1, c2} {
		got, err := store.ByID(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, StateCancelled, got.State, "sibling %d must cascade in the same tick", c.ID)
		assert.Empty(t, got.ExceptionName)
	}
}

func TestManager_ProcessPendingTasks_CascadesWhenParentAlreadyTerminal(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 10)

	base := time.Now().Add(-time.Hour)
	parent := store.seedTask("root", nil, base, StateFailed)
	child := store.seedTask("noop", &parent.ID, base.Add(time.Second), StateEnqueued)

	m.processPendingTasks(context.Background())

	got, err := store.ByID(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, got.State)
	assert.Equal(t, "ParentTaskFailed", got.ExceptionName)
}

func TestManager_MaterializeScheduled_InsertsExactlyOneRowWhenNoneExists(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 4)

	var invoked int
	def := ScheduledDefinition{Name: "daily-rollup-insert-test", CronExpr: "0 3 * * *", Handler: func(ctx context.Context) error {
		invoked++
		return nil
	}, Enabled: true}
	require.NoError(t, m.scheduled.Register(def))
	// AddTaskAsync validates against the process-wide registry, mirroring
	// what NewManager does for every scheduled definition it registers,
	// so the handler must land there too.
	Register(def.Name, m.scheduled.All()[0].asTaskFunc())

	m.materializeScheduled(context.Background(), m.scheduled.All()[0])

	n, err := store.CountByNameInStates(context.Background(), def.Name, []State{StateEnqueued, StateWaiting, StateDoing})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestManager_MaterializeScheduled_SkipsWhenAlreadyPending(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 4)

	def := ScheduledDefinition{Name: "daily-rollup-skip-test", CronExpr: "0 3 * * *", Handler: func(ctx context.Context) error { return nil }, Enabled: true}
	require.NoError(t, m.scheduled.Register(def))
	Register(def.Name, m.scheduled.All()[0].asTaskFunc())

	store.seedTask(def.Name, nil, time.Now(), StateDoing)

	m.materializeScheduled(context.Background(), m.scheduled.All()[0])

	n, err := store.CountByNameInStates(context.Background(), def.Name, []State{StateEnqueued, StateWaiting, StateDoing})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a pending occurrence must suppress materializing another")
}

func TestManager_RunScheduled_SkipsDisabledAndNonMatchingCron(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store, 4)
	m.scheduled = NewScheduledRegistry(nil, []string{"disabled-task"})

	require.NoError(t, m.scheduled.Register(ScheduledDefinition{
		Name: "disabled-task", CronExpr: "0 3 * * *", Enabled: true,
		Handler: func(ctx context.Context) error { return nil },
	}))
	require.NoError(t, m.scheduled.Register(ScheduledDefinition{
		Name: "wrong-minute", CronExpr: "0 4 * * *", Enabled: true,
		Handler: func(ctx context.Context) error { return nil },
	}))
	for _, d := range m.scheduled.All() {
		m.registry.register(d.Name, d.asTaskFunc())
	}

	fireTime := time.Date(2026, 7, 31, 3, 0, 0, 0, time.UTC)
	m.runScheduled(context.Background(), fireTime)

	require.Eventually(t, func() bool { return true }, 50*time.Millisecond, 10*time.Millisecond)

	n, err := store.CountByNameInStates(context.Background(), "disabled-task", []State{StateEnqueued, StateWaiting, StateDoing})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n2, err := store.CountByNameInStates(context.Background(), "wrong-minute", []State{StateEnqueued, StateWaiting, StateDoing})
	require.NoError(t, err)
	assert.Equal(t, 0, n2)
}
