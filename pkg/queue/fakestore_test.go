package queue

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// fakeStore is an in-memory Store used across this package's tests so
// worker/pool/manager/cascade logic can be verified without a live
// Postgres, testing pure logic against fakes rather than a database.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	tasks    map[int64]*Task
	failNext map[int64]int // remaining UpdateState failures to inject, keyed by task id
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[int64]*Task), failNext: make(map[int64]int)}
}

// injectTransientFailures makes the next n calls to UpdateState(id, ...)
// return ErrTransient before succeeding on the following call.
func (s *fakeStore) injectTransientFailures(id int64, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[id] = n
}

func cloneTask(t *Task) *Task {
	cp := *t
	return &cp
}

// seedTask inserts a task directly with an explicit state and enqueue time,
// bypassing the normal descriptor-driven insert path, so ordering-sensitive
// tests (FIFO fairness, sibling gate) can control timestamps precisely.
func (s *fakeStore) seedTask(name string, parentID *int64, enqueuedAt time.Time, state State) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &Task{
		ID: s.nextID, Name: name, FunctionName: name, State: state,
		Args: json.RawMessage(`[]`), Kwargs: json.RawMessage(`{}`), Context: json.RawMessage(`{}`),
		ParentTaskID: parentID, DateEnqueued: &enqueuedAt, CreatedAt: enqueuedAt, UpdatedAt: enqueuedAt,
	}
	s.tasks[t.ID] = t
	return cloneTask(t)
}

func (s *fakeStore) Create(ctx context.Context, d Descriptor) (*Task, error) {
	return s.insert(ctx, d)
}

func (s *fakeStore) CreateTx(ctx context.Context, _ pgx.Tx, d Descriptor) (*Task, error) {
	return s.insert(ctx, d)
}

func (s *fakeStore) insert(ctx context.Context, d Descriptor) (*Task, error) {
	name := d.Name
	if name == "" {
		name = d.TaskName
	}

	var parentID *int64
	switch {
	case d.Parent != nil:
		id, err := d.Parent.ID(ctx)
		if err != nil {
			return nil, err
		}
		parentID = &id
	case d.ParentID != nil:
		parentID = d.ParentID
	}

	args := d.Args
	if len(args) == 0 {
		args = json.RawMessage(`[]`)
	}
	taskCtx := json.RawMessage(`{}`)
	if d.Context != nil {
		b, err := json.Marshal(d.Context)
		if err != nil {
			return nil, err
		}
		taskCtx = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now()
	t := &Task{
		ID:           s.nextID,
		Name:         name,
		FunctionName: d.TaskName,
		State:        StateEnqueued,
		Args:         args,
		Kwargs:       json.RawMessage(`{}`),
		Context:      taskCtx,
		ParentTaskID: parentID,
		AutoRemove:   d.AutoRemove,
		DateEnqueued: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.tasks[t.ID] = t
	return cloneTask(t), nil
}

func (s *fakeStore) ByID(ctx context.Context, id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTask(t), nil
}

func (s *fakeStore) PendingCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.State == StateEnqueued {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) EnqueuedOrdered(ctx context.Context) ([]*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Task
	for _, t := range s.tasks {
		if t.State == StateEnqueued {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateEnqueued.Before(*out[j].DateEnqueued) })
	return out, nil
}

func (s *fakeStore) UpdateState(ctx context.Context, id int64, u StateUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.failNext[id]; n > 0 {
		s.failNext[id] = n - 1
		return ErrTransient
	}

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	t.State = u.State
	t.ExceptionName = u.ExceptionName
	t.ExceptionMsg = u.ExceptionMsg
	t.ExceptionInfo = u.ExceptionInfo
	t.ExecutionTime = u.ExecutionTime
	t.UpdatedAt = now

	switch u.State {
	case StateDoing:
		t.DateStarted = &now
		t.DateStopped, t.DateDone, t.DateCancelled, t.DateFailed, t.DateEnded = nil, nil, nil, nil, nil
		t.ExceptionName, t.ExceptionMsg, t.ExceptionInfo = "", "", ""
	case StateStopped:
		t.DateStopped = &now
		t.DateEnded = &now
	case StateDone:
		t.DateDone = &now
		t.DateEnded = &now
	case StateFailed:
		t.DateFailed = &now
		t.DateEnded = &now
	case StateCancelled:
		t.DateCancelled = &now
		t.DateEnded = &now
	}
	return nil
}

func (s *fakeStore) UpdateContext(ctx context.Context, id int64, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	t.Context = raw
	return nil
}

func (s *fakeStore) CountByNameInStates(ctx context.Context, name string, states []State) (int, error) {
	set := make(map[State]bool, len(states))
	for _, st := range states {
		set[st] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.Name == name && set[t.State] {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) Clone(ctx context.Context, id int64, nameSuffix string) (*Task, error) {
	s.mu.Lock()
	src, ok := s.tasks[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	d := Descriptor{
		Name:       src.Name + nameSuffix,
		TaskName:   src.FunctionName,
		Args:       src.Args,
		Kwargs:     src.Kwargs,
		AutoRemove: src.AutoRemove,
	}
	if src.ParentTaskID != nil {
		id := *src.ParentTaskID
		d.ParentID = &id
	}
	return s.insert(ctx, d)
}

func (s *fakeStore) Children(ctx context.Context, parentID int64) ([]*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Task
	for _, t := range s.tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeWorkerStore is an in-memory WorkerStore for Manager tests.
type fakeWorkerStore struct {
	mu      sync.Mutex
	records map[string]*WorkerRecord
	nextID  int64
}

func newFakeWorkerStore() *fakeWorkerStore {
	return &fakeWorkerStore{records: make(map[string]*WorkerRecord)}
}

func (s *fakeWorkerStore) Upsert(ctx context.Context, serverName string, maxWorkers int, version string) (*WorkerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.records[serverName]
	if !ok {
		s.nextID++
		w = &WorkerRecord{ID: s.nextID, ServerName: serverName, StartedAt: time.Now()}
		s.records[serverName] = w
	}
	w.MaxWorkers = maxWorkers
	w.Version = version
	w.IsRunning = true
	w.LastHeartbeat = time.Now()
	cp := *w
	return &cp, nil
}

func (s *fakeWorkerStore) Heartbeat(ctx context.Context, serverName string, active, idle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.records[serverName]
	if !ok {
		return ErrNotFound
	}
	w.ActiveWorkers, w.IdleWorkers = active, idle
	w.LastHeartbeat = time.Now()
	return nil
}

func (s *fakeWorkerStore) MarkStopped(ctx context.Context, serverName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.records[serverName]
	if !ok {
		return ErrNotFound
	}
	w.IsRunning = false
	w.ActiveWorkers, w.IdleWorkers = 0, 0
	w.LastHeartbeat = time.Now()
	return nil
}

func (s *fakeWorkerStore) Fleet(ctx context.Context) ([]*WorkerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*WorkerRecord
	for _, w := range s.records {
		if w.Alive() {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeLogStore is an in-memory LogStore for context/worker tests.
type fakeLogStore struct {
	mu      sync.Mutex
	entries []TaskLogEntry
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{}
}

func (s *fakeLogStore) Append(ctx context.Context, taskID int64, logType, loggerName, message, info string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, TaskLogEntry{
		ID: int64(len(s.entries) + 1), TaskID: taskID, LogType: logType,
		LoggerName: loggerName, Message: message, Info: info, LoggedAt: time.Now(),
	})
	return nil
}

func (s *fakeLogStore) ByTask(ctx context.Context, taskID int64) ([]TaskLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []TaskLogEntry
	for _, e := range s.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeLogStore) all() []TaskLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TaskLogEntry(nil), s.entries...)
}
