package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pool is a bounded-capacity, non-preemptive set of workers.
// It never interrupts a busy worker; Shutdown drops idle and busy workers
// at once without waiting for busy ones to be returned.
type Pool struct {
	mu         sync.Mutex
	maxWorkers int
	idleTO     time.Duration
	newWorker  func(id string) *worker

	idle  []*worker
	busy  map[string]*worker
	timer map[string]*time.Timer

	closed bool
}

// NewPool creates a pool with the given capacity, idle timeout, and worker
// factory.
func NewPool(maxWorkers int, idleTimeout time.Duration, newWorker func(id string) *worker) *Pool {
	return &Pool{
		maxWorkers: maxWorkers,
		idleTO:     idleTimeout,
		newWorker:  newWorker,
		busy:       make(map[string]*worker),
		timer:      make(map[string]*time.Timer),
	}
}

// GetAvailableWorker returns an idle worker (cancelling its idle timeout),
// creates a new one if under capacity, or returns (nil, false) when the
// pool is saturated.
func (p *Pool) GetAvailableWorker() (*worker, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false
	}

	if n := len(p.idle); n > 0 {
		w := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.cancelTimerLocked(w.id)
		p.busy[w.id] = w
		return w, true
	}

	if len(p.busy)+len(p.idle) < p.maxWorkers {
		w := p.newWorker(uuid.NewString())
		p.busy[w.id] = w
		return w, true
	}

	return nil, false
}

// ReturnWorker moves w from busy back to idle and starts its idle-timeout
// reaper.
func (p *Pool) ReturnWorker(w *worker) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	delete(p.busy, w.id)
	p.idle = append(p.idle, w)

	id := w.id
	p.timer[id] = time.AfterFunc(p.idleTO, func() { p.reap(id) })
}

func (p *Pool) reap(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, w := range p.idle {
		if w.id == id {
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			break
		}
	}
	delete(p.timer, id)
}

func (p *Pool) cancelTimerLocked(id string) {
	if t, ok := p.timer[id]; ok {
		t.Stop()
		delete(p.timer, id)
	}
}

// Counts returns the current (active, idle) worker counts, used by the
// manager's heartbeat loop.
func (p *Pool) Counts() (active, idle int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.busy), len(p.idle)
}

// Shutdown cancels all idle timeouts and drains idle and busy collections.
// It does not interrupt in-flight task bodies; callers are expected to
// await graceful completion via their own wait group before calling this.
func (p *Pool) Shutdown(_ context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.timer {
		t.Stop()
	}
	p.timer = make(map[string]*time.Timer)
	p.idle = nil
	p.busy = make(map[string]*worker)
	p.closed = true
}
