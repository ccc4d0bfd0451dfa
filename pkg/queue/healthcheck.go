package queue

import (
	"context"
	"errors"
)

// Healthcheck returns a health.CheckFunc-compatible closure (see
// pkg/health) reporting unhealthy when m has not been started or its
// durable store is unreachable.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		m.mu.Lock()
		running := m.running
		m.mu.Unlock()
		if !running {
			return ErrNotStarted
		}

		if _, err := m.store.PendingCount(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
