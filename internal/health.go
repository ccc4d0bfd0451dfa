package internal

import "github.com/ardentq/qtask/pkg/health"

// CheckFunc is the standard health check function signature, shared with
// the pkg/health handlers so healthcheck closures from the db, redis, and
// queue packages compose directly.
type CheckFunc = health.CheckFunc
