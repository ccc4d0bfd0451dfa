package queue

import (
	"context"
	"encoding/json"
	"errors"
)

var errBoom = errors.New("boom")

// Package-level task names registered once for use across this package's
// tests, mirroring how Register/RegisterTyped are called at init time in
// real callers.
func init() {
	Register("noop", func(ctx context.Context, _ json.RawMessage) error { return nil })
	Register("boom", func(ctx context.Context, _ json.RawMessage) error { return errBoom })
	RegisterTyped("typed-echo", func(ctx context.Context, p echoPayload) error { return nil })
}

type echoPayload struct {
	Value string `json:"value"`
}
