package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds helpers that wait on stream activity.
const DefaultTimeout = 5 * time.Second

// Context returns a context canceled at test cleanup and bounded by
// timeout. The test binary's own deadline wins when it is closer,
// keeping a second of slack for cleanup to run.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.Now().Add(timeout)
	if td, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if d, ok := td.Deadline(); ok {
			if adjusted := d.Add(-time.Second); adjusted.Before(deadline) {
				deadline = adjusted
			}
		}
	}
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	t.Cleanup(cancel)
	return ctx
}
