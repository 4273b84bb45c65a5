// Package lifecycle tracks whether the process is draining for shutdown.
package lifecycle

import "sync/atomic"

var draining atomic.Bool

// SetShuttingDown marks the process as draining. Set on SIGTERM/SIGINT;
// the health endpoint reports shutting-down with a 503 while the flag holds.
func SetShuttingDown(v bool) {
	draining.Store(v)
}

// IsShuttingDown reports whether new traffic should be refused.
func IsShuttingDown() bool {
	return draining.Load()
}
