// Package workers manages the lifecycle of background workers.
// A Workers aggregate starts and stops a set of workers as one unit.
package workers

import "context"

// Worker is a background task with an explicit lifecycle.
//
// Start must not block: implementations spawn their own goroutines and
// keep running until ctx is cancelled or Stop is called. Stop blocks
// until the worker has fully exited and is safe to call more than once.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
