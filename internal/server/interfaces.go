package server

import "context"

// Server defines the lifecycle contract for the agent transport.
type Server interface {
	// RunServer serves requests until ctx is cancelled or SIGINT, SIGTERM
	// or SIGQUIT arrives, then shuts down gracefully.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown(ctx context.Context) error
}
