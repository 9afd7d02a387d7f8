// Package server runs the local agent HTTP server, including signal
// handling and graceful shutdown.
package server
