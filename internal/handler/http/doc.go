// Package http implements the local agent API.
//
// Browser content scripts and other local UIs talk to the session through a
// single message endpoint that mirrors the extension messaging protocol:
// every request names a message and carries its payload inline, every
// response is a [models.Response]. Request tracing and access logging are
// handled here before requests reach the service layer.
package http
