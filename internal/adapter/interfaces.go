// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for talking to the remote
// credential service.
//
// The primary abstraction is [RemoteClient], which decouples the session
// layer from HTTP. The package ships an HTTP/JSON implementation
// ([NewHTTPRemoteClient]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401). Every transport-level
// failure, including timeouts, is reported as [ErrUnreachable].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient is the remote source of truth for the credential set.
// Implementations must be safe for concurrent use.
type RemoteClient interface {
	// ObtainToken exchanges username and password for a bearer token via
	// POST /token/. A rejected login yields [ErrUnauthorized] or
	// [ErrBadRequest] (wrapped).
	ObtainToken(ctx context.Context, username, password string) (models.AuthToken, error)

	// FetchCredentials downloads the full credential set via
	// GET /credentials/. The order of the returned slice is the server
	// order.
	FetchCredentials(ctx context.Context, token models.AuthToken) ([]models.Credential, error)

	// FetchOneTimeCode asks the server for the current TOTP of the
	// credential with the given id via GET /credentials/{id}/totp/.
	FetchOneTimeCode(ctx context.Context, token models.AuthToken, credentialID int64) (models.OneTimeCode, error)

	// CreateCredential stores a new credential via POST /credentials/ and
	// returns the server representation.
	CreateCredential(ctx context.Context, token models.AuthToken, credential models.NewCredential) (models.Credential, error)

	// SetBaseURL validates, normalises and applies a new API base URL.
	// Returns [ErrInvalidBaseURL] (wrapped) for unusable input.
	SetBaseURL(raw string) error

	// BaseURL returns the normalised API base URL currently in use.
	BaseURL() string
}
