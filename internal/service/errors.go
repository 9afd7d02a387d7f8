package service

import "errors"

// Session and query errors. Every error returned by the service layer
// matches one of these with [errors.Is]; the cause is wrapped when useful
// for diagnostics.
var (
	// ErrNetworkUnavailable means the credential service could not be
	// reached or timed out. Login falls back to the local vault on it.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrInvalidCredentials means a wrong password or a corrupted vault.
	// The two are indistinguishable; the session is left locked.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoLocalVault means an offline unlock was attempted before any
	// successful sync.
	ErrNoLocalVault = errors.New("no local vault")

	// ErrNotAuthenticated means the operation needs a bearer token and none
	// is stored.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSyncFailed means a sync could not complete. Prior vault and cache
	// are untouched.
	ErrSyncFailed = errors.New("sync failed")

	// ErrUpstreamError means the credential service failed an
	// authenticated call.
	ErrUpstreamError = errors.New("upstream error")

	// ErrNotReady means sync was requested without a token or while locked.
	ErrNotReady = errors.New("sync not ready")

	// ErrVaultLocked is returned by queries that need an unlocked vault.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrNoMfaMatch means no credential for the destination has MFA.
	ErrNoMfaMatch = errors.New("no matching credential with mfa")

	// ErrTooManyAttempts means unlock attempts are being throttled.
	ErrTooManyAttempts = errors.New("too many unlock attempts")

	// ErrInvalidAPIURL means the API base URL cannot be used.
	ErrInvalidAPIURL = errors.New("invalid api url")

	// ErrInvalidInput means a command payload failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCommand is returned by ParseCommand for an unknown name.
	ErrUnknownCommand = errors.New("unknown command")
)
