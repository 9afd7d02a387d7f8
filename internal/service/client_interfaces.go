package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pass-vault/models"
)

// ClientSessionService is the vault session state machine. It owns the
// session key and the decrypted credential cache; both only change through
// these operations, which run one at a time.
//
// States: LOCKED (no key, no cache) -> UNLOCKING -> UNLOCKED, and back to
// LOCKED on Logout or on a failed unlock.
type ClientSessionService interface {
	// Login authenticates against the credential service and refreshes the
	// local replica from it. When the service is unreachable or rejects the
	// request, Login opens the local replica with password instead.
	//
	// Returns the path taken, or ErrNoLocalVault, ErrInvalidCredentials or
	// ErrTooManyAttempts.
	Login(ctx context.Context, username, password string) (models.LoginMode, error)

	// Unlock opens the local replica with password without contacting the
	// service, then starts a best-effort background Sync whose outcome does
	// not affect the returned result.
	Unlock(ctx context.Context, password string) error

	// Logout destroys the session key, drops the cache and removes the
	// token. The encrypted vault is kept for later offline unlocks.
	Logout(ctx context.Context)

	// Sync replaces the local replica and the cache with the remote set.
	// Returns ErrNotReady without a token or an unlocked vault and
	// ErrSyncFailed (wrapping the cause) otherwise; prior state is kept on
	// failure. Concurrent calls share one run.
	Sync(ctx context.Context) error

	// Status returns a snapshot of the session for UIs.
	Status(ctx context.Context) models.SessionStatus

	// Snapshot returns a copy of the cached credentials and whether the
	// vault is unlocked. A locked vault yields (nil, false).
	Snapshot() ([]models.Credential, bool)

	// SetAPIURL validates, persists and applies a new API base URL.
	SetAPIURL(ctx context.Context, raw string) error

	// Restore applies the persisted API base URL, if any. It is called once
	// at start-up.
	Restore(ctx context.Context) error

	// Close waits for background work and locks the session.
	Close()
}

// ClientQueryService serves read-side queries against the unlocked cache
// and the one-time-code endpoint.
type ClientQueryService interface {
	// FindByDestination returns the cached credentials matching
	// destination in cache order. It is empty, not an error, when locked.
	FindByDestination(ctx context.Context, destination string) []models.Credential

	// FindOneTimeCodeCredential returns the first matching credential with
	// MFA. Returns ErrVaultLocked when locked and ErrNoMfaMatch when none
	// matches.
	FindOneTimeCodeCredential(ctx context.Context, destination string) (models.Credential, error)

	// GetOneTimeCode fetches a fresh TOTP for the credential. Returns
	// ErrNotAuthenticated without a token and ErrUpstreamError when the
	// service call fails.
	GetOneTimeCode(ctx context.Context, credentialID int64) (models.OneTimeCode, error)

	// GetOneTimeCodeForDestination combines FindOneTimeCodeCredential and
	// GetOneTimeCode.
	GetOneTimeCodeForDestination(ctx context.Context, destination string) (models.OneTimeCode, error)

	// ListCached returns every cached credential. Empty when locked.
	ListCached(ctx context.Context) []models.Credential

	// Search returns cached credentials whose URL or username contains
	// query, case-insensitively. Empty when locked.
	Search(ctx context.Context, query string) []models.Credential

	// AddCredential creates a credential on the service and then syncs.
	// Returns ErrNotAuthenticated without a token, ErrInvalidInput for an
	// incomplete entry and ErrUpstreamError when the service call fails.
	AddCredential(ctx context.Context, credential models.NewCredential) (models.Credential, error)
}

// ClientSyncJob defines the contract for a background worker that
// periodically calls Sync.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every interval,
	// defaulting to 15 minutes if interval is zero or negative. Any
	// previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// syncer is the part of the session the sync job needs.
type syncer interface {
	Sync(ctx context.Context) error
}
