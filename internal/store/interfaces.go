package store

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/client_store_mock.go -package=mock

// KeyValueStore is the durable key-value collaborator of the vault. Values
// survive process restarts. The store itself is not encrypted: the vault
// value is already ciphertext.
type KeyValueStore interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value wholesale.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error

	// Close releases the underlying database.
	Close() error
}

// VaultStorage exposes the records the session persists: the encrypted
// vault, the bearer token and the user-configured API base URL.
type VaultStorage interface {
	// LoadVault returns the encrypted vault or ErrVaultNotFound.
	// A record that cannot be decoded yields ErrVaultCorrupted.
	LoadVault(ctx context.Context) (models.EncryptedVault, error)

	// SaveVault replaces the encrypted vault wholesale.
	SaveVault(ctx context.Context, vault models.EncryptedVault) error

	// HasVault reports whether an encrypted vault record exists.
	HasVault(ctx context.Context) (bool, error)

	// LoadToken returns the persisted bearer token or ErrTokenNotFound.
	LoadToken(ctx context.Context) (models.AuthToken, error)

	// SaveToken persists the bearer token in plaintext.
	SaveToken(ctx context.Context, token models.AuthToken) error

	// RemoveToken deletes the bearer token. A missing token is not an error.
	RemoveToken(ctx context.Context) error

	// LoadAPIURL returns the saved API base URL or ErrAPIURLNotFound.
	LoadAPIURL(ctx context.Context) (string, error)

	// SaveAPIURL persists the API base URL.
	SaveAPIURL(ctx context.Context, apiURL string) error
}
