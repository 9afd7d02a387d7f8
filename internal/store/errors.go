package store

import "errors"

// Sentinel errors returned by the stores to signal well-known conditions.
// Callers should use [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by [KeyValueStore.Get] when nothing is
	// stored under the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrVaultNotFound is returned when no encrypted vault has been written
	// yet, i.e. the installation never completed a sync.
	ErrVaultNotFound = errors.New("encrypted vault not found")

	// ErrVaultCorrupted is returned when the stored vault record is not a
	// valid vault document.
	ErrVaultCorrupted = errors.New("encrypted vault record is corrupted")

	// ErrTokenNotFound is returned when no bearer token is persisted.
	ErrTokenNotFound = errors.New("auth token not found")

	// ErrAPIURLNotFound is returned when the user never saved an API URL.
	ErrAPIURLNotFound = errors.New("api url not found")

	// ErrUnsupportedDriver is returned for an unknown storage driver name.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// Low-level database operation errors. These are wrapped by the SQLite
// store when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")
)
