// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-pass-vault binaries. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds vault-level settings: key derivation cost, unlock
	// throttling and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the local durable key-value store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the local agent HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote credential service settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds vault-level configuration values.
type App struct {
	// KDFTime is the Argon2id time cost (iterations) for new vaults.
	// Env: APP_KDF_TIME
	KDFTime uint32 `env:"KDF_TIME"`

	// KDFMemory is the Argon2id memory cost in KiB for new vaults.
	// Env: APP_KDF_MEMORY
	KDFMemory uint32 `env:"KDF_MEMORY"`

	// KDFThreads is the Argon2id parallelism for new vaults.
	// Env: APP_KDF_THREADS
	KDFThreads uint8 `env:"KDF_THREADS"`

	// UnlockAttemptsPerMinute limits offline unlock attempts.
	// A negative value disables the limit.
	// Env: APP_UNLOCK_ATTEMPTS_PER_MINUTE
	UnlockAttemptsPerMinute int `env:"UNLOCK_ATTEMPTS_PER_MINUTE"`

	// UnlockBurst is the number of unlock attempts allowed back to back.
	// Env: APP_UNLOCK_BURST
	UnlockBurst int `env:"UNLOCK_BURST"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the local storage backend.
type Storage struct {
	// DB holds the key-value database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds the local key-value database settings.
type DB struct {
	// Driver selects the backend: "sqlite" or "bolt".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the database file path (e.g. "vault.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the local agent.
type Server struct {
	// HTTPAddress is the TCP address the agent listens on, in "host:port"
	// format. It should stay on loopback.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound agent request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds configuration of the remote credential service client.
type Adapter struct {
	// HTTPAddress is the base URL of the credential API
	// (e.g. "http://127.0.0.1:8000/api").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the timeout of every outbound request. A timed out
	// request is treated as an unreachable server.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background vault sync.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources. For every field the first
// source holding a non-zero value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
