// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-pass-vault agent handlers, the command dispatcher and the TUI.
//
// All Msg* constants are human-readable message strings that are written into
// command responses, sync notifications or log entries to describe the
// outcome of an operation. Keeping them in one place ensures consistent
// wording across every surface.
package app

const (
	// MsgInvalidPassword is shown for every failed unlock: a wrong password
	// and a corrupted vault look the same to the cipher.
	MsgInvalidPassword = "Invalid password."

	// MsgNoLocalVault is returned when an offline unlock is attempted before
	// the first successful sync.
	MsgNoLocalVault = "Offline, and no local data found."

	// MsgNotLoggedIn is returned when an operation needs a bearer token and
	// none is stored.
	MsgNotLoggedIn = "Not logged in."

	// MsgVaultLocked is returned by queries that need an unlocked vault.
	MsgVaultLocked = "Vault is locked."

	// MsgNoMfaMatch is returned when no credential for the destination has
	// MFA configured.
	MsgNoMfaMatch = "No matching credential with MFA found."

	// MsgNotReady is returned by a sync that cannot start because the vault
	// is locked or no token is stored.
	MsgNotReady = "Sync needs an unlocked vault and a login."

	// MsgSyncFailed is the prefix of the sync failure notification.
	MsgSyncFailed = "Sync failed"

	// MsgSyncComplete is the sync success notification.
	MsgSyncComplete = "Sync complete."

	// MsgUpstreamError is returned when the credential service rejected an
	// authenticated call.
	MsgUpstreamError = "The credential service returned an error."

	// MsgNetworkUnavailable is returned when the credential service cannot
	// be reached.
	MsgNetworkUnavailable = "The credential service is unreachable."

	// MsgTooManyAttempts is returned when unlock attempts are throttled.
	MsgTooManyAttempts = "Too many unlock attempts, try again later."

	// MsgInvalidAPIURL is returned when the user supplies an unusable API
	// base URL.
	MsgInvalidAPIURL = "Invalid API URL."

	// MsgInvalidDataProvided is returned when a command payload cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "Invalid data provided."

	// MsgUnknownCommand is returned for a message name with no handler.
	MsgUnknownCommand = "Unknown command."

	// MsgInternalError is returned for failures the caller cannot resolve,
	// such as local storage errors.
	MsgInternalError = "Internal error."
)

// Messages the credential service puts into error bodies.
const (
	// MsgRemoteMFANotSet is returned by the TOTP endpoint for a credential
	// without an MFA secret.
	MsgRemoteMFANotSet = "MFA secret not set for this credential"

	// MsgRemoteNoActiveAccount is returned by the token endpoint for a
	// wrong username or password.
	MsgRemoteNoActiveAccount = "No active account found with the given credentials"

	// MsgRemoteTokenNotValid is returned when the bearer token is expired
	// or was revoked.
	MsgRemoteTokenNotValid = "Given token not valid for any token type"
)
