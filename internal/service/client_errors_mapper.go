// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pass-vault/internal/adapter"
	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
)

// mapRemoteError translates an adapter error on an authenticated call into
// the service taxonomy. The adapter error stays in the chain.
func mapRemoteError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrUnreachable):
		return fmt.Errorf("%w: %w: %w", ErrUpstreamError, ErrNetworkUnavailable, err)
	case errors.Is(err, adapter.ErrUnauthorized) && strings.Contains(err.Error(), app.MsgRemoteTokenNotValid):
		return fmt.Errorf("%w: token rejected: %w", ErrUpstreamError, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstreamError, err)
	}
}

// mapLoginError classifies why the online login path failed. It is only
// used for logging: every online failure falls back to the local vault.
func mapLoginError(err error) error {
	switch {
	case errors.Is(err, adapter.ErrUnreachable):
		return fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	default:
		return err
	}
}

func syncFailure(step string, err error) error {
	if errors.Is(err, adapter.ErrUnreachable) {
		return fmt.Errorf("%w: %s: %w: %w", ErrSyncFailed, step, ErrNetworkUnavailable, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrSyncFailed, step, err)
}

func validationFailure(err error) error {
	if errors.Is(err, validators.ErrUnsupportedType) || errors.Is(err, validators.ErrUnknownField) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// ErrorCode returns the machine-readable kind of err for command responses.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrNoLocalVault):
		return "no_local_vault"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrSyncFailed):
		return "sync_failed"
	case errors.Is(err, ErrUpstreamError):
		return "upstream_error"
	case errors.Is(err, ErrNetworkUnavailable):
		return "network_unavailable"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrVaultLocked):
		return "vault_locked"
	case errors.Is(err, ErrNoMfaMatch):
		return "no_mfa_match"
	case errors.Is(err, ErrTooManyAttempts):
		return "too_many_attempts"
	case errors.Is(err, ErrInvalidAPIURL):
		return "invalid_api_url"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	default:
		return "internal"
	}
}

// UserMessage returns the text shown to the user for err. It never leaks
// whether a failed unlock was a wrong password or a damaged vault.
func UserMessage(err error) string {
	switch ErrorCode(err) {
	case "":
		return ""
	case "invalid_credentials":
		return app.MsgInvalidPassword
	case "no_local_vault":
		return app.MsgNoLocalVault
	case "not_authenticated":
		return app.MsgNotLoggedIn
	case "sync_failed":
		if errors.Is(err, ErrNetworkUnavailable) {
			return app.MsgSyncFailed + ": " + app.MsgNetworkUnavailable
		}
		return app.MsgSyncFailed + "."
	case "upstream_error":
		if errors.Is(err, ErrNetworkUnavailable) {
			return app.MsgNetworkUnavailable
		}
		if strings.Contains(err.Error(), app.MsgRemoteMFANotSet) {
			return app.MsgRemoteMFANotSet + "."
		}
		return app.MsgUpstreamError
	case "network_unavailable":
		return app.MsgNetworkUnavailable
	case "not_ready":
		return app.MsgNotReady
	case "vault_locked":
		return app.MsgVaultLocked
	case "no_mfa_match":
		return app.MsgNoMfaMatch
	case "too_many_attempts":
		return app.MsgTooManyAttempts
	case "invalid_api_url":
		return app.MsgInvalidAPIURL
	case "invalid_input":
		return app.MsgInvalidDataProvided
	case "unknown_command":
		return app.MsgUnknownCommand
	default:
		return app.MsgInternalError
	}
}
