// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// LoginMode tells the caller which path a successful login took.
// The set is closed: callers are expected to switch over every value.
type LoginMode int

const (
	// LoginModeOnline means the remote service accepted the credentials and
	// the local replica was refreshed from it.
	LoginModeOnline LoginMode = iota + 1
	// LoginModeOffline means the vault was opened from the local replica only.
	LoginModeOffline
)

func (m LoginMode) String() string {
	switch m {
	case LoginModeOnline:
		return "online"
	case LoginModeOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m LoginMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LoginMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "online":
		*m = LoginModeOnline
	case "offline":
		*m = LoginModeOffline
	default:
		return fmt.Errorf("unknown login mode %q", text)
	}
	return nil
}

// SessionState is the state of the session state machine.
type SessionState int

const (
	SessionLocked SessionState = iota
	SessionUnlocking
	SessionUnlocked
)

func (s SessionState) String() string {
	switch s {
	case SessionLocked:
		return "LOCKED"
	case SessionUnlocking:
		return "UNLOCKING"
	case SessionUnlocked:
		return "UNLOCKED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SessionState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LOCKED":
		*s = SessionLocked
	case "UNLOCKING":
		*s = SessionUnlocking
	case "UNLOCKED":
		*s = SessionUnlocked
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

// SessionStatus is a point-in-time snapshot of the session for UIs.
type SessionStatus struct {
	State       SessionState `json:"state"`
	LoggedIn    bool         `json:"is_logged_in"`
	Unlocked    bool         `json:"is_unlocked"`
	HasVault    bool         `json:"has_vault"`
	Credentials int          `json:"credentials"`
	APIURL      string       `json:"api_url"`

	TokenExpiresAt *time.Time  `json:"token_expires_at,omitempty"`
	LastSync       *SyncStatus `json:"last_sync,omitempty"`
}

// SyncStatus is the payload of the "sync status changed" notification.
type SyncStatus struct {
	Status string    `json:"status"`
	Error  bool      `json:"error"`
	At     time.Time `json:"at"`
}
