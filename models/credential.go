package models

import "strings"

// Credential is a single vault entry as served by the remote credential
// service. Plaintext credentials live only in the unlocked in-memory cache.
type Credential struct {
	// ID is the server-side identity of the credential.
	ID int64 `json:"id"`

	// WebsiteURL is the destination the credential belongs to. It may be a
	// full URL, a bare host or an arbitrary prefix typed by the user.
	WebsiteURL string `json:"website_url"`

	Username string `json:"username"`
	Password string `json:"password"`

	// HasMFA reports whether the server holds a TOTP secret for this entry.
	HasMFA bool `json:"has_mfa"`

	// MFASecret is only present when the server chose to return it.
	// The credential service normally never sends it back.
	MFASecret *string `json:"mfa_secret,omitempty"`
}

// MatchesQuery reports whether q is a case-insensitive substring of the
// website URL or the username. An empty query matches everything.
func (c Credential) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}

	return strings.Contains(strings.ToLower(c.WebsiteURL), q) ||
		strings.Contains(strings.ToLower(c.Username), q)
}

// NewCredential is the payload for creating a credential on the remote
// service.
type NewCredential struct {
	WebsiteURL string `json:"website_url"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	// MFASecret is the base32 TOTP seed. Empty means no MFA.
	MFASecret string `json:"mfa_secret,omitempty"`
}

// OneTimeCode is a TOTP value fetched fresh from the remote service.
type OneTimeCode struct {
	Code string `json:"totp"`
}
