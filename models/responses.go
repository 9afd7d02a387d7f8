package models

// Response is the uniform result of a dispatched command. Exactly one of the
// payload fields is set on success.
type Response struct {
	Success bool `json:"success"`

	// Error is a user-facing message. Code is the machine-readable error kind.
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`

	Mode        *LoginMode     `json:"mode,omitempty"`
	Status      *SessionStatus `json:"status,omitempty"`
	Credentials []Credential   `json:"credentials,omitempty"`
	Credential  *Credential    `json:"credential,omitempty"`
	TOTP        string         `json:"totp,omitempty"`
}
