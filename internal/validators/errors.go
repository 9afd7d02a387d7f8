package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidCredentialID   = errors.New("invalid credential id")
	ErrDuplicateCredentialID = errors.New("duplicate credential id")
	ErrEmptyWebsiteURL       = errors.New("website url is required")
	ErrEmptyUsername         = errors.New("username is required")
	ErrEmptyPassword         = errors.New("password is required")
	ErrInvalidMFASecret      = errors.New("mfa secret is not valid base32")
)
