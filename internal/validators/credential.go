package validators

import (
	"context"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the server-side credential identifier.
	FieldID = "id"

	// FieldWebsiteURL targets the destination the credential belongs to.
	FieldWebsiteURL = "website_url"

	FieldUsername  = "username"
	FieldPassword  = "password"
	FieldMFASecret = "mfa_secret"

	// FieldCredentials targets a whole credential set: every element is
	// checked and ids must be unique.
	FieldCredentials = "credentials"
)

// CredentialValidator checks credentials coming from the remote service and
// new credentials typed by the user.
type CredentialValidator struct {
}

func NewCredentialValidator() Validator {
	return &CredentialValidator{}
}

func (v *CredentialValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credential:
		return v.validateCredential(ctx, value, fields...)
	case *models.Credential:
		return v.validateCredential(ctx, *value, fields...)

	case []models.Credential:
		return v.validateCredentialSet(ctx, value, fields...)

	case models.NewCredential:
		return v.validateNewCredential(ctx, value, fields...)
	case *models.NewCredential:
		return v.validateNewCredential(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *CredentialValidator) validateCredential(_ context.Context, credential models.Credential, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if credential.ID <= 0 {
				return ErrInvalidCredentialID
			}
		case FieldWebsiteURL:
			if strings.TrimSpace(credential.WebsiteURL) == "" {
				return ErrEmptyWebsiteURL
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateCredentialSet accepts the remote set as a whole or not at all.
func (v *CredentialValidator) validateCredentialSet(ctx context.Context, credentials []models.Credential, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCredentials}
	}

	for _, f := range fields {
		switch f {
		case FieldCredentials:
			seen := make(map[int64]struct{}, len(credentials))
			for i, credential := range credentials {
				if err := v.validateCredential(ctx, credential, FieldID); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
				if _, dup := seen[credential.ID]; dup {
					return fmt.Errorf("validation error at index %d: %w: %d", i, ErrDuplicateCredentialID, credential.ID)
				}
				seen[credential.ID] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialValidator) validateNewCredential(_ context.Context, credential models.NewCredential, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldWebsiteURL, FieldUsername, FieldPassword, FieldMFASecret}
	}

	for _, f := range fields {
		switch f {
		case FieldWebsiteURL:
			if strings.TrimSpace(credential.WebsiteURL) == "" {
				return ErrEmptyWebsiteURL
			}
		case FieldUsername:
			if strings.TrimSpace(credential.Username) == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if credential.Password == "" {
				return ErrEmptyPassword
			}
		case FieldMFASecret:
			if !isBase32Secret(credential.MFASecret) {
				return ErrInvalidMFASecret
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// isBase32Secret reports whether s is empty or a decodable TOTP seed.
// Spaces and lower case are tolerated, as authenticator apps display them.
func isBase32Secret(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return true
	}
	_, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(s, "="))
	return err == nil
}
