package crypto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/models"
)

// SealVault implements [Engine].
func (e *engine) SealVault(key *SessionKey, params models.KDFParams, creds []models.Credential) (models.EncryptedVault, error) {
	if creds == nil {
		creds = []models.Credential{}
	}

	plaintext, err := json.Marshal(models.VaultPayload{
		Schema:      models.VaultPayloadSchema,
		Credentials: creds,
	})
	if err != nil {
		return models.EncryptedVault{}, fmt.Errorf("encode vault payload: %w", err)
	}

	iv, ciphertext, err := e.Encrypt(key, plaintext)
	if err != nil {
		return models.EncryptedVault{}, err
	}

	vault := models.EncryptedVault{
		Version:    models.VaultRecordVersion,
		IV:         iv,
		Ciphertext: ciphertext,
	}
	if !params.IsLegacy() {
		vault.KDF = &params
	}

	return vault, nil
}

// OpenVault implements [Engine].
func (e *engine) OpenVault(key *SessionKey, vault models.EncryptedVault) ([]models.Credential, error) {
	plaintext, err := e.Decrypt(key, vault.IV, vault.Ciphertext)
	if err != nil {
		return nil, err
	}

	return decodePayload(plaintext)
}

// decodePayload accepts the versioned document and the bare credential
// array written by older clients.
func decodePayload(plaintext []byte) ([]models.Credential, error) {
	trimmed := bytes.TrimSpace(plaintext)
	if len(trimmed) == 0 {
		return nil, ErrDecode
	}

	var creds []models.Credential
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &creds); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	case '{':
		var payload models.VaultPayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if payload.Schema > models.VaultPayloadSchema {
			return nil, fmt.Errorf("%w: unsupported schema %d", ErrDecode, payload.Schema)
		}
		creds = payload.Credentials
	default:
		return nil, ErrDecode
	}

	if creds == nil {
		creds = []models.Credential{}
	}
	return creds, nil
}
