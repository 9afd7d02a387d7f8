// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// VaultRecordVersion is the current version of the persisted vault record.
const VaultRecordVersion = 1

// VaultPayloadSchema is the current version of the plaintext vault document
// that gets encrypted into [EncryptedVault.Ciphertext].
const VaultPayloadSchema = 1

// Key derivation algorithms recorded in [KDFParams.Algorithm].
const (
	// KDFLegacySHA256 is a single unsalted SHA-256 over the password.
	// Records written before KDF parameters were stored use it implicitly.
	KDFLegacySHA256 = "sha256"
	// KDFArgon2id is Argon2id with a per-vault random salt.
	KDFArgon2id = "argon2id"
)

// KDFParams describes how the vault key was derived from the master
// password. The zero value means [KDFLegacySHA256].
type KDFParams struct {
	Algorithm string `json:"algorithm"`
	Salt      Bytes  `json:"salt,omitempty"`
	Time      uint32 `json:"time,omitempty"`
	// Memory is the Argon2 memory cost in KiB.
	Memory  uint32 `json:"memory,omitempty"`
	Threads uint8  `json:"threads,omitempty"`
}

// IsLegacy reports whether the params describe the unsalted SHA-256 KDF.
func (p KDFParams) IsLegacy() bool {
	return p.Algorithm == "" || p.Algorithm == KDFLegacySHA256
}

// EncryptedVault is the only durable representation of the credential set.
// It is overwritten wholesale on every sync.
type EncryptedVault struct {
	Version int `json:"version,omitempty"`

	// KDF is nil for records created by the legacy SHA-256 scheme.
	KDF *KDFParams `json:"kdf,omitempty"`

	// IV is the 12-byte AES-GCM nonce.
	IV Bytes `json:"iv"`

	// Ciphertext is the sealed [VaultPayload] including the GCM tag.
	Ciphertext Bytes `json:"data"`
}

// KDFParams returns the key derivation parameters for the record, falling
// back to the legacy scheme when none were stored.
func (v EncryptedVault) KDFParams() KDFParams {
	if v.KDF == nil {
		return KDFParams{Algorithm: KDFLegacySHA256}
	}
	return *v.KDF
}

// VaultPayload is the plaintext document sealed inside the vault.
type VaultPayload struct {
	Schema      int          `json:"schema"`
	Credentials []Credential `json:"credentials"`
}

// Bytes is a byte slice that marshals to base64 and unmarshals from either
// a base64 string or a JSON array of numbers in 0..255.
type Bytes []byte

// MarshalJSON implements json.Marshaler.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("decode base64 bytes: %w", err)
		}
		*b = decoded
		return nil
	}

	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("bytes must be a base64 string or a number array: %w", err)
	}

	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("byte value %d out of range at index %d", n, i)
		}
		out[i] = byte(n)
	}
	*b = out

	return nil
}
