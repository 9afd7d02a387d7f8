// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/models"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
	// SaltSize is the Argon2id salt length in bytes.
	SaltSize = 16
)

// engine is the private implementation of [Engine].
type engine struct {
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewEngine constructs an [Engine] whose new vaults use the Argon2id cost
// from cfg. Zero fields fall back to time 3, 64 MiB and 4 threads.
func NewEngine(cfg config.ClientKDF) Engine {
	e := &engine{
		argonTime:    cfg.Time,
		argonMemory:  cfg.Memory,
		argonThreads: cfg.Threads,
	}
	if e.argonTime == 0 {
		e.argonTime = 3
	}
	if e.argonMemory == 0 {
		e.argonMemory = 64 * 1024 // 64 MiB
	}
	if e.argonThreads == 0 {
		e.argonThreads = 4
	}

	return e
}

// NewKDFParams implements [Engine].
func (e *engine) NewKDFParams() (models.KDFParams, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return models.KDFParams{}, fmt.Errorf("generate salt: %w", err)
	}

	return models.KDFParams{
		Algorithm: models.KDFArgon2id,
		Salt:      salt,
		Time:      e.argonTime,
		Memory:    e.argonMemory,
		Threads:   e.argonThreads,
	}, nil
}

// DeriveKey implements [Engine].
func (e *engine) DeriveKey(password string, params models.KDFParams) (*SessionKey, error) {
	switch {
	case params.IsLegacy():
		sum := sha256.Sum256([]byte(password))
		return newSessionKey(sum[:]), nil
	case params.Algorithm == models.KDFArgon2id:
		if len(params.Salt) == 0 || params.Time == 0 || params.Threads == 0 {
			return nil, ErrInvalidKDFParams
		}
		raw := argon2.IDKey([]byte(password), params.Salt, params.Time, params.Memory, params.Threads, KeySize)
		return newSessionKey(raw), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKDF, params.Algorithm)
	}
}

// Encrypt implements [Engine].
func (e *engine) Encrypt(key *SessionKey, plaintext []byte) ([]byte, []byte, error) {
	var iv, ciphertext []byte
	err := key.use(func(raw []byte) error {
		gcm, err := newGCM(raw)
		if err != nil {
			return err
		}

		iv = make([]byte, NonceSize)
		if _, err = io.ReadFull(rand.Reader, iv); err != nil {
			return fmt.Errorf("generate nonce: %w", err)
		}

		ciphertext = gcm.Seal(nil, iv, plaintext, nil)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return iv, ciphertext, nil
}

// Decrypt implements [Engine].
func (e *engine) Decrypt(key *SessionKey, iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != NonceSize {
		return nil, ErrAuthentication
	}

	var plaintext []byte
	err := key.use(func(raw []byte) error {
		gcm, err := newGCM(raw)
		if err != nil {
			return err
		}

		plaintext, err = gcm.Open(nil, iv, ciphertext, nil)
		if err != nil {
			return ErrAuthentication
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
