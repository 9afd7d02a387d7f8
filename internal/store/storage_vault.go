// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

// Keys under which the session records are persisted.
const (
	KeyToken          = "token"
	KeyEncryptedVault = "encrypted_vault"
	KeyAPIURL         = "api_url"
)

type vaultStorage struct {
	kv     KeyValueStore
	logger *logger.Logger
}

// NewVaultStorage returns a [VaultStorage] on top of kv.
func NewVaultStorage(kv KeyValueStore, logger *logger.Logger) VaultStorage {
	return &vaultStorage{kv: kv, logger: logger}
}

func (v *vaultStorage) LoadVault(ctx context.Context) (models.EncryptedVault, error) {
	raw, err := v.kv.Get(ctx, KeyEncryptedVault)
	if errors.Is(err, ErrKeyNotFound) {
		return models.EncryptedVault{}, ErrVaultNotFound
	}
	if err != nil {
		return models.EncryptedVault{}, fmt.Errorf("load vault: %w", err)
	}

	var vault models.EncryptedVault
	if err = json.Unmarshal(raw, &vault); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "vaultStorage.LoadVault").Msg("stored vault is not valid json")
		return models.EncryptedVault{}, fmt.Errorf("%w: %w", ErrVaultCorrupted, err)
	}
	if len(vault.IV) == 0 || len(vault.Ciphertext) == 0 {
		return models.EncryptedVault{}, fmt.Errorf("%w: missing iv or data", ErrVaultCorrupted)
	}

	return vault, nil
}

func (v *vaultStorage) SaveVault(ctx context.Context, vault models.EncryptedVault) error {
	raw, err := json.Marshal(vault)
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}

	if err = v.kv.Set(ctx, KeyEncryptedVault, raw); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	return nil
}

func (v *vaultStorage) HasVault(ctx context.Context) (bool, error) {
	_, err := v.kv.Get(ctx, KeyEncryptedVault)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check vault: %w", err)
	}
}

func (v *vaultStorage) LoadToken(ctx context.Context) (models.AuthToken, error) {
	raw, err := v.kv.Get(ctx, KeyToken)
	if errors.Is(err, ErrKeyNotFound) {
		return models.AuthToken{}, ErrTokenNotFound
	}
	if err != nil {
		return models.AuthToken{}, fmt.Errorf("load token: %w", err)
	}

	token := models.AuthToken{Access: string(raw)}
	if token.IsZero() {
		return models.AuthToken{}, ErrTokenNotFound
	}

	return token, nil
}

func (v *vaultStorage) SaveToken(ctx context.Context, token models.AuthToken) error {
	if err := v.kv.Set(ctx, KeyToken, []byte(token.Access)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (v *vaultStorage) RemoveToken(ctx context.Context) error {
	if err := v.kv.Remove(ctx, KeyToken); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (v *vaultStorage) LoadAPIURL(ctx context.Context) (string, error) {
	raw, err := v.kv.Get(ctx, KeyAPIURL)
	if errors.Is(err, ErrKeyNotFound) || (err == nil && len(raw) == 0) {
		return "", ErrAPIURLNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load api url: %w", err)
	}

	return string(raw), nil
}

func (v *vaultStorage) SaveAPIURL(ctx context.Context, apiURL string) error {
	if err := v.kv.Set(ctx, KeyAPIURL, []byte(apiURL)); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	return nil
}
