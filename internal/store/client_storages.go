package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

// ClientStorages groups the local persistence used by the session layer.
type ClientStorages struct {
	// KV is the raw key-value store. Owned by ClientStorages; release it
	// with [ClientStorages.Close].
	KV KeyValueStore

	// Vault reads and writes the token, encrypted vault and API URL on top
	// of KV.
	Vault VaultStorage
}

// NewClientStorages opens the backend selected by cfg.DB.Driver.
//
// The "sqlite" driver (default) opens the database file at cfg.DB.DSN,
// creating it if needed, and runs pending migrations. The "bolt" driver
// opens a bbolt file at the same path.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	var kv KeyValueStore
	switch cfg.DB.Driver {
	case "", config.DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		kv = NewSQLiteKeyValueStore(db, logger)
	case config.DriverBolt:
		boltKV, err := NewBoltKeyValueStore(cfg.DB.DSN, logger)
		if err != nil {
			return nil, err
		}
		kv = boltKV
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DB.Driver)
	}

	return &ClientStorages{
		KV:    kv,
		Vault: NewVaultStorage(kv, logger),
	}, nil
}

// Close releases the underlying database.
func (s *ClientStorages) Close() error {
	return s.KV.Close()
}
