package config

import (
	"fmt"
	"time"
)

// ClientKDF holds the Argon2id cost used when a new vault is sealed.
type ClientKDF struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// ClientLimits holds unlock throttling settings.
type ClientLimits struct {
	// UnlockAttemptsPerMinute is the sustained unlock attempt rate.
	// Zero or negative disables throttling.
	UnlockAttemptsPerMinute int
	// UnlockBurst is the number of attempts allowed back to back.
	UnlockBurst int
}

// ClientApp holds vault-level settings derived from the shared structured
// config.
type ClientApp struct {
	KDF     ClientKDF
	Limits  ClientLimits
	Version string
}

// ClientAdapter holds settings of the remote credential service client.
type ClientAdapter struct {
	// HTTPAddress is the default API base URL. A URL saved by the user in the
	// local store takes precedence at runtime.
	HTTPAddress string
	// RequestTimeout is the timeout for every outbound request.
	RequestTimeout time.Duration
}

// ClientDB contains local key-value database settings.
type ClientDB struct {
	// Driver is [DriverSQLite] or [DriverBolt].
	Driver string
	// DSN is the database file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background sync runs.
	SyncInterval time.Duration
}

// ClientServer contains local agent listener settings.
type ClientServer struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig]. Both the TUI and the local agent use it.
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Server  ClientServer
}

// GetClientConfig builds and validates the client config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			KDF: ClientKDF{
				Time:    cfg.App.KDFTime,
				Memory:  cfg.App.KDFMemory,
				Threads: cfg.App.KDFThreads,
			},
			Limits: ClientLimits{
				UnlockAttemptsPerMinute: cfg.App.UnlockAttemptsPerMinute,
				UnlockBurst:             cfg.App.UnlockBurst,
			},
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				Driver: cfg.Storage.DB.Driver,
				DSN:    cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Server: ClientServer{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	}
}
