package config

import "time"

// Built-in defaults, applied with the lowest priority.
const (
	DefaultAPIAddress              = "http://127.0.0.1:8000/api"
	DefaultAdapterRequestTimeout   = 10 * time.Second
	DefaultStorageDriver           = DriverSQLite
	DefaultStorageDSN              = "vault.db"
	DefaultSyncInterval            = 15 * time.Minute
	DefaultAgentAddress            = "127.0.0.1:8765"
	DefaultAgentRequestTimeout     = 30 * time.Second
	DefaultKDFTime                 = 3
	DefaultKDFMemory               = 64 * 1024
	DefaultKDFThreads              = 4
	DefaultUnlockAttemptsPerMinute = 10
	DefaultUnlockBurst             = 5
)

// Storage drivers accepted in [DB.Driver].
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			KDFTime:                 DefaultKDFTime,
			KDFMemory:               DefaultKDFMemory,
			KDFThreads:              DefaultKDFThreads,
			UnlockAttemptsPerMinute: DefaultUnlockAttemptsPerMinute,
			UnlockBurst:             DefaultUnlockBurst,
		},
		Storage: Storage{
			DB: DB{Driver: DefaultStorageDriver, DSN: DefaultStorageDSN},
		},
		Server: Server{
			HTTPAddress:    DefaultAgentAddress,
			RequestTimeout: DefaultAgentRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultAPIAddress,
			RequestTimeout: DefaultAdapterRequestTimeout,
		},
		Workers: Workers{SyncInterval: DefaultSyncInterval},
	}
}
