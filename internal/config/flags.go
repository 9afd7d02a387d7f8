package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a local agent address in format [host]:[port]
//	-api remote credential API base URL
//	-request-timeout remote request timeout (e.g., "10s")
//	-d database file path
//	-storage-driver storage backend: sqlite or bolt
//	-c/-config json file path with configs
//	-sync-interval background sync period (e.g., "15m")
//	-kdf-time Argon2id time cost
//	-kdf-memory Argon2id memory cost in KiB
//	-kdf-threads Argon2id parallelism
//	-unlock-rate unlock attempts per minute (negative disables)
//	-unlock-burst unlock attempts allowed back to back
func ParseFlags() *StructuredConfig {
	var agentAddress NetAddress
	var apiAddress string
	var requestTimeout time.Duration
	var databaseDSN string
	var storageDriver string
	var jsonConfigPath string
	var syncInterval time.Duration
	var kdfTime, kdfMemory, kdfThreads uint
	var unlockRate, unlockBurst int

	flag.Var(&agentAddress, "a", "Local agent net address host:port")
	flag.StringVar(&apiAddress, "api", "", "Credential API base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 10s)")
	flag.StringVar(&databaseDSN, "d", "", "Database file path")
	flag.StringVar(&storageDriver, "storage-driver", "", "Storage driver: sqlite or bolt")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 15m)")
	flag.UintVar(&kdfTime, "kdf-time", 0, "Argon2id time cost")
	flag.UintVar(&kdfMemory, "kdf-memory", 0, "Argon2id memory cost in KiB")
	flag.UintVar(&kdfThreads, "kdf-threads", 0, "Argon2id parallelism")
	flag.IntVar(&unlockRate, "unlock-rate", 0, "Unlock attempts per minute (negative disables)")
	flag.IntVar(&unlockBurst, "unlock-burst", 0, "Unlock attempts allowed back to back")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			KDFTime:                 uint32(kdfTime),
			KDFMemory:               uint32(kdfMemory),
			KDFThreads:              uint8(kdfThreads),
			UnlockAttemptsPerMinute: unlockRate,
			UnlockBurst:             unlockBurst,
		},
		Storage: Storage{
			DB: DB{
				Driver: storageDriver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress: agentAddress.String(),
		},
		Adapter: Adapter{
			HTTPAddress:    apiAddress,
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
