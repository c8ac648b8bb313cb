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
//	-a sync server address in format [host]:[port]
//	-inspect-address inspection server address in format [host]:[port]
//	-driver directory store driver (sqlite or pebble)
//	-d directory store DSN or path
//	-c/-config json file path with configs
//	-cache-guid client cache GUID
//	-hash-key request signing key
//	-log-file rotated log file path
//	-token bearer token for the sync server
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-poll-interval periodic GetUpdates interval (e.g., "4h")
//	-max-backoff upper bound of the retry delay (e.g., "4h")
//	-max-buffered-invalidations invalidations kept per object or type
//	-flush-interval directory save interval (e.g., "10s")
func ParseFlags() *StructuredConfig {
	var serverAddress, inspectAddress NetAddress
	var driver string
	var databaseDSN string
	var jsonConfigPath string
	var cacheGUID string
	var hashKey string
	var logFile string
	var authToken string
	var requestTimeout time.Duration
	var pollInterval time.Duration
	var maxBackoff time.Duration
	var maxBuffered int
	var flushInterval time.Duration

	flag.Var(&serverAddress, "a", "Sync server address host:port")
	flag.Var(&inspectAddress, "inspect-address", "Inspection server address host:port")
	flag.StringVar(&driver, "driver", "", "Directory store driver (sqlite|pebble)")
	flag.StringVar(&databaseDSN, "d", "", "Directory store DSN or path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&cacheGUID, "cache-guid", "", "Client cache GUID")
	flag.StringVar(&hashKey, "hash-key", "", "Request signing key")
	flag.StringVar(&logFile, "log-file", "", "Rotated log file path")
	flag.StringVar(&authToken, "token", "", "Bearer token for the sync server")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Periodic GetUpdates interval (e.g., 4h)")
	flag.DurationVar(&maxBackoff, "max-backoff", 0, "Maximum retry delay (e.g., 4h)")
	flag.IntVar(&maxBuffered, "max-buffered-invalidations", 0, "Invalidations kept per object or type")
	flag.DurationVar(&flushInterval, "flush-interval", 0, "Directory save interval (e.g., 10s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			CacheGUID: cacheGUID,
			HashKey:   hashKey,
			LogFile:   logFile,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress: inspectAddress.String(),
		},
		Adapter: Adapter{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			AuthToken:      authToken,
		},
		Scheduler: Scheduler{
			PollInterval: pollInterval,
			MaxBackoff:   maxBackoff,
		},
		Invalidation: Invalidation{MaxBuffered: maxBuffered},
		Workers:      Workers{FlushInterval: flushInterval},
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

	if port < 1 {
		return errors.New("port number is a positive integer")
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
