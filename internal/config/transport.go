package config

import "time"

// Ledger API transport constants
const (
	APIRequestTimeout = 30 * time.Second

	// Client side token bucket; the backend is shared by every dashboard user
	APIRequestsPerSecond = 5.0
	APIRequestBurst      = 5

	// Player directory is fetched once per session; this only bounds a single request
	DirectoryFetchTimeout = 15 * time.Second
)

// TransportConfig defines how the ledger API client talks to the backend
type TransportConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultTransportConfig provides sensible defaults
var DefaultTransportConfig = TransportConfig{
	Timeout:           APIRequestTimeout,
	RequestsPerSecond: APIRequestsPerSecond,
	Burst:             APIRequestBurst,
}

// Normalize fills zero fields from DefaultTransportConfig
func (c TransportConfig) Normalize() TransportConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTransportConfig.Timeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultTransportConfig.RequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = DefaultTransportConfig.Burst
	}
	return c
}
