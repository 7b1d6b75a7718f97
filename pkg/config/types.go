package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent planora configuration stored as
// config.toml in the .planora/ directory. The TOML layout uses sections for
// logical grouping. Secrets never live here; see Secrets.
type Config struct {
	Version     int               `toml:"version"`
	Relay       RelayConfig       `toml:"relay"`
	API         APIConfig         `toml:"api"`
	Store       StoreConfig       `toml:"store"`
	Client      ClientConfig      `toml:"client"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// RelayConfig holds chat relay settings.
type RelayConfig struct {
	Listen   string `toml:"listen,omitempty"`
	Upstream string `toml:"upstream,omitempty"`
	Model    string `toml:"model,omitempty"`

	// HeaderTimeout bounds the wait for upstream response headers, e.g. "30s".
	HeaderTimeout string `toml:"header_timeout,omitempty"`

	// RateLimit is the per-client request rate in requests per second.
	// Zero disables inbound rate limiting.
	RateLimit float64 `toml:"rate_limit,omitempty"`
	RateBurst int     `toml:"rate_burst,omitempty"`
}

// APIConfig holds catalog API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// StoreConfig holds the event store location. A SUPABASE_URL in the
// environment takes precedence over URL.
type StoreConfig struct {
	URL string `toml:"url,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to running
// relay and API servers (e.g. planora chat, planora events).
// Values are full URLs (scheme + host + port).
type ClientConfig struct {
	RelayTarget string `toml:"relay_target,omitempty"`
	APITarget   string `toml:"api_target,omitempty"`
}

// EventStreamConfig holds relay telemetry publishing settings. An empty
// Brokers value disables publishing.
type EventStreamConfig struct {
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"relay.listen": {
		get: func(c *Config) string { return c.Relay.Listen },
		set: func(c *Config, v string) error { c.Relay.Listen = v; return nil },
	},
	"relay.upstream": {
		get: func(c *Config) string { return c.Relay.Upstream },
		set: func(c *Config, v string) error { c.Relay.Upstream = v; return nil },
	},
	"relay.model": {
		get: func(c *Config) string { return c.Relay.Model },
		set: func(c *Config, v string) error { c.Relay.Model = v; return nil },
	},
	"relay.header_timeout": {
		get: func(c *Config) string { return c.Relay.HeaderTimeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for relay.header_timeout: %w", err)
			}
			c.Relay.HeaderTimeout = v
			return nil
		},
	},
	"relay.rate_limit": {
		get: func(c *Config) string {
			if c.Relay.RateLimit == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Relay.RateLimit, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid value for relay.rate_limit: %q", v)
			}
			c.Relay.RateLimit = f
			return nil
		},
	},
	"relay.rate_burst": {
		get: func(c *Config) string {
			if c.Relay.RateBurst == 0 {
				return ""
			}
			return strconv.Itoa(c.Relay.RateBurst)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value for relay.rate_burst: %q", v)
			}
			c.Relay.RateBurst = n
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"store.url": {
		get: func(c *Config) string { return c.Store.URL },
		set: func(c *Config, v string) error { c.Store.URL = v; return nil },
	},
	"client.relay_target": {
		get: func(c *Config) string { return c.Client.RelayTarget },
		set: func(c *Config, v string) error { c.Client.RelayTarget = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return c.EventStream.Brokers },
		set: func(c *Config, v string) error { c.EventStream.Brokers = v; return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
}
