package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/planora/planora/pkg/dotdir"
)

// EnvPrefix is the prefix for environment overrides of config keys,
// e.g. PLANORA_RELAY_LISTEN.
const EnvPrefix = "PLANORA"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the PLANORA_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (PLANORA_RELAY_LISTEN, PLANORA_STORE_URL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Relay
	v.SetDefault("relay.listen", d.Relay.Listen)
	v.SetDefault("relay.upstream", d.Relay.Upstream)
	v.SetDefault("relay.model", d.Relay.Model)
	v.SetDefault("relay.header_timeout", d.Relay.HeaderTimeout)
	v.SetDefault("relay.rate_limit", d.Relay.RateLimit)
	v.SetDefault("relay.rate_burst", d.Relay.RateBurst)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Store
	v.SetDefault("store.url", d.Store.URL)

	// Client
	v.SetDefault("client.relay_target", d.Client.RelayTarget)
	v.SetDefault("client.api_target", d.Client.APITarget)

	// Event stream
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)
}
