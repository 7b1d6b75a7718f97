package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --upstream
// on both "planora serve" and "planora serve relay").
type Flag struct {
	// Name is the long flag name (e.g. "upstream").
	Name string

	// Shorthand is the one-letter short flag (e.g. "u"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "relay.upstream").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag, AddFloatFlag
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagRelayListen   = "relay-listen"
	FlagAPIListen     = "api-listen"
	FlagUpstream      = "upstream"
	FlagModel         = "model"
	FlagHeaderTimeout = "header-timeout"
	FlagRateLimit     = "rate-limit"
	FlagRateBurst     = "rate-burst"
	FlagStore         = "store"
	FlagBrokers       = "brokers"
	FlagTopic         = "topic"
	FlagRelayTarget   = "relay-target"
	FlagAPITarget     = "api-target"

	// Standalone subcommand variants use "listen" as the flag name
	// but bind to different viper keys depending on the service.
	FlagRelayListenStandalone = "relay-listen-standalone"
	FlagAPIListenStandalone   = "api-listen-standalone"
)

// Registry holds every flag shared across planora commands.
var Registry = FlagSet{
	FlagRelayListen:   {Name: "relay-listen", Shorthand: "r", ViperKey: "relay.listen", Description: "Address for the chat relay to listen on"},
	FlagAPIListen:     {Name: "api-listen", Shorthand: "a", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagUpstream:      {Name: "upstream", Shorthand: "u", ViperKey: "relay.upstream", Description: "OpenAI-compatible upstream base URL"},
	FlagModel:         {Name: "model", Shorthand: "m", ViperKey: "relay.model", Description: "Model identifier sent upstream"},
	FlagHeaderTimeout: {Name: "header-timeout", ViperKey: "relay.header_timeout", Description: "Maximum wait for upstream response headers"},
	FlagRateLimit:     {Name: "rate-limit", ViperKey: "relay.rate_limit", Description: "Per-client requests per second (0 disables)"},
	FlagRateBurst:     {Name: "rate-burst", ViperKey: "relay.rate_burst", Description: "Per-client burst size"},
	FlagStore:         {Name: "store", Shorthand: "s", ViperKey: "store.url", Description: "Event store URL (postgres://, https://, sqlite://, memory://)"},
	FlagBrokers:       {Name: "brokers", ViperKey: "eventstream.brokers", Description: "Comma-separated Kafka brokers for relay telemetry"},
	FlagTopic:         {Name: "topic", ViperKey: "eventstream.topic", Description: "Kafka topic for relay telemetry"},
	FlagRelayTarget:   {Name: "relay-target", ViperKey: "client.relay_target", Description: "Planora relay URL"},
	FlagAPITarget:     {Name: "api-target", ViperKey: "client.api_target", Description: "Planora API server URL"},

	FlagRelayListenStandalone: {Name: "listen", Shorthand: "l", ViperKey: "relay.listen", Description: "Address for the chat relay to listen on"},
	FlagAPIListenStandalone:   {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultViper().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultViper().GetInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloatFlag registers a float64 flag on cmd from the given FlagSet.
func AddFloatFlag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultViper().GetFloat64(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultViper returns a viper instance holding only the values from NewDefaultConfig.
func defaultViper() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
