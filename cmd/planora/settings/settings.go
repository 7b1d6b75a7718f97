// Package settings resolves the layered configuration (flags, environment,
// config.toml, defaults) and secrets shared by planora commands.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planora/planora/pkg/catalog/utils"
	"github.com/planora/planora/pkg/cliui"
	"github.com/planora/planora/pkg/config"
	"github.com/planora/planora/pkg/dotdir"
	"github.com/planora/planora/pkg/eventstream"
	eventstreamutils "github.com/planora/planora/pkg/eventstream/utils"
	"github.com/planora/planora/pkg/logger"
	"github.com/planora/planora/relay"
)

// Persistent flag names defined on the root command.
const (
	FlagDebug     = "debug"
	FlagConfigDir = "config-dir"
	FlagEnvFile   = "env-file"
	FlagLogJSON   = "log-json"
	FlagLogFile   = "log-file"
)

// AddPersistentFlags registers the global flags every command reads
// through Load.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP(FlagDebug, "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool(FlagLogJSON, false, "Write service logs as JSON")
	cmd.PersistentFlags().String(FlagLogFile, "", "Also append service logs as JSON to this file")
	cmd.PersistentFlags().String(FlagConfigDir, "", "Override path to the .planora/ config directory")
	cmd.PersistentFlags().String(FlagEnvFile, ".env", "Dotenv file read for secrets")
}

// Settings is the resolved configuration of one command invocation.
type Settings struct {
	Viper   *viper.Viper
	Secrets config.Secrets
	Debug   bool
	JSON    bool
	LogFile string
}

// Load initializes viper from the config directory, binds the given
// registry flags of cmd, and reads secrets from the environment after
// seeding it from the --env-file and the .env file in the config directory.
func Load(cmd *cobra.Command, registryKeys ...string) (*Settings, error) {
	configDir, _ := cmd.Flags().GetString(FlagConfigDir)
	envFile, _ := cmd.Flags().GetString(FlagEnvFile)
	debug, _ := cmd.Flags().GetBool(FlagDebug)
	jsonLogs, _ := cmd.Flags().GetBool(FlagLogJSON)
	logFile, _ := cmd.Flags().GetString(FlagLogFile)

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Registry, registryKeys)

	dotEnv, err := dotdir.NewManager().File(configDir, ".env")
	if err != nil {
		return nil, err
	}
	secrets, err := config.LoadSecrets(envFile, dotEnv)
	if err != nil {
		return nil, fmt.Errorf("loading secrets: %w", err)
	}

	return &Settings{
		Viper:   v,
		Secrets: secrets,
		Debug:   debug,
		JSON:    jsonLogs,
		LogFile: logFile,
	}, nil
}

// Logger returns the service logger: JSON when requested, colorized when
// stdout is a terminal, plain text otherwise. With --log-file, records are
// also appended to that file as JSON. The file stays open for the life of
// the process.
func (s *Settings) Logger() *slog.Logger {
	console := logger.New(
		logger.WithDebug(s.Debug),
		logger.WithJSON(s.JSON),
		logger.WithPretty(!s.JSON && cliui.IsTerminal(os.Stdout)),
	)
	if s.LogFile == "" {
		return console
	}

	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		console.Warn("cannot open log file, logging to stdout only", "path", s.LogFile, "error", err)
		return console
	}
	return logger.Multi(console, logger.New(
		logger.WithDebug(s.Debug),
		logger.WithWriter(f),
		logger.WithJSON(true),
	))
}

// CLILogger returns a logger for interactive commands. It writes to stderr
// and stays quiet unless --debug is set.
func (s *Settings) CLILogger() *slog.Logger {
	if !s.Debug {
		return logger.Nop()
	}
	return logger.New(
		logger.WithDebug(true),
		logger.WithWriter(os.Stderr),
		logger.WithPretty(cliui.IsTerminal(os.Stderr)),
	)
}

// RelayConfig builds the relay configuration. Publisher and Metrics are
// left for the caller to attach.
func (s *Settings) RelayConfig() (relay.Config, error) {
	v := s.Viper

	var headerTimeout time.Duration
	if raw := v.GetString("relay.header_timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return relay.Config{}, fmt.Errorf("invalid relay.header_timeout %q: %w", raw, err)
		}
		headerTimeout = d
	}

	return relay.Config{
		ListenAddr:    v.GetString("relay.listen"),
		UpstreamURL:   v.GetString("relay.upstream"),
		Model:         v.GetString("relay.model"),
		APIKey:        s.Secrets.AIAPIKey,
		HeaderTimeout: headerTimeout,
		RateLimit:     v.GetFloat64("relay.rate_limit"),
		RateBurst:     v.GetInt("relay.rate_burst"),
	}, nil
}

// StoreURL is the event store URL; SUPABASE_URL wins over store.url.
func (s *Settings) StoreURL() string {
	return s.Secrets.ResolveStoreURL(s.Viper.GetString("store.url"))
}

// OpenStore opens the configured event store.
func (s *Settings) OpenStore(ctx context.Context, log *slog.Logger) (*catalogutils.Store, error) {
	store, err := catalogutils.NewStore(ctx, &catalogutils.NewStoreOpts{
		URL:        s.StoreURL(),
		ServiceKey: s.Secrets.StoreKey,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("opening event store: %w", err)
	}
	return store, nil
}

// NewPublisher returns the relay telemetry publisher.
func (s *Settings) NewPublisher(log *slog.Logger) (eventstream.Publisher, error) {
	return eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		Brokers: s.Viper.GetString("eventstream.brokers"),
		Topic:   s.Viper.GetString("eventstream.topic"),
		Logger:  log,
	})
}
