// Package servecmder provides the serve command with subcommands for running services.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/planora/planora/api"
	apicmder "github.com/planora/planora/cmd/planora/serve/api"
	relaycmder "github.com/planora/planora/cmd/planora/serve/relay"
	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/config"
	"github.com/planora/planora/pkg/logger"
	"github.com/planora/planora/pkg/metrics"
	"github.com/planora/planora/relay"
)

type serveCommander struct {
	relayListen   string
	apiListen     string
	upstream      string
	model         string
	headerTimeout string
	rateLimit     float64
	rateBurst     int
	store         string
	brokers       string
	topic         string

	settings *settings.Settings
}

var serveFlags = []string{
	config.FlagRelayListen,
	config.FlagAPIListen,
	config.FlagUpstream,
	config.FlagModel,
	config.FlagHeaderTimeout,
	config.FlagRateLimit,
	config.FlagRateBurst,
	config.FlagStore,
	config.FlagBrokers,
	config.FlagTopic,
}

const serveLongDesc string = `Run Planora services.

Use subcommands to run individual services or all services together:
  planora serve          Run both the chat relay and the API server together
  planora serve relay    Run just the chat relay
  planora serve api      Run just the API server

When both run together they share one event store and one set of metrics,
served at GET /metrics on the API server.

Secrets are read from the environment (or --env-file):
  AI_API_KEY                  Hosted model credential (LOVABLE_API_KEY also accepted)
  SUPABASE_URL                Event store URL, overrides --store
  SUPABASE_SERVICE_ROLE_KEY   Event store credential for https:// stores`

const serveShortDesc string = "Run Planora services"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(cmd, serveFlags...)
			if err != nil {
				return err
			}
			cmder.settings = s
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Registry, config.FlagRelayListen, &cmder.relayListen)
	config.AddStringFlag(cmd, config.Registry, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, config.Registry, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.Registry, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Registry, config.FlagHeaderTimeout, &cmder.headerTimeout)
	config.AddFloatFlag(cmd, config.Registry, config.FlagRateLimit, &cmder.rateLimit)
	config.AddIntFlag(cmd, config.Registry, config.FlagRateBurst, &cmder.rateBurst)
	config.AddStringFlag(cmd, config.Registry, config.FlagStore, &cmder.store)
	config.AddStringFlag(cmd, config.Registry, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.Registry, config.FlagTopic, &cmder.topic)

	cmd.AddCommand(apicmder.NewAPICmd())
	cmd.AddCommand(relaycmder.NewRelayCmd())

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.settings.Logger()

	// Create shared store
	store, err := c.settings.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()

	publisher, err := c.settings.NewPublisher(log)
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	relayConfig, err := c.settings.RelayConfig()
	if err != nil {
		return err
	}
	relayConfig.Publisher = publisher
	relayConfig.Metrics = m

	r, err := relay.New(relayConfig, store, logger.Component(log, "relay"))
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	apiServer, err := api.NewServer(api.Config{
		ListenAddr: c.settings.Viper.GetString("api.listen"),
		Metrics:    m,
	}, store, logger.Component(log, "api"))
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	defer apiServer.Shutdown()

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	go func() {
		if err := r.Run(); err != nil {
			errChan <- fmt.Errorf("relay error: %w", err)
		}
	}()

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}
