// Package relaycmder provides the chat relay cobra command.
package relaycmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/config"
	"github.com/planora/planora/pkg/logger"
	"github.com/planora/planora/relay"
)

type relayCommander struct {
	listen        string
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

var relayFlags = []string{
	config.FlagRelayListenStandalone,
	config.FlagUpstream,
	config.FlagModel,
	config.FlagHeaderTimeout,
	config.FlagRateLimit,
	config.FlagRateBurst,
	config.FlagStore,
	config.FlagBrokers,
	config.FlagTopic,
}

const relayLongDesc string = `Run the Planora chat relay.

The relay accepts a conversation transcript at POST /functions/ask-ai, grounds
it in the current event catalog, and streams the hosted model's answer back
as server-sent events.

Examples:
  planora serve relay
  planora serve relay --store sqlite://./planora.db --model google/gemini-2.5-flash
  planora serve relay --brokers localhost:9092 --topic planora.chat.relayed`

const relayShortDesc string = "Run the Planora chat relay"

func NewRelayCmd() *cobra.Command {
	cmder := &relayCommander{}

	cmd := &cobra.Command{
		Use:   "relay",
		Short: relayShortDesc,
		Long:  relayLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(cmd, relayFlags...)
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

	config.AddStringFlag(cmd, config.Registry, config.FlagRelayListenStandalone, &cmder.listen)
	config.AddStringFlag(cmd, config.Registry, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.Registry, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Registry, config.FlagHeaderTimeout, &cmder.headerTimeout)
	config.AddFloatFlag(cmd, config.Registry, config.FlagRateLimit, &cmder.rateLimit)
	config.AddIntFlag(cmd, config.Registry, config.FlagRateBurst, &cmder.rateBurst)
	config.AddStringFlag(cmd, config.Registry, config.FlagStore, &cmder.store)
	config.AddStringFlag(cmd, config.Registry, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.Registry, config.FlagTopic, &cmder.topic)

	return cmd
}

func (c *relayCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.settings.Logger()

	store, err := c.settings.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer store.Close()

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

	r, err := relay.New(relayConfig, store, logger.Component(log, "relay"))
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := r.Run(); err != nil {
			errChan <- err
		}
	}()

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
