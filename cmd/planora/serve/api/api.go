// Package apicmder provides the events API server cobra command.
package apicmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/planora/planora/api"
	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/config"
	"github.com/planora/planora/pkg/logger"
	"github.com/planora/planora/pkg/metrics"
)

type apiCommander struct {
	listen     string
	store      string
	disableMCP bool

	settings *settings.Settings
}

var apiFlags = []string{
	config.FlagAPIListenStandalone,
	config.FlagStore,
}

const apiLongDesc string = `Run the Planora API server for browsing the event catalog.

Routes:
  GET /ping          Liveness probe
  GET /events        Every event, ordered by date and time
  GET /events/:id    One event
  GET /metrics       Prometheus metrics
  /mcp               Model Context Protocol tools (list_events, get_event)`

const apiShortDesc string = "Run the Planora API server"

func NewAPICmd() *cobra.Command {
	cmder := &apiCommander{}

	cmd := &cobra.Command{
		Use:   "api",
		Short: apiShortDesc,
		Long:  apiLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(cmd, apiFlags...)
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

	config.AddStringFlag(cmd, config.Registry, config.FlagAPIListenStandalone, &cmder.listen)
	config.AddStringFlag(cmd, config.Registry, config.FlagStore, &cmder.store)
	cmd.Flags().BoolVar(&cmder.disableMCP, "no-mcp", false, "Disable the /mcp endpoint")

	return cmd
}

func (c *apiCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.settings.Logger()

	store, err := c.settings.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer store.Close()

	server, err := api.NewServer(api.Config{
		ListenAddr: c.settings.Viper.GetString("api.listen"),
		Metrics:    metrics.New(),
		DisableMCP: c.disableMCP,
	}, store, logger.Component(log, "api"))
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	defer server.Shutdown()

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
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
