// Package planoracmder is the root planora command.
package planoracmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/planora/planora/cmd/planora/chat"
	configcmder "github.com/planora/planora/cmd/planora/config"
	eventscmder "github.com/planora/planora/cmd/planora/events"
	seedcmder "github.com/planora/planora/cmd/planora/seed"
	servecmder "github.com/planora/planora/cmd/planora/serve"
	"github.com/planora/planora/cmd/planora/settings"
	versioncmder "github.com/planora/planora/cmd/version"
)

const planoraLongDesc string = `Planora is an event discovery assistant grounded in your event catalog.

Run services using:
  planora serve relay   Run the chat relay
  planora serve api     Run the events API server
  planora serve         Run both servers together

Talk to the assistant:
  planora chat          Start an interactive chat session
  planora events        List the event catalog`

const planoraShortDesc string = "Planora - Event Discovery Assistant"

func NewPlanoraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "planora",
		Short:         planoraShortDesc,
		Long:          planoraLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	settings.AddPersistentFlags(cmd)

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(eventscmder.NewEventsCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
