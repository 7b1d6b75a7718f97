// Package eventscmder provides the events command, which lists the event
// catalog the assistant is grounded in.
package eventscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/assembler"
	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/cliui"
	"github.com/planora/planora/pkg/config"
)

const eventsLongDesc string = `List the event catalog.

Events are read from the API server by default. Pass --store to read a
store directly instead.

Examples:
  planora events
  planora events --category music --free
  planora events --store sqlite://./planora.db --json`

const eventsShortDesc string = "List the event catalog"

type eventsCommander struct {
	apiTarget string
	store     string
	category  string
	freeOnly  bool
	limit     int
	asJSON    bool

	fromStore bool
	settings  *settings.Settings
	width     int
}

var eventsFlags = []string{
	config.FlagAPITarget,
	config.FlagStore,
}

func NewEventsCmd() *cobra.Command {
	cmder := &eventsCommander{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: eventsShortDesc,
		Long:  eventsLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(cmd, eventsFlags...)
			if err != nil {
				return err
			}
			cmder.settings = s
			cmder.fromStore = cmd.Flags().Changed(config.Registry[config.FlagStore].Name)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmder.width = cliui.Width(os.Stdout)
			return cmder.run(ctx, cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Registry, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, config.Registry, config.FlagStore, &cmder.store)
	cmd.Flags().StringVarP(&cmder.category, "category", "c", "", "Only events in this category (name or slug)")
	cmd.Flags().BoolVar(&cmder.freeOnly, "free", false, "Only free events")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 0, "Maximum number of events (0 for all)")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print events as JSON")

	return cmd
}

func (c *eventsCommander) run(ctx context.Context, w io.Writer) error {
	events, err := c.load(ctx)
	if err != nil {
		return err
	}
	events = c.filter(events)

	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	if len(events) == 0 {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No events found."))
		return nil
	}

	fmt.Fprintln(w)
	for _, e := range events {
		fmt.Fprintln(w, cliui.EventCard(e, c.width))
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d events", len(events))))
	return nil
}

func (c *eventsCommander) load(ctx context.Context) ([]catalog.Event, error) {
	if c.fromStore {
		store, err := c.settings.OpenStore(ctx, c.settings.CLILogger())
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.ListEventsWithCategory(ctx)
	}

	client := assembler.NewClient(assembler.ClientConfig{
		APIURL: c.settings.Viper.GetString("client.api_target"),
	})
	events, err := client.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events from API server: %w", err)
	}
	return events, nil
}

func (c *eventsCommander) filter(events []catalog.Event) []catalog.Event {
	category := strings.TrimSpace(c.category)
	out := make([]catalog.Event, 0, len(events))
	for _, e := range events {
		if category != "" &&
			!strings.EqualFold(e.CategoryName, category) &&
			!strings.EqualFold(e.CategorySlug, category) {
			continue
		}
		if c.freeOnly && e.Price > 0 {
			continue
		}
		out = append(out, e)
		if c.limit > 0 && len(out) == c.limit {
			break
		}
	}
	return out
}
