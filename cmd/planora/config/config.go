// Package configcmder provides the config command for managing persistent
// planora configuration stored in the .planora/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/cliui"
	"github.com/planora/planora/pkg/config"
)

const configLongDesc string = `Manage persistent planora configuration.

Configuration is stored as config.toml in the .planora/ directory and provides
default values for command flags. CLI flags and PLANORA_* environment
variables always take precedence over config file values. Secrets such as
AI_API_KEY are never stored here; put them in the environment or a .env file.

Keys use dotted notation matching the TOML section structure:
  relay.listen, relay.upstream, relay.model, relay.header_timeout,
  relay.rate_limit, relay.rate_burst,
  api.listen, store.url,
  client.relay_target, client.api_target,
  eventstream.brokers, eventstream.topic

Use subcommands to get, set, or list configuration values:
  planora config set <key> <value>    Set a configuration value
  planora config get <key>            Get a configuration value
  planora config list                 List all configuration values

Examples:
  planora config set store.url sqlite://./planora.db
  planora config set relay.model google/gemini-2.5-flash
  planora config get relay.upstream
  planora config list`

const configShortDesc string = "Manage persistent planora configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func validateKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func openConfiger(cmd *cobra.Command) (*config.Configer, error) {
	configDir, _ := cmd.Flags().GetString(settings.FlagConfigDir)
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfger, nil
}

func printTarget(w io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
