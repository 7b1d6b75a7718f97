package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planora/planora/pkg/cliui"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from config.toml in the .planora/
directory, falling back to the default when the key is not set.

Examples:
  planora config get relay.upstream
  planora config get store.url`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "get <key>",
		Short:             getShortDesc,
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runGet(cmd *cobra.Command, w io.Writer, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	cfger, err := openConfiger(cmd)
	if err != nil {
		return err
	}
	printTarget(w, cfger)

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render(key), cliui.DimStyle.Render("<not set>"))
	} else {
		fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	}

	return nil
}
