package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planora/planora/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays every configuration key with its value from config.toml, or its
default when the key is not set.

Examples:
  planora config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, w io.Writer) error {
	cfger, err := openConfiger(cmd)
	if err != nil {
		return err
	}

	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "Using config file: %s\n\n", target)
	} else {
		fmt.Fprint(w, "No config file found. Using default config.\n\n")
	}

	keys := config.ValidConfigKeys()

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range keys {
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		if value == "" {
			fmt.Fprintf(w, "%-*s = <not set>\n", maxLen, key)
		} else {
			fmt.Fprintf(w, "%-*s = %q\n", maxLen, key, value)
		}
	}

	return nil
}
