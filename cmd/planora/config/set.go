package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planora/planora/pkg/cliui"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in config.toml in the .planora/
directory, creating the file when it does not exist yet.

Examples:
  planora config set store.url postgres://planora@localhost:5432/planora
  planora config set relay.rate_limit 2
  planora config set eventstream.brokers localhost:9092`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "set <key> <value>",
		Short:             setShortDesc,
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, cmd.OutOrStdout(), args[0], args[1])
		},
	}

	return cmd
}

func runSet(cmd *cobra.Command, w io.Writer, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	cfger, err := openConfiger(cmd)
	if err != nil {
		return err
	}
	printTarget(w, cfger)

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
