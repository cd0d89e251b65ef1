package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewResetWarningsCommand() (*cobra.Command, error) {
	var statePath string

	cmd := &cobra.Command{
		Use:   "reset-warnings",
		Short: "Clear all dismissed warnings and other durable state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(statePath)
			if err != nil {
				return err
			}

			keys := store.Keys()
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored state to clear.")
				return nil
			}

			if err := store.Reset(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d stored entr%s:\n", len(keys), plural(len(keys)))
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state-file", "",
		"Path of the durable state file (defaults to the user configuration directory)")

	return cmd, nil
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
