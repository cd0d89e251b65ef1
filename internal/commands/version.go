package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suzmue/vscode-go/internal/version"
)

func NewVersionCommand() (*cobra.Command, error) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.Marshal(version.Get())
			if err != nil {
				rootCmdLogger.Error(err, "Could not serialize version information")
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	return versionCmd, nil
}
