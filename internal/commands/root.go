package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suzmue/vscode-go/pkg/logger"
)

var rootCmdLogger *logger.Logger

func NewRootCmd() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "vscgo",
		Short: "Support tooling for Go debugging in the editor",
		Long: `vscgo backs the editor's Go debugging integration.

	It resolves user debug configurations into the form the debug adapter accepts,
	and manages the durable state (such as dismissed warnings) behind the editor UI.`,
		SilenceUsage: true,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			rootCmdLogger.Flush()
		},
	}

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	var err error
	var cmd *cobra.Command

	if cmd, err = NewResolveDebugConfigCommand(); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'resolve-debug-config' command: %w", err)
	}

	if cmd, err = NewResetWarningsCommand(); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'reset-warnings' command: %w", err)
	}

	if cmd, err = NewVersionCommand(); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'version' command: %w", err)
	}

	rootCmdLogger = logger.New("vscgo", rootCmd.PersistentFlags())

	return rootCmd, nil
}
