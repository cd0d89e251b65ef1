package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/suzmue/vscode-go/internal/debug"
	"github.com/suzmue/vscode-go/internal/state"
)

// resolveInput is the request document the editor sends on stdin (or via
// --input): the user's configuration plus the editor context resolution needs.
type resolveInput struct {
	Configuration   debug.Configuration `json:"configuration"`
	WorkspaceFolder string              `json:"workspaceFolder"`
	ActiveFile      string              `json:"activeFile"`
	Settings        resolveSettings     `json:"settings"`
}

// resolveSettings mirrors the delve block of the extension settings.
type resolveSettings struct {
	DlvLoadConfig       map[string]any `json:"dlvLoadConfig"`
	ShowGlobalVariables *bool          `json:"showGlobalVariables"`
	UseApiV1            bool           `json:"useApiV1"`
}

func NewResolveDebugConfigCommand() (*cobra.Command, error) {
	var inputPath string
	var statePath string

	cmd := &cobra.Command{
		Use:   "resolve-debug-config",
		Short: "Resolve a debug configuration for the debug adapter",
		Long: `Reads a resolution request (configuration plus editor context) as JSON from
	stdin or --input, fills in defaults and derived fields, and prints the fully
	resolved configuration as JSON on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := readResolveInput(inputPath)
			if err != nil {
				return err
			}
			return runResolve(cmd, input, statePath)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "",
		"Path of the resolution request document (defaults to stdin)")
	cmd.Flags().StringVar(&statePath, "state-file", "",
		"Path of the durable state file (defaults to the user configuration directory)")

	return cmd, nil
}

func readResolveInput(path string) (*resolveInput, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution request: %w", err)
	}

	var input resolveInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("failed to parse resolution request: %w", err)
	}

	return &input, nil
}

func runResolve(cmd *cobra.Command, input *resolveInput, statePath string) error {
	store, err := openStore(statePath)
	if err != nil {
		return err
	}

	// There is no interactive UI on this path; warnings are logged and never
	// suppressed, the editor front end handles "Don't Show Again".
	prompter := state.PrompterFunc(func(message string, options ...string) (string, error) {
		rootCmdLogger.Info(message)
		if len(options) == 0 {
			return "", nil
		}
		return options[0], nil
	})

	resolver := debug.NewResolver(debug.ResolverConfig{
		WorkspaceRoot: input.WorkspaceFolder,
		Settings: debug.Settings{
			DlvLoadConfig:       input.Settings.DlvLoadConfig,
			ShowGlobalVariables: input.Settings.ShowGlobalVariables,
			UseAPIV1:            input.Settings.UseApiV1,
		},
		Editor: debug.ActiveEditorFunc(func() (string, bool) {
			return input.ActiveFile, input.ActiveFile != ""
		}),
		Warner:   state.NewWarner(store, prompter, rootCmdLogger.Logger),
		Prompter: prompter,
		Logger:   rootCmdLogger.Logger,
	})

	resolved, err := resolver.Resolve(input.Configuration)
	if err != nil {
		return err
	}

	// Placeholder substitution happens in the editor front end; by the time
	// the request reaches this command the values are already literal.
	resolved, err = resolver.FinalizeSubstituted(resolved)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize resolved configuration: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}

func openStore(statePath string) (*state.Store, error) {
	if statePath == "" {
		var err error
		statePath, err = state.DefaultStatePath()
		if err != nil {
			return nil, err
		}
	}
	return state.Open(statePath, rootCmdLogger.Logger)
}
