package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suzmue/vscode-go/internal/commands"
)

func writeFakeDelve(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	name := "dlv"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755))
	return dir
}

func TestResolveDebugConfigCommand(t *testing.T) {
	t.Setenv("GOBIN", writeFakeDelve(t))

	ws := t.TempDir()
	request := map[string]any{
		"configuration": map[string]any{
			"name":    "Launch",
			"request": "launch",
			"mode":    "auto",
			"program": ws,
		},
		"workspaceFolder": ws,
		"activeFile":      filepath.Join(ws, "main.go"),
	}
	raw, err := json.Marshal(request)
	require.NoError(t, err)

	inputPath := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(inputPath, raw, 0o600))
	statePath := filepath.Join(t.TempDir(), "state.json")

	root, err := commands.NewRootCmd()
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{
		"resolve-debug-config", "--input", inputPath, "--state-file", statePath,
	})
	require.NoError(t, root.Execute())

	var resolved map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resolved))
	require.Equal(t, "go", resolved["type"])
	require.Equal(t, "debug", resolved["mode"])
	require.NotEmpty(t, resolved["dlvToolPath"])
	require.NotContains(t, resolved, "envFile")
}

func TestResetWarningsCommand(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(statePath,
		[]byte(`{"global":{"ignoreDebugGCFlagsWarning":true}}`), 0o600))

	root, err := commands.NewRootCmd()
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"reset-warnings", "--state-file", statePath})
	require.NoError(t, root.Execute())

	require.Contains(t, out.String(), "ignoreDebugGCFlagsWarning")

	raw, err := os.ReadFile(statePath)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "ignoreDebugGCFlagsWarning")
}
