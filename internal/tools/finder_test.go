package tools_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suzmue/vscode-go/internal/tools"
)

func placeTool(t *testing.T, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestFindOnPath(t *testing.T) {
	t.Parallel()

	binDir := t.TempDir()
	want := placeTool(t, binDir, tools.DelveTool)

	f := tools.NewPathFinder(map[string]string{"PATH": binDir})
	got, err := f.Find(tools.DelveTool)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindInGoBin(t *testing.T) {
	t.Parallel()

	gobin := t.TempDir()
	want := placeTool(t, gobin, tools.DelveTool)

	f := tools.NewPathFinder(map[string]string{"GOBIN": gobin})
	got, err := f.Find(tools.DelveTool)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindInGopathBin(t *testing.T) {
	t.Parallel()

	gopath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(gopath, "bin"), 0o755))
	want := placeTool(t, filepath.Join(gopath, "bin"), tools.DelveTool)

	f := tools.NewPathFinder(map[string]string{"GOPATH": gopath})
	got, err := f.Find(tools.DelveTool)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindMissingTool(t *testing.T) {
	t.Parallel()

	f := tools.NewPathFinder(map[string]string{"PATH": t.TempDir()})
	_, err := f.Find("no-such-tool")
	require.ErrorIs(t, err, tools.ErrToolNotFound)
}
