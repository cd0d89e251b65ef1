/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package tools locates external Go toolchain executables that the extension
// shells out to.
package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/suzmue/vscode-go/pkg/osutil"
)

// DelveTool is the executable name of the debugger backend.
const DelveTool = "dlv"

// ErrToolNotFound indicates that a required executable could not be located.
var ErrToolNotFound = errors.New("tool not found")

// Finder resolves tool names to executable paths.
type Finder interface {
	Find(name string) (string, error)
}

// PathFinder looks for tools on PATH and in the conventional Go binary
// directories: $GOBIN, $GOPATH/bin, and ~/go/bin.
type PathFinder struct {
	env map[string]string
}

// NewPathFinder creates a finder using the given environment; a nil env means
// the ambient process environment.
func NewPathFinder(env map[string]string) *PathFinder {
	if env == nil {
		env = osutil.EnvironMap()
	}
	return &PathFinder{env: env}
}

func (f *PathFinder) Find(name string) (string, error) {
	exe := name
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}

	for _, dir := range filepath.SplitList(f.env["PATH"]) {
		if found, ok := executableAt(dir, exe); ok {
			return found, nil
		}
	}

	for _, dir := range f.goBinDirs() {
		if found, ok := executableAt(dir, exe); ok {
			return found, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

func (f *PathFinder) goBinDirs() []string {
	var dirs []string

	if gobin := f.env["GOBIN"]; gobin != "" {
		dirs = append(dirs, gobin)
	}
	for _, gopath := range filepath.SplitList(f.env["GOPATH"]) {
		if gopath != "" {
			dirs = append(dirs, filepath.Join(gopath, "bin"))
		}
	}
	if home, err := homedir.Dir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}

	return dirs
}

func executableAt(dir, exe string) (string, bool) {
	if dir == "" {
		return "", false
	}

	path := filepath.Join(dir, exe)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return "", false
	}
	return path, true
}
