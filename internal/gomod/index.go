/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package gomod synthesizes the package-path to module-path lookup table that
// the debug backend uses to translate between source paths and module paths.
package gomod

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/mod/modfile"
)

// skippedDirs are never descended into while scanning for go.mod files.
var skippedDirs = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// BuildIndex walks root and returns a map from each module root directory to
// the module path declared in its go.mod. Hidden directories, vendor trees,
// and testdata are skipped. An unparseable go.mod is logged and skipped; it
// does not fail the scan.
func BuildIndex(root string, log logr.Logger) (map[string]string, error) {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	index := map[string]string{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (skippedDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != "go.mod" {
			return nil
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}

		mf, parseErr := modfile.ParseLax(path, raw, nil)
		if parseErr != nil {
			log.Error(parseErr, "skipping unparseable go.mod", "path", path)
			return nil
		}
		if mf.Module == nil || mf.Module.Mod.Path == "" {
			log.V(1).Info("go.mod has no module declaration", "path", path)
			return nil
		}

		index[filepath.Dir(path)] = mf.Module.Mod.Path
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan '%s' for go.mod files: %w", root, walkErr)
	}

	return index, nil
}
