/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	"github.com/suzmue/vscode-go/pkg/osutil"
)

// VSCGO_STATE_FILE overrides the location of the durable state file.
const VSCGO_STATE_FILE = "VSCGO_STATE_FILE"

// Store is a durable key-value store that survives process restarts. It backs
// warning-suppression flags, tool update prompt choices, and other extension
// state. Values live in a global scope or in a named per-workspace scope.
//
// Writes are idempotent and the store assumes serial access from a single
// logical caller; the internal lock only guards against accidental concurrent
// use, it is not a coordination mechanism.
type Store struct {
	log  logr.Logger
	path string

	mu   sync.Mutex
	data storeData
}

type storeData struct {
	Global     map[string]any            `json:"global"`
	Workspaces map[string]map[string]any `json:"workspaces,omitempty"`
}

// DefaultStatePath returns the state file location: VSCGO_STATE_FILE if set,
// otherwise a file under the user configuration directory.
func DefaultStatePath() (string, error) {
	if path := osutil.EnvVarStringWithDefault(VSCGO_STATE_FILE, ""); path != "" {
		return path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(configDir, "vscode-go", "state.json"), nil
}

// Open loads the store from path, creating an empty store if the file does
// not exist yet.
func Open(path string, log logr.Logger) (*Store, error) {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	s := &Store{
		log:  log,
		path: path,
		data: storeData{Global: map[string]any{}},
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read state file '%s': %w", path, err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse state file '%s': %w", path, err)
	}
	if s.data.Global == nil {
		s.data.Global = map[string]any{}
	}

	return s, nil
}

// Get returns the global value stored under key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.data.Global[key]
	return v, found
}

// Set stores a global value under key and persists the store.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Global[key] = value
	return s.save()
}

// Delete removes the global value stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.data.Global[key]; !found {
		return nil
	}
	delete(s.data.Global, key)
	return s.save()
}

// GetBool returns the global boolean flag stored under key, false if unset
// or not a boolean.
func (s *Store) GetBool(key string) bool {
	v, found := s.Get(key)
	if !found {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// SetBool stores a global boolean flag under key.
func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, value)
}

// GetWorkspace returns the value stored under key in the named workspace scope.
func (s *Store) GetWorkspace(workspace, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, found := s.data.Workspaces[workspace]
	if !found {
		return nil, false
	}
	v, found := ws[key]
	return v, found
}

// SetWorkspace stores a value under key in the named workspace scope.
func (s *Store) SetWorkspace(workspace, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Workspaces == nil {
		s.data.Workspaces = map[string]map[string]any{}
	}
	if s.data.Workspaces[workspace] == nil {
		s.data.Workspaces[workspace] = map[string]any{}
	}
	s.data.Workspaces[workspace][key] = value
	return s.save()
}

// Keys returns all currently-set global keys, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data.Global))
	for k := range s.data.Global {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WorkspaceKeys returns all currently-set keys in the named workspace scope, sorted.
func (s *Store) WorkspaceKeys(workspace string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.data.Workspaces[workspace]
	keys := make([]string, 0, len(ws))
	for k := range ws {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset clears all global and workspace state and persists the empty store.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = storeData{Global: map[string]any{}}
	return s.save()
}

// save persists the store to disk. Callers hold s.mu. Transient filesystem
// errors are retried with bounded exponential backoff; the write goes through
// a temporary file so a crash never leaves a truncated state file behind.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(20*time.Millisecond),
		backoff.WithMaxInterval(100*time.Millisecond),
		backoff.WithMaxElapsedTime(2*time.Second),
	)

	writeErr := backoff.Retry(func() error {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
			return err
		}
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, raw, 0o600); err != nil {
			return err
		}
		return os.Rename(tmp, s.path)
	}, b)
	if writeErr != nil {
		s.log.Error(writeErr, "failed to persist state", "path", s.path)
		return fmt.Errorf("failed to persist state to '%s': %w", s.path, writeErr)
	}

	return nil
}
