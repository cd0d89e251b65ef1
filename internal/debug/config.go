/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package debug resolves user-authored debug configurations into a form the
// debugger backend accepts, and drives debug sessions against that backend.
package debug

// DefaultAdapterType is the adapter id used when a configuration omits "type".
const DefaultAdapterType = "go"

// Request kinds.
const (
	RequestLaunch = "launch"
	RequestAttach = "attach"
)

// Debug modes. ModeAuto is only valid in user configurations; resolution
// concretizes it to ModeDebug or ModeTest.
const (
	ModeAuto   = "auto"
	ModeDebug  = "debug"
	ModeTest   = "test"
	ModeExec   = "exec"
	ModeRemote = "remote"
)

// Stable warning-suppression keys. These are persisted in the state store, so
// renaming one would resurface warnings users already dismissed.
const (
	WarnKeyGCFlagsInBuildFlags = "ignoreDebugGCFlagsWarning"
	WarnKeyGCFlagsInGoflags    = "ignoreDebugInGOFLAGSGCFlagsWarning"
	WarnKeyLaunchRemote        = "ignoreDebugLaunchRemoteWarning"
	WarnKeyAttachRemoteProgram = "ignoreAttachRemoteProgramWarning"
)

// Configuration is a debug configuration: named options with adapter-specific
// passthrough fields, as authored by the user (possibly partial) or as
// resolved for the backend. The map form mirrors the untyped arguments of a
// DAP launch/attach request.
type Configuration map[string]any

// String returns the string value stored under key, or "" when the key is
// absent or holds a non-string.
func (c Configuration) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Bool returns the boolean stored under key and whether it was present.
func (c Configuration) Bool(key string) (value, found bool) {
	value, found = c[key].(bool)
	return value, found
}

// StringMap returns the name-to-value mapping stored under key. Values of
// type map[string]any (the shape produced by JSON decoding) are converted;
// non-string entries are dropped.
func (c Configuration) StringMap(key string) map[string]string {
	switch v := c[key].(type) {
	case map[string]string:
		m := make(map[string]string, len(v))
		for name, value := range v {
			m[name] = value
		}
		return m
	case map[string]any:
		m := make(map[string]string, len(v))
		for name, value := range v {
			if s, ok := value.(string); ok {
				m[name] = s
			}
		}
		return m
	default:
		return nil
	}
}

// StringList returns the value under key as a list of strings: a single
// string becomes a one-element list, and list entries that are not strings
// are dropped.
func (c Configuration) StringList(key string) []string {
	switch v := c[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		var list []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return list
	default:
		return nil
	}
}

// Clone returns a shallow copy. Resolution never mutates the caller's
// configuration in place.
func (c Configuration) Clone() Configuration {
	clone := make(Configuration, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}
