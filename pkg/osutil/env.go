/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package osutil

import (
	"os"
	"sort"
	"strings"
)

// EnvironMap returns the ambient process environment as a name-to-value map.
func EnvironMap() map[string]string {
	environ := os.Environ()
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		m[name] = value
	}
	return m
}

// JoinEnv converts a name-to-value map into the NAME=VALUE form expected by
// os/exec, with deterministic (sorted) ordering.
func JoinEnv(env map[string]string) []string {
	joined := make([]string, 0, len(env))
	for name, value := range env {
		joined = append(joined, name+"="+value)
	}
	sort.Strings(joined)
	return joined
}

// EnvVarStringWithDefault returns the value of the environment variable, or
// defaultVal if it is unset or blank.
func EnvVarStringWithDefault(varName string, defaultVal string) string {
	val, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(val) == "" {
		return defaultVal
	}
	return val
}

// EnvVarSwitchEnabled returns true if the environment variable "switch" is
// set to one of the truthy values: "1", "true", "on", or "yes".
func EnvVarSwitchEnabled(varName string) bool {
	value, found := os.LookupEnv(varName)
	if !found {
		return false
	}

	value = strings.TrimSpace(value)
	return strings.EqualFold(value, "1") ||
		strings.EqualFold(value, "true") ||
		strings.EqualFold(value, "on") ||
		strings.EqualFold(value, "yes")
}
