/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package debug

import (
	"fmt"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
)

// mergeEnv layers environment sources, lowest to highest precedence:
// the ambient tool-execution environment, then env-file contents (later
// files override earlier ones), then the configuration's inline env.
func mergeEnv(ambient map[string]string, envFiles []string, inline map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(ambient)+len(inline))
	for name, value := range ambient {
		merged[name] = value
	}

	for _, file := range envFiles {
		if expanded, err := homedir.Expand(file); err == nil {
			file = expanded
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file '%s': %w", file, err)
		}
		for name, value := range values {
			merged[name] = value
		}
	}

	for name, value := range inline {
		merged[name] = value
	}

	return merged, nil
}
