/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package version

import (
	"strconv"
	"time"
)

const DevelopmentVersion = "dev"

// Set at build time via -ldflags.
var (
	ProductVersion = DevelopmentVersion
	CommitHash     = ""
	BuildTimestamp = ""
)

type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commitHash,omitempty"`
	BuildTime  string `json:"buildTimestamp,omitempty"`
}

// Get returns the build's version information. BuildTimestamp is accepted
// either as a Unix timestamp or in RFC 3339 form.
func Get() Info {
	buildTime := ""
	if BuildTimestamp != "" {
		if unix, err := strconv.ParseInt(BuildTimestamp, 10, 64); err == nil {
			buildTime = time.Unix(unix, 0).UTC().Format(time.RFC3339)
		} else if parsed, err := time.Parse(time.RFC3339, BuildTimestamp); err == nil {
			buildTime = parsed.Format(time.RFC3339)
		}
	}

	productVersion := ProductVersion
	if productVersion == "" {
		productVersion = DevelopmentVersion
	}

	return Info{
		Version:    productVersion,
		CommitHash: CommitHash,
		BuildTime:  buildTime,
	}
}
