// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Version of the application, overridden by release builds.
	Version = "dev"

	// Revision is the VCS commit the binary was built from.
	Revision = "HEAD"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}
	settings := map[string]string{}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	applyBuildInfo(info.Main.Version, settings)
}

// applyBuildInfo populates Version and Revision from Go build metadata
// when ldflags didn't provide real values.
func applyBuildInfo(mainVersion string, settings map[string]string) {
	if Version == "dev" || Version == "" {
		if v := mainVersion; v != "" && v != "(devel)" {
			Version = strings.TrimPrefix(v, "v")
		}
	}
	if Revision == "HEAD" || Revision == "" {
		if r := settings["vcs.revision"]; r != "" {
			if settings["vcs.modified"] == "true" {
				r += "-dirty"
			}
			Revision = r
		}
	}
}

// Short returns a concise version string, e.g. "0.3.0 (5e23a4)".
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, Revision)
}
