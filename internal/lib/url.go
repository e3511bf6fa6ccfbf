// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"regexp"
	"strings"
)

// scpLikeRe matches the SSH shorthand remote form user@host:path.
var scpLikeRe = regexp.MustCompile(`^[\w.~+-]+@[\w.-]+:\S+$`)

// isRemoteURL reports whether a trimmed configuration line is a remote
// repository URL rather than a path segment.
func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "ssh://") ||
		strings.HasPrefix(s, "git://") ||
		scpLikeRe.MatchString(s)
}

// repoDirName returns the directory name a clone of url creates: the
// final path segment with any trailing slash and .git suffix stripped.
func repoDirName(url string) string {
	name := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
