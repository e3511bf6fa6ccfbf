// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShort(t *testing.T) {
	s := Short()
	require.Contains(t, s, Version)
	require.Contains(t, s, Revision)
}

func TestApplyBuildInfo_PopulatesDefaults(t *testing.T) {
	origVersion, origRevision := Version, Revision
	t.Cleanup(func() {
		Version, Revision = origVersion, origRevision
	})

	Version = "dev"
	Revision = "HEAD"

	applyBuildInfo("v1.2.3", map[string]string{
		"vcs.revision": "abcdef1234567890",
		"vcs.modified": "true",
	})

	require.Equal(t, "1.2.3", Version)
	require.Equal(t, "abcdef1234567890-dirty", Revision)
}

func TestApplyBuildInfo_DoesNotOverrideLdflags(t *testing.T) {
	origVersion, origRevision := Version, Revision
	t.Cleanup(func() {
		Version, Revision = origVersion, origRevision
	})

	Version = "9.9.9"
	Revision = "deadbeef"

	applyBuildInfo("v1.2.3", map[string]string{"vcs.revision": "abcdef"})

	require.Equal(t, "9.9.9", Version)
	require.Equal(t, "deadbeef", Revision)
}
