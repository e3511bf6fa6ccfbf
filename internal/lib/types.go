// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package lib

// Kind classifies one line of the configuration tree.
type Kind int

const (
	// KindRoot is a top-level entry holding an absolute path.
	KindRoot Kind = iota
	// KindDir is a nested entry holding a single relative path segment.
	KindDir
	// KindRepo is a leaf entry holding a remote URL, bound to its
	// enclosing directory.
	KindRepo
)

// Node is one entry of the parsed configuration forest. Children keep
// insertion order; only roots and directories have children.
type Node struct {
	Label    string
	Kind     Kind
	Children []*Node
}

// Mode selects what the engine does at repository nodes.
type Mode int

const (
	ModeClone Mode = iota
	ModePull
)

func (m Mode) String() string {
	if m == ModePull {
		return "pull"
	}
	return "clone"
}

// SyncContext is passed down the walk, one value per recursion level.
// Dir is the absolute path of the enclosing directory so far.
type SyncContext struct {
	Mode  Mode
	Force bool
	Dir   string
}

type Config struct {
	ConfigPath string
	Mode       Mode
	Force      bool
	Quiet      bool
}

type Result struct {
	Cloned   []RepoResult
	Pulled   []RepoResult
	UpToDate []RepoResult
	Skipped  []SkippedRepo
	Warnings []string
}

type RepoResult struct {
	Path   string
	Detail string
}

type SkippedRepo struct {
	Path   string
	Reason string
	Detail string
}
