// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotWorkingCopy reports that a directory holds no git working copy.
var ErrNotWorkingCopy = errors.New("not a git working copy")

// Git is everything the sync engine needs from the version-control
// tool. The production implementation shells out to the git binary;
// tests substitute a fake and assert on call sequences.
type Git interface {
	// Clone clones url into dir.
	Clone(url, dir string) error
	// Pull refreshes the working copy in dir and reports whether HEAD
	// moved.
	Pull(dir string) (changed bool, err error)
	// RemoteURL returns the configured origin URL of the working copy
	// in dir, "" if none is configured, or ErrNotWorkingCopy.
	RemoteURL(dir string) (string, error)
	// DiscardLocalChanges irreversibly reverts uncommitted changes to
	// tracked files in dir. Untracked files and a clean tree are left
	// untouched.
	DiscardLocalChanges(dir string) error
}

// CLI runs the git binary out of process, one command at a time.
type CLI struct {
	Progress io.Writer // clone output streams here; nil discards it
}

func (c *CLI) Clone(url, dir string) error {
	out := c.Progress
	if out == nil {
		out = io.Discard
	}
	cmd := exec.Command("git", "clone", url, dir)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone %s: %w", url, err)
	}
	return nil
}

func (c *CLI) Pull(dir string) (bool, error) {
	headBefore, err := c.run(dir, "rev-parse", "HEAD")
	if err != nil {
		return false, err
	}
	if _, err := c.run(dir, "pull"); err != nil {
		return false, err
	}
	headAfter, err := c.run(dir, "rev-parse", "HEAD")
	if err != nil {
		return false, err
	}
	return headBefore != headAfter, nil
}

func (c *CLI) RemoteURL(dir string) (string, error) {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil || !info.IsDir() {
		return "", ErrNotWorkingCopy
	}
	out, err := c.run(dir, "config", "--get", "remote.origin.url")
	if err != nil {
		// git config --get exits 1 when the key is unset.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *CLI) DiscardLocalChanges(dir string) error {
	// Untracked files are excluded so the check agrees with what a
	// plain stash saves; a tree with only untracked changes is clean
	// here, and stashing it would save nothing and break the drop.
	out, err := c.run(dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return nil
	}
	if _, err := c.run(dir, "stash", "push", "-m", "gitgrove"); err != nil {
		return err
	}
	_, err = c.run(dir, "stash", "drop")
	return err
}

func (c *CLI) run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
