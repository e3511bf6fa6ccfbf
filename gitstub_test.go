// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitStub fakes the handful of git commands gitgrove runs, keeping the
// scripts hermetic. A working copy is a directory with a .git holding
// marker files: ORIGIN is the configured remote, HEAD-REV the current
// commit, INCOMING a pending upstream commit that the next pull adopts,
// DIRTY marks uncommitted changes to tracked files, UNTRACKED marks
// untracked files (listed by status unless --untracked-files=no, never
// stashed, no obstacle to pulls) and STASH a stash entry.
func gitStub() {
	args := os.Args[1:]
	if len(args) == 0 {
		stubFail(129, "usage: git <command> [<args>]")
	}
	switch args[0] {
	case "clone":
		stubClone(args[1:])
	case "rev-parse":
		fmt.Println(stubRead("HEAD-REV"))
	case "pull":
		stubPull()
	case "config":
		stubConfig(args[1:])
	case "status":
		stubStatus(args[1:])
	case "stash":
		stubStash(args[1:])
	default:
		stubFail(129, "git: %q is not a stubbed command", args[0])
	}
}

func stubClone(args []string) {
	if len(args) != 2 {
		stubFail(129, "usage: git clone <url> <dir>")
	}
	url, dir := args[0], args[1]
	if strings.Contains(url, "unreachable") {
		stubFail(128, "fatal: unable to access '%s': Could not resolve host", url)
	}
	fmt.Fprintf(os.Stderr, "Cloning into '%s'...\n", dir)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		stubFail(128, "fatal: %v", err)
	}
	stubWrite(dir, "ORIGIN", url)
	stubWrite(dir, "HEAD-REV", "rev-1")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("cloned from "+url+"\n"), 0o644); err != nil {
		stubFail(128, "fatal: %v", err)
	}
}

func stubPull() {
	if _, err := os.Stat(stubPath("DIRTY")); err == nil {
		stubFail(1, "error: Your local changes to the following files would be overwritten by merge:\n\tREADME.md")
	}
	incoming := stubPath("INCOMING")
	b, err := os.ReadFile(incoming)
	if err != nil {
		fmt.Println("Already up to date.")
		return
	}
	old := stubRead("HEAD-REV")
	next := strings.TrimSpace(string(b))
	stubWrite(".", "HEAD-REV", next)
	if err := os.Remove(incoming); err != nil {
		stubFail(128, "fatal: %v", err)
	}
	fmt.Printf("Updating %s..%s\n", old, next)
}

func stubConfig(args []string) {
	if len(args) == 2 && args[0] == "--get" && args[1] == "remote.origin.url" {
		b, err := os.ReadFile(stubPath("ORIGIN"))
		if err != nil {
			os.Exit(1) // unset keys exit 1 with no output
		}
		fmt.Println(strings.TrimSpace(string(b)))
		return
	}
	stubFail(129, "git config: unsupported arguments %v", args)
}

func stubStatus(args []string) {
	showUntracked := true
	for _, a := range args {
		if a == "--untracked-files=no" {
			showUntracked = false
		}
	}
	if _, err := os.Stat(stubPath("DIRTY")); err == nil {
		fmt.Println(" M README.md")
	}
	if showUntracked {
		if _, err := os.Stat(stubPath("UNTRACKED")); err == nil {
			fmt.Println("?? untracked.txt")
		}
	}
}

func stubStash(args []string) {
	if len(args) == 0 {
		stubFail(129, "usage: git stash <push|drop>")
	}
	switch args[0] {
	case "push":
		if _, err := os.Stat(stubPath("DIRTY")); err != nil {
			fmt.Println("No local changes to save")
			return
		}
		if err := os.Remove(stubPath("DIRTY")); err != nil {
			stubFail(128, "fatal: %v", err)
		}
		stubWrite(".", "STASH", "stash")
		fmt.Println("Saved working directory and index state")
	case "drop":
		if err := os.Remove(stubPath("STASH")); err != nil {
			stubFail(1, "No stash entries found.")
		}
		fmt.Println("Dropped refs/stash@{0}")
	default:
		stubFail(129, "git stash: unsupported subcommand %q", args[0])
	}
}

func stubPath(name string) string {
	return filepath.Join(".git", name)
}

func stubRead(name string) string {
	b, err := os.ReadFile(stubPath(name))
	if err != nil {
		stubFail(128, "fatal: not a git repository (or any of the parent directories): .git")
	}
	return strings.TrimSpace(string(b))
}

func stubWrite(dir, name, content string) {
	if err := os.WriteFile(filepath.Join(dir, ".git", name), []byte(content+"\n"), 0o644); err != nil {
		stubFail(128, "fatal: %v", err)
	}
}

func stubFail(code int, format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(code)
}
