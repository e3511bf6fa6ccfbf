// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

const (
	reasonConflict   = "directory conflict"
	reasonMissing    = "missing"
	reasonNotARepo   = "not a git repository"
	reasonPullFailed = "pull failed"
)

// Syncer walks a parsed configuration forest depth-first and
// materializes it on the filesystem, one git command at a time.
type Syncer struct {
	Cfg Config
	Git Git
	out io.Writer
	res Result
}

// Sync parses the configuration file and synchronizes every root in it.
// Structural parse errors abort the run before any filesystem mutation;
// per-repository failures are reported and the walk continues.
func Sync(cfg Config) error {
	roots, err := ParseFile(cfg.ConfigPath)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stderr)
	if cfg.Quiet {
		out = io.Discard
	}

	slog.Debug("synchronizing", "config", cfg.ConfigPath, "mode", cfg.Mode, "force", cfg.Force)

	s := &Syncer{Cfg: cfg, Git: &CLI{Progress: out}, out: out}
	s.printResult(s.run(roots))
	return nil
}

func (s *Syncer) run(roots []*Node) Result {
	s.res = Result{}
	for _, root := range roots {
		s.syncDir(root, SyncContext{Mode: s.Cfg.Mode, Force: s.Cfg.Force, Dir: root.Label})
	}
	return s.res
}

// syncDir handles one root or directory node at the accumulated path
// ctx.Dir, then descends into its children. Pull mode never creates or
// removes directories.
func (s *Syncer) syncDir(n *Node, ctx SyncContext) {
	if ctx.Mode == ModeClone {
		if err := ensureDir(ctx.Dir, ctx.Force); err != nil {
			s.warn("directory setup failed", ctx.Dir, err)
			return
		}
	}
	for _, c := range n.Children {
		if c.Kind == KindRepo {
			s.syncRepo(c.Label, ctx)
			continue
		}
		child := ctx
		child.Dir = filepath.Join(ctx.Dir, c.Label)
		s.syncDir(c, child)
	}
}

// syncRepo visits one repository node bound to ctx.Dir. The working
// copy lands in the directory a plain git clone would create there.
func (s *Syncer) syncRepo(url string, ctx SyncContext) {
	target := filepath.Join(ctx.Dir, repoDirName(url))
	if ctx.Mode == ModePull {
		s.pullRepo(target, ctx.Force)
		return
	}
	s.cloneRepo(url, target, ctx.Force)
}

func (s *Syncer) cloneRepo(url, target string, force bool) {
	if force {
		if err := os.RemoveAll(target); err != nil {
			s.warn("remove failed", target, err)
			return
		}
		s.clone(url, target)
		return
	}

	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		s.clone(url, target)
	case err != nil:
		s.warn("stat failed", target, err)
	case !info.IsDir():
		s.skip(target, reasonConflict, "existing path is not a directory")
	default:
		entries, err := os.ReadDir(target)
		if err != nil {
			s.warn("read failed", target, err)
			return
		}
		if len(entries) == 0 {
			s.clone(url, target)
			return
		}
		remote, err := s.Git.RemoteURL(target)
		switch {
		case errors.Is(err, ErrNotWorkingCopy):
			s.skip(target, reasonConflict, "existing content is not a git repository")
		case err != nil:
			s.warn("remote check failed", target, err)
		case remote == url:
			slog.Debug("repository already cloned", "dir", target)
			s.res.UpToDate = append(s.res.UpToDate, RepoResult{Path: target, Detail: "already cloned"})
		case remote == "":
			s.skip(target, reasonConflict, "no remote configured")
		default:
			s.skip(target, reasonConflict, "remote is "+remote)
		}
	}
}

func (s *Syncer) clone(url, target string) {
	slog.Info("cloning repository", "url", url, "dir", target)
	if err := s.Git.Clone(url, target); err != nil {
		s.warn("clone failed", target, err)
		return
	}
	s.res.Cloned = append(s.res.Cloned, RepoResult{Path: target})
}

func (s *Syncer) pullRepo(target string, force bool) {
	if _, err := os.Stat(target); os.IsNotExist(err) {
		s.skip(target, reasonMissing, "")
		return
	}
	if _, err := s.Git.RemoteURL(target); err != nil {
		if errors.Is(err, ErrNotWorkingCopy) {
			s.skip(target, reasonNotARepo, "")
			return
		}
		s.warn("remote check failed", target, err)
		return
	}
	if force {
		slog.Debug("discarding local changes", "dir", target)
		if err := s.Git.DiscardLocalChanges(target); err != nil {
			s.warn("discard failed", target, err)
			return
		}
	}
	slog.Info("pulling repository", "dir", target)
	changed, err := s.Git.Pull(target)
	if err != nil {
		s.skip(target, reasonPullFailed, err.Error())
		return
	}
	if changed {
		s.res.Pulled = append(s.res.Pulled, RepoResult{Path: target})
	} else {
		s.res.UpToDate = append(s.res.UpToDate, RepoResult{Path: target, Detail: "already up to date"})
	}
}

func (s *Syncer) skip(path, reason, detail string) {
	slog.Warn("skipping repository", "dir", path, "reason", reason, "detail", detail)
	s.res.Skipped = append(s.res.Skipped, SkippedRepo{Path: path, Reason: reason, Detail: detail})
}

func (s *Syncer) warn(what, path string, err error) {
	slog.Warn(what, "dir", path, "err", err)
	s.res.Warnings = append(s.res.Warnings, fmt.Sprintf("%s: %s: %v", what, path, err))
}

func (s *Syncer) log(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Syncer) printResult(r Result) {
	if len(r.Cloned) > 0 {
		s.log("%s: %d repos\n", green("Cloned"), len(r.Cloned))
		for _, repo := range r.Cloned {
			s.log("  - %s\n", repo.Path)
		}
	}

	if len(r.Pulled) > 0 {
		s.log("%s: %d repos\n", green("Pulled"), len(r.Pulled))
		for _, repo := range r.Pulled {
			s.log("  - %s\n", repo.Path)
		}
	}

	if len(r.UpToDate) > 0 {
		s.log("%s: %d repos\n", green("Up to date"), len(r.UpToDate))
		for _, repo := range r.UpToDate {
			if repo.Detail != "" {
				s.log("  - %s (%s)\n", repo.Path, repo.Detail)
			} else {
				s.log("  - %s\n", repo.Path)
			}
		}
	}

	var reasons []string
	grouped := make(map[string][]SkippedRepo)
	for _, skip := range r.Skipped {
		if _, ok := grouped[skip.Reason]; !ok {
			reasons = append(reasons, skip.Reason)
		}
		grouped[skip.Reason] = append(grouped[skip.Reason], skip)
	}
	for _, reason := range reasons {
		skips := grouped[reason]
		s.log("%s (%s): %d repos\n", yellow("Skipped"), reason, len(skips))
		for _, skip := range skips {
			if skip.Detail != "" {
				s.log("  - %s (%s)\n", skip.Path, skip.Detail)
			} else {
				s.log("  - %s\n", skip.Path)
			}
		}
	}

	if len(r.Warnings) > 0 {
		s.log("%s:\n", red("Warnings"))
		for _, w := range r.Warnings {
			s.log("  - %s\n", w)
		}
	}
}

// ensureDir makes dir exist. With force it is removed first, so the
// resulting directory holds only what the walk puts back into it.
func ensureDir(dir string, force bool) error {
	if force {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		slog.Debug("recreating directory", "dir", dir)
		return os.MkdirAll(dir, 0o755)
	}
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%s exists and is not a directory", dir)
	case os.IsNotExist(err):
		slog.Debug("creating directory", "dir", dir)
		return os.MkdirAll(dir, 0o755)
	default:
		return err
	}
}
