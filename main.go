// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"

	"github.com/bep/gitgrove/internal/lib"
	"github.com/bep/gitgrove/internal/version"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "gitgrove.txt"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		clone   bool
		pull    bool
		force   bool
		quiet   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "gitgrove [flags] [config]",
		Short: "Materialize and refresh a git workspace tree declared in one config file",
		Long: `gitgrove reads an indentation-structured configuration file describing a
directory tree with git remotes bound to its directories, then either
clones the missing repositories into place or pulls the existing ones.`,
		Version:      version.Short(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(quiet, verbose)

			cfg := lib.Config{
				ConfigPath: defaultConfigFile,
				Force:      force,
				Quiet:      quiet,
			}
			if len(args) > 0 {
				cfg.ConfigPath = args[0]
			}
			if pull {
				cfg.Mode = lib.ModePull
			}
			return lib.Sync(cfg)
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().BoolVarP(&clone, "clone", "c", false, "create the directory tree and clone missing repositories")
	cmd.Flags().BoolVarP(&pull, "pull", "p", false, "pull repositories that are already cloned")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "clone: replace existing directories; pull: discard local changes first")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.MarkFlagsOneRequired("clone", "pull")
	cmd.MarkFlagsMutuallyExclusive("clone", "pull")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

func setupLogger(quiet, verbose bool) {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}
