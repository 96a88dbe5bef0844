// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the fern CLI command tree: wiki scaffolding,
// account management, page verification, and terminal browsing. The
// server side lives in fernd; everything here operates directly on the
// data directory.
package commands

import (
	"fmt"
	"os"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/store"
	"github.com/fernwiki/fern/lib/version"
)

// Root builds and returns the complete fern CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "fern",
		Description: `Fern: a file-backed wiki.

Pages are plain markdown files with a small metadata header, stored in
a directory tree. The fern command manages a wiki from the terminal;
fernd serves it over HTTP.`,
		Subcommands: []*cli.Command{
			initCommand(),
			secretCommand(),
			accountCommand(),
			checkCommand(),
			viewCommand(),
			browseCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("fern %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Create a wiki in the default location",
				Command:     "fern init",
			},
			{
				Description: "Add an account (prompts for a password)",
				Command:     "fern account add alice",
			},
			{
				Description: "Verify every page file, repairing what can be repaired",
				Command:     "fern check --fix",
			},
			{
				Description: "Browse the wiki in the terminal",
				Command:     "fern browse",
			},
			{
				Description: "Render one page to the terminal",
				Command:     "fern view guides/deploy",
			},
		},
	}
}

// loadConfig resolves configuration for a command: an explicit
// --config path wins, then FERN_CONFIG, then built-in defaults. CLI
// commands fall back to defaults so a fresh checkout works without
// any configuration; fernd does the same and says so in its logs.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("FERN_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// openStore opens the page store named by the configuration.
func openStore(cfg *config.Config) (*store.Store, error) {
	return store.NewStore(cfg.PagesDir())
}
