// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/lib/browseui"
)

func browseCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "browse",
		Summary: "Browse the wiki in the terminal",
		Description: `Browse the wiki in a full-screen terminal interface: a page tree on
the left, a rendered preview on the right, fuzzy filtering with /.

Reads the page files directly, so it works with or without a running
server.`,
		Usage: "fern browse",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("browse", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "Config file (default: FERN_CONFIG, then built-in defaults)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("browse takes no arguments")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			pageStore, err := openStore(cfg)
			if err != nil {
				return err
			}

			model, err := browseui.NewModel(pageStore)
			if err != nil {
				return err
			}
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}
}
