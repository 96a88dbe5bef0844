// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/lib/browseui"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/storage"
	"github.com/fernwiki/fern/lib/store"
)

func viewCommand() *cli.Command {
	var (
		configPath string
		width      int
	)
	return &cli.Command{
		Name:    "view",
		Summary: "Render one page to the terminal",
		Description: `Render a page's markdown to the terminal, with the same styling the
browse preview uses. Output degrades to plain text when piped.`,
		Usage: "fern view PAGE",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("view", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "Config file (default: FERN_CONFIG, then built-in defaults)")
			flags.IntVar(&width, "width", 0, "Render width (default: the terminal width)")
			return flags
		},
		Examples: []cli.Example{
			{
				Description: "Render the front page",
				Command:     "fern view index",
			},
			{
				Description: "Fixed width, for piping into a pager",
				Command:     "fern view guides/deploy --width 80 | less -R",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: fern view PAGE")
			}
			ref := store.NormalizeRef(args[0])

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			pageStore, err := openStore(cfg)
			if err != nil {
				return err
			}

			doc, err := pageStore.Load(ref)
			if err != nil {
				if storage.IsNotFound(err) {
					return fmt.Errorf("page %q does not exist", ref)
				}
				if parseError, ok := document.AsParseError(err); ok {
					return fmt.Errorf("page %q is damaged (%s); run fern check", ref, parseError.Kind)
				}
				return err
			}

			renderWidth := width
			if renderWidth <= 0 {
				renderWidth = 80
				if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
					renderWidth = tw
				}
			}
			if renderWidth < 20 {
				renderWidth = 20
			}

			theme := browseui.DefaultTheme
			title := lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.HeaderForeground).
				Render(doc.Metadata.Title)
			meta := lipgloss.NewStyle().
				Foreground(theme.FaintText).
				Render(ref + "  ·  view: " + doc.Metadata.ViewRule.String() + "  ·  edit: " + doc.Metadata.EditRule.String())
			separator := lipgloss.NewStyle().
				Foreground(theme.BorderColor).
				Render(strings.Repeat("─", renderWidth))

			fmt.Println(title)
			fmt.Println(meta)
			fmt.Println(separator)
			fmt.Println(browseui.Render(doc.Body, theme, renderWidth))
			return nil
		},
	}
}
