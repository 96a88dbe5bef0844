// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/account"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/session"
	"github.com/fernwiki/fern/lib/storage"
	"github.com/fernwiki/fern/lib/store"
)

func initCommand() *cli.Command {
	var (
		configPath string
		dataDir    string
		address    string
		mode       string
		force      bool
	)
	return &cli.Command{
		Name:    "init",
		Summary: "Create a new wiki",
		Description: `Create a new wiki: a config file, the data directory, an empty
accounts file, and a front page.

The generated config carries a fresh session signing key, so sessions
survive server restarts out of the box. Pass the config to the server
with FERN_CONFIG or fernd --config.`,
		Usage: "fern init [--config PATH] [--data DIR] [--address ADDR] [--mode MODE]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("init", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "fern.yaml", "Path of the config file to create")
			flags.StringVar(&dataDir, "data", "", "Data directory (default: the per-user data directory)")
			flags.StringVar(&address, "address", "", "Listen address to record in the config")
			flags.StringVar(&mode, "mode", string(config.ModeMulti), "Authentication mode: anonymous, single, or multi")
			flags.BoolVar(&force, "force", false, "Overwrite an existing config file")
			return flags
		},
		Examples: []cli.Example{
			{
				Description: "Create a wiki with defaults",
				Command:     "fern init",
			},
			{
				Description: "A public wiki anyone can edit, served on all interfaces",
				Command:     "fern init --mode anonymous --address 0.0.0.0:8338",
			},
			{
				Description: "Keep everything under one directory",
				Command:     "fern init --config wiki/fern.yaml --data wiki/data",
			},
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("init takes no arguments")
			}
			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
				}
			}

			cfg := config.Default()
			if dataDir != "" {
				cfg.Data = dataDir
			}
			if address != "" {
				cfg.Address = address
			}
			cfg.Mode = config.Mode(mode)

			key, err := session.GenerateKey()
			if err != nil {
				return fmt.Errorf("generating session key: %w", err)
			}
			cfg.SecretKey = base64.StdEncoding.EncodeToString(key)

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.EnsurePaths(); err != nil {
				return err
			}

			accountsPath := cfg.AccountsPath()
			if _, err := os.Stat(accountsPath); errors.Is(err, fs.ErrNotExist) {
				empty := &account.File{}
				if err := empty.Save(accountsPath); err != nil {
					return fmt.Errorf("creating accounts file: %w", err)
				}
			}

			pageStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			frontExists, err := pageStore.Exists(store.IndexPage)
			if err != nil {
				return err
			}
			if !frontExists {
				if err := pageStore.Save(store.IndexPage, frontPage()); err != nil {
					return fmt.Errorf("creating front page: %w", err)
				}
			}

			if err := writeConfig(configPath, cfg, force); err != nil {
				return err
			}

			fmt.Printf("Created %s\n", configPath)
			fmt.Printf("  data directory  %s\n", cfg.Data)
			fmt.Printf("  accounts file   %s\n", accountsPath)
			fmt.Printf("  mode            %s\n", cfg.Mode)
			fmt.Printf("\nStart the server with:\n  FERN_CONFIG=%s fernd\n", configPath)
			return nil
		},
	}
}

// writeConfig writes the config file through the same atomic path pages
// use. With force set, a pre-existing target is replaced; a concurrent
// writer on the same path still surfaces as a conflict.
func writeConfig(path string, cfg *config.Config, force bool) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	pending, err := storage.CreateFile(path, 0600)
	if err != nil {
		if storage.IsConflict(err) && force {
			// A crashed earlier run can leave the temp file behind;
			// --force clears it and retries once.
			os.Remove(path + storage.TempSuffix)
			pending, err = storage.CreateFile(path, 0600)
		}
		if err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}
	defer pending.Abandon()
	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := pending.Commit(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// frontPage is the page a fresh wiki starts with: world-readable,
// editable by anyone signed in.
func frontPage() *document.Document {
	return &document.Document{
		Metadata: document.Metadata{
			Title:    "Welcome",
			ViewRule: access.Anonymous(),
			EditRule: access.Authenticated(),
		},
		Body: `# Welcome

This is your wiki's front page. Edit it to make it yours.

Some places to start:

- Create a page by visiting an address that does not exist yet.
- Group related pages into sections with ` + "`/`" + ` in the address,
  like ` + "`guides/deploy`" + `.
- Browse everything from the terminal with ` + "`fern browse`" + `.
`,
	}
}
