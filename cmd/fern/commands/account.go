// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/lib/account"
	"github.com/fernwiki/fern/lib/secret"
)

func accountCommand() *cli.Command {
	return &cli.Command{
		Name:    "account",
		Summary: "Manage wiki accounts",
		Description: `Manage the accounts file used in multi mode.

Accounts are stored as argon2id hashes; the password itself is never
written anywhere. Changes take effect on the next login without a
server restart, because the server reads the accounts file per login.`,
		Subcommands: []*cli.Command{
			accountAddCommand(),
			accountRemoveCommand(),
			accountListCommand(),
		},
	}
}

func accountAddCommand() *cli.Command {
	var (
		configPath   string
		passwordFile string
	)
	return &cli.Command{
		Name:    "add",
		Summary: "Add an account or reset its password",
		Description: `Add an account, or reset the password of an existing one.

The password comes from --password-file if given ("-" means stdin),
from stdin when it is piped, and otherwise from an interactive prompt
with echo disabled.`,
		Usage: "fern account add NAME [--password-file PATH]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("add", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "Config file (default: FERN_CONFIG, then built-in defaults)")
			flags.StringVar(&passwordFile, "password-file", "", "Read the password from this file ('-' for stdin)")
			return flags
		},
		Examples: []cli.Example{
			{
				Description: "Add an account interactively",
				Command:     "fern account add alice",
			},
			{
				Description: "Scripted, reading the password from stdin",
				Command:     "fern secret | fern account add deploy-bot --password-file -",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: fern account add NAME")
			}
			name := args[0]
			if err := account.ValidateName(name); err != nil {
				return err
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			password, err := readPassword(passwordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			hash, err := account.HashPassword(password.Bytes())
			if err != nil {
				return err
			}

			accountsPath := cfg.AccountsPath()
			file, err := account.LoadFile(accountsPath)
			if err != nil {
				return err
			}
			verb := "added to"
			if _, exists := file.Accounts[name]; exists {
				verb = "updated in"
			}
			file.SetAccount(name, hash)
			if err := file.Save(accountsPath); err != nil {
				return err
			}

			fmt.Printf("Account %q %s %s\n", name, verb, accountsPath)
			return nil
		},
	}
}

func accountRemoveCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "remove",
		Summary: "Remove an account",
		Description: `Remove an account from the accounts file.

Existing sessions for the account keep working until they expire;
removal only prevents new logins.`,
		Usage: "fern account remove NAME",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("remove", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "Config file (default: FERN_CONFIG, then built-in defaults)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: fern account remove NAME")
			}
			name := args[0]

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			accountsPath := cfg.AccountsPath()
			file, err := account.LoadFile(accountsPath)
			if err != nil {
				return err
			}
			if !file.RemoveAccount(name) {
				return fmt.Errorf("no account named %q in %s", name, accountsPath)
			}
			if err := file.Save(accountsPath); err != nil {
				return err
			}

			fmt.Printf("Account %q removed from %s\n", name, accountsPath)
			return nil
		},
	}
}

func accountListCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "list",
		Summary: "List account names",
		Usage:   "fern account list",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "Config file (default: FERN_CONFIG, then built-in defaults)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("list takes no arguments")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			accountsPath := cfg.AccountsPath()
			file, err := account.LoadFile(accountsPath)
			if err != nil {
				return err
			}

			names := file.Names()
			if len(names) == 0 && file.SinglePasswordHash == "" {
				fmt.Printf("No accounts in %s\n", accountsPath)
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			if file.SinglePasswordHash != "" {
				fmt.Println("(site password set for single mode)")
			}
			return nil
		},
	}
}

// readPassword obtains a password for hashing. An explicit path wins,
// piped stdin is read as one line, and a terminal gets an interactive
// double prompt with echo disabled. The prompt goes to stderr so the
// command composes in pipelines.
func readPassword(path string) (*secret.Buffer, error) {
	if path != "" {
		return secret.ReadFromPath(path)
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return secret.ReadFromPath("-")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		secret.Zero(first)
		return nil, fmt.Errorf("reading password confirmation: %w", err)
	}

	match := bytes.Equal(first, second)
	secret.Zero(second)
	if !match {
		secret.Zero(first)
		return nil, fmt.Errorf("passwords do not match")
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("password must not be empty")
	}
	return secret.NewFromBytes(first)
}
