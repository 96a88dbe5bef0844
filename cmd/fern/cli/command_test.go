// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "fern",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "check",
				Run: func(args []string) error {
					called = "check"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"check"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "check" {
		t.Errorf("dispatched to %q, want %q", called, "check")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "fern",
		Subcommands: []*Command{
			{
				Name: "account",
				Subcommands: []*Command{
					{
						Name: "add",
						Run: func(args []string) error {
							called = "account add"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"account", "add", "alice"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "account add" {
		t.Errorf("dispatched to %q, want %q", called, "account add")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "alice" {
		t.Errorf("args = %v, want [alice]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var dataDir string
	var target string

	command := &Command{
		Name: "view",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("view", pflag.ContinueOnError)
			flagSet.StringVar(&dataDir, "data", "/default/data", "data directory")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--data", "/custom/data", "guides/deploy"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if dataDir != "/custom/data" {
		t.Errorf("dataDir = %q, want %q", dataDir, "/custom/data")
	}
	if target != "guides/deploy" {
		t.Errorf("target = %q, want %q", target, "guides/deploy")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "check",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.Bool("fix", false, "repair what can be repaired")
			flagSet.String("config", "", "config file path")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--fxi"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --fix") {
		t.Errorf("error = %q, want suggestion for '--fix'", errStr)
	}
	if !strings.Contains(errStr, "fxi") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "check",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.Bool("fix", false, "repair what can be repaired")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "fern",
		Subcommands: []*Command{
			{Name: "account"},
			{Name: "browse"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"acount"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"account\"") {
		t.Errorf("error = %q, want suggestion for 'account'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "fern",
		Subcommands: []*Command{
			{Name: "account"},
			{Name: "browse"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "fern",
				Summary: "File-backed wiki",
				Subcommands: []*Command{
					{Name: "account", Summary: "Manage accounts"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "fern",
		Subcommands: []*Command{
			{Name: "account", Summary: "Manage accounts"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "fern",
		Description: "Wiki operations from the command line.",
		Subcommands: []*Command{
			{Name: "init", Summary: "Create a new wiki"},
			{Name: "check", Summary: "Verify every page file"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Create a wiki in the default location",
				Command:     "fern init",
			},
			{
				Description: "Verify and repair page files",
				Command:     "fern check --fix",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Wiki operations from the command line.",
		"Usage:",
		"fern <command> [flags]",
		"Commands:",
		"init",
		"Create a new wiki",
		"check",
		"Verify every page file",
		"Examples:",
		"fern init",
		"fern check --fix",
		"Run 'fern <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "view",
		Summary: "Render a page to the terminal",
		Usage:   "fern view <ref> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("view", pflag.ContinueOnError)
			flagSet.String("config", "", "config file path")
			flagSet.Int("width", 0, "wrap width (0 = terminal width)")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"fern view <ref> [flags]",
		"Flags:",
		"config",
		"width",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "fern"}
	account := &Command{Name: "account", parent: root}
	add := &Command{Name: "add", parent: account}

	if got := root.fullName(); got != "fern" {
		t.Errorf("root.fullName() = %q, want %q", got, "fern")
	}
	if got := account.fullName(); got != "fern account" {
		t.Errorf("account.fullName() = %q, want %q", got, "fern account")
	}
	if got := add.fullName(); got != "fern account add" {
		t.Errorf("add.fullName() = %q, want %q", got, "fern account add")
	}
}
