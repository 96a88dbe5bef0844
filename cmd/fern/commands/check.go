// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/cmd/fern/cli/doctor"
	"github.com/fernwiki/fern/lib/account"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/storage"
	"github.com/fernwiki/fern/lib/store"
)

func checkCommand() *cli.Command {
	var (
		configPath string
		fix        bool
		dryRun     bool
		verbose    bool
	)
	return &cli.Command{
		Name:    "check",
		Summary: "Verify the wiki's files",
		Description: `Verify the wiki's files: the data directory layout, the accounts
file, the session key, and every page.

Pages that do not parse are reported as failures and make the command
exit non-zero; they need human repair. Pages that parse but are not
stored in canonical form (foreign line endings, extra spacing) are
warnings, and --fix rewrites them through the same atomic write path
the server uses. Leftover temporary files from a crashed writer block
future saves of their page; --fix removes them.`,
		Usage: "fern check [--fix] [--dry-run]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "Config file (default: FERN_CONFIG, then built-in defaults)")
			flags.BoolVar(&fix, "fix", false, "Repair what can be repaired")
			flags.BoolVar(&dryRun, "dry-run", false, "Show what --fix would do without doing it")
			flags.BoolVar(&verbose, "verbose", false, "Log check and repair detail to stderr")
			return flags
		},
		Examples: []cli.Example{
			{
				Description: "Report only",
				Command:     "fern check",
			},
			{
				Description: "Preview repairs, then apply them",
				Command:     "fern check --dry-run && fern check --fix",
			},
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("check takes no arguments")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(verbose).With("command", "check")

			logger.Debug("running checks", "data", cfg.Data)
			results := runChecks(cfg)

			var outcome doctor.Outcome
			if fix {
				outcome = doctor.ExecuteFixes(context.Background(), results, dryRun)
				logger.Debug("fixes executed",
					"fixed", outcome.FixedCount,
					"dry_run", dryRun,
					"permission_denied", outcome.PermissionDenied)
			}
			return doctor.PrintChecklist(results, fix, dryRun, outcome)
		},
	}
}

// runChecks inspects the wiki's on-disk state and returns one result
// per check. Page checks are summarized into a single row, with an
// extra row per problem page so healthy wikis stay readable.
func runChecks(cfg *config.Config) []doctor.Result {
	var results []doctor.Result

	info, err := os.Stat(cfg.Data)
	switch {
	case err != nil:
		results = append(results, doctor.FailWithFix(
			"data directory", "missing: "+cfg.Data,
			"create it",
			func(ctx context.Context) error { return cfg.EnsurePaths() },
		))
		results = append(results,
			doctor.Skip("pages directory", "data directory missing"),
			doctor.Skip("accounts file", "data directory missing"),
			doctor.Skip("pages", "data directory missing"),
		)
		results = append(results, checkSecretKey(cfg))
		return results
	case !info.IsDir():
		results = append(results, doctor.Fail("data directory", cfg.Data+" is not a directory"))
		results = append(results,
			doctor.Skip("pages directory", "data directory unusable"),
			doctor.Skip("accounts file", "data directory unusable"),
			doctor.Skip("pages", "data directory unusable"),
		)
		results = append(results, checkSecretKey(cfg))
		return results
	default:
		results = append(results, doctor.Pass("data directory", cfg.Data))
	}

	pagesDir := cfg.PagesDir()
	pagesUsable := true
	if info, err := os.Stat(pagesDir); err != nil {
		pagesUsable = false
		results = append(results, doctor.WarnWithFix(
			"pages directory", "missing (created on first save)",
			"create it",
			func(ctx context.Context) error { return cfg.EnsurePaths() },
		))
	} else if !info.IsDir() {
		pagesUsable = false
		results = append(results, doctor.Fail("pages directory", pagesDir+" is not a directory"))
	} else {
		results = append(results, doctor.Pass("pages directory", pagesDir))
	}

	results = append(results, checkAccountsFile(cfg))
	results = append(results, checkSecretKey(cfg))

	if !pagesUsable {
		results = append(results, doctor.Skip("pages", "pages directory unusable"))
		return results
	}

	results = append(results, staleTempChecks(pagesDir)...)
	results = append(results, pageChecks(pagesDir)...)
	return results
}

func checkAccountsFile(cfg *config.Config) doctor.Result {
	accountsPath := cfg.AccountsPath()
	if _, err := os.Stat(accountsPath); err != nil {
		return doctor.Pass("accounts file", "not created yet")
	}
	file, err := account.LoadFile(accountsPath)
	if err != nil {
		return doctor.Fail("accounts file", err.Error())
	}
	message := fmt.Sprintf("%d account(s)", len(file.Names()))
	if file.SinglePasswordHash != "" {
		message += ", site password set"
	}
	return doctor.Pass("accounts file", message)
}

func checkSecretKey(cfg *config.Config) doctor.Result {
	key, err := cfg.SecretKeyBytes()
	if err != nil {
		return doctor.Fail("secret key", err.Error())
	}
	if key == nil {
		return doctor.Warn("secret key", "not set; sessions will not survive a restart")
	}
	return doctor.Pass("secret key", "set")
}

// staleTempChecks reports leftover temporary files under the pages
// directory. A temp file left by a crashed writer blocks every future
// save of its page, so each one gets its own fixable row.
func staleTempChecks(pagesDir string) []doctor.Result {
	var results []doctor.Result
	filepath.WalkDir(pagesDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, storage.TempSuffix) {
			return nil
		}
		relative, relErr := filepath.Rel(pagesDir, path)
		if relErr != nil {
			relative = path
		}
		stalePath := path
		results = append(results, doctor.WarnWithFix(
			relative, "stale temporary file; blocks writes to its page",
			"remove it",
			func(ctx context.Context) error { return os.Remove(stalePath) },
		))
		return nil
	})
	return results
}

// pageChecks parses every page and classifies the damaged ones. The
// healthy pages collapse into one summary row.
func pageChecks(pagesDir string) []doctor.Result {
	pageStore, err := store.NewStore(pagesDir)
	if err != nil {
		return []doctor.Result{doctor.Fail("pages", err.Error())}
	}

	var (
		cleanCount int
		totalCount int
		problems   []doctor.Result
	)
	walkErr := pageStore.Walk(func(ref, path string) error {
		totalCount++
		result, clean := checkPage(ref, path)
		if clean {
			cleanCount++
		} else {
			problems = append(problems, result)
		}
		return nil
	})
	if walkErr != nil {
		return []doctor.Result{doctor.Fail("pages", "walking pages: "+walkErr.Error())}
	}

	summary := doctor.Pass("pages", fmt.Sprintf("%d of %d page(s) clean", cleanCount, totalCount))
	if totalCount == 0 {
		summary = doctor.Pass("pages", "no pages yet")
	}
	return append([]doctor.Result{summary}, problems...)
}

// checkPage verifies one page file: it must parse, and its stored
// bytes must match what the codec would write. A page that parses but
// is stored differently (CRLF endings, reordered metadata) still works
// everywhere, so that is a warning with a rewrite fix rather than a
// failure.
func checkPage(ref, path string) (doctor.Result, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return doctor.Fail("page "+ref, "unreadable: "+err.Error()), false
	}

	doc, err := document.Parse(bytes.NewReader(raw))
	if err != nil {
		if parseError, ok := document.AsParseError(err); ok {
			return doctor.Fail("page "+ref, "damaged: "+parseError.Error()), false
		}
		return doctor.Fail("page "+ref, err.Error()), false
	}

	var canonical bytes.Buffer
	if err := document.Serialize(doc, &canonical); err != nil {
		return doctor.Fail("page "+ref, "re-encoding: "+err.Error()), false
	}
	if !bytes.Equal(raw, canonical.Bytes()) {
		pagePath := path
		return doctor.WarnWithFix(
			"page "+ref, "stored form is not canonical (line endings or spacing)",
			"rewrite it",
			func(ctx context.Context) error { return doc.Save(pagePath) },
		), false
	}
	return doctor.Result{}, true
}
