// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fernwiki/fern/cmd/fern/cli/doctor"
	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/document"
	"github.com/fernwiki/fern/lib/session"
	"github.com/fernwiki/fern/lib/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data = t.TempDir()
	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	return cfg
}

func savePage(t *testing.T, cfg *config.Config, ref, title, body string) string {
	t.Helper()
	pageStore, err := store.NewStore(cfg.PagesDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	doc := &document.Document{
		Metadata: document.Metadata{
			Title:    title,
			ViewRule: access.Anonymous(),
			EditRule: access.Authenticated(),
		},
		Body: body,
	}
	if err := pageStore.Save(ref, doc); err != nil {
		t.Fatalf("Save %s: %v", ref, err)
	}
	path, err := pageStore.FilePath(ref)
	if err != nil {
		t.Fatalf("FilePath %s: %v", ref, err)
	}
	return path
}

func findResult(t *testing.T, results []doctor.Result, name string) doctor.Result {
	t.Helper()
	for _, result := range results {
		if result.Name == name {
			return result
		}
	}
	t.Fatalf("no result named %q in %v", name, results)
	return doctor.Result{}
}

func TestCheckPageCanonical(t *testing.T) {
	cfg := testConfig(t)
	path := savePage(t, cfg, "notes", "Notes", "Line one.\n")

	result, clean := checkPage("notes", path)
	if !clean {
		t.Fatalf("canonical page reported unclean: %+v", result)
	}
}

func TestCheckPageNonCanonical(t *testing.T) {
	cfg := testConfig(t)
	path := savePage(t, cfg, "notes", "Notes", "Line one.\n")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	crlf := bytes.ReplaceAll(raw, []byte("\n"), []byte("\r\n"))
	if err := os.WriteFile(path, crlf, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result, clean := checkPage("notes", path)
	if clean {
		t.Fatal("CRLF page reported clean")
	}
	if result.Status != doctor.StatusWarn {
		t.Errorf("Status = %s, want %s", result.Status, doctor.StatusWarn)
	}
	if !result.HasFix() {
		t.Error("non-canonical page has no fix")
	}
	if !strings.Contains(result.Message, "canonical") {
		t.Errorf("Message = %q, want it to mention canonical form", result.Message)
	}

	// The fix rewrites the file through the codec; afterwards the
	// stored bytes match the canonical form exactly.
	results := []doctor.Result{result}
	outcome := doctor.ExecuteFixes(context.Background(), results, false)
	if outcome.FixedCount != 1 {
		t.Fatalf("FixedCount = %d, want 1", outcome.FixedCount)
	}
	if results[0].Status != doctor.StatusFixed {
		t.Errorf("post-fix Status = %s, want %s", results[0].Status, doctor.StatusFixed)
	}
	if _, clean := checkPage("notes", path); !clean {
		t.Error("page still unclean after fix")
	}
}

func TestCheckPageDamaged(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.PagesDir(), "broken.md")
	if err := os.WriteFile(path, []byte("no metadata here\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result, clean := checkPage("broken", path)
	if clean {
		t.Fatal("damaged page reported clean")
	}
	if result.Status != doctor.StatusFail {
		t.Errorf("Status = %s, want %s", result.Status, doctor.StatusFail)
	}
	if !strings.Contains(result.Message, "damaged") {
		t.Errorf("Message = %q, want it to say damaged", result.Message)
	}
	if result.HasFix() {
		t.Error("damaged page offers a fix; it needs human repair")
	}
}

func TestRunChecksHealthyWiki(t *testing.T) {
	cfg := testConfig(t)
	cfg.SecretKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, session.KeyLength))
	savePage(t, cfg, "index", "Home", "Welcome.\n")

	results := runChecks(cfg)
	for _, result := range results {
		if result.Status == doctor.StatusFail {
			t.Errorf("unexpected failure: %s: %s", result.Name, result.Message)
		}
	}

	pages := findResult(t, results, "pages")
	if !strings.Contains(pages.Message, "1 of 1") {
		t.Errorf("pages message = %q, want a 1 of 1 summary", pages.Message)
	}
	key := findResult(t, results, "secret key")
	if key.Status != doctor.StatusPass {
		t.Errorf("secret key status = %s, want %s", key.Status, doctor.StatusPass)
	}
}

func TestRunChecksMissingSecretKey(t *testing.T) {
	cfg := testConfig(t)

	key := findResult(t, runChecks(cfg), "secret key")
	if key.Status != doctor.StatusWarn {
		t.Errorf("secret key status = %s, want %s", key.Status, doctor.StatusWarn)
	}
}

func TestRunChecksMissingDataDir(t *testing.T) {
	cfg := config.Default()
	cfg.Data = filepath.Join(t.TempDir(), "absent")

	results := runChecks(cfg)

	data := findResult(t, results, "data directory")
	if data.Status != doctor.StatusFail {
		t.Fatalf("data directory status = %s, want %s", data.Status, doctor.StatusFail)
	}
	if !data.HasFix() {
		t.Fatal("missing data directory has no fix")
	}
	pages := findResult(t, results, "pages")
	if pages.Status != doctor.StatusSkip {
		t.Errorf("pages status = %s, want %s", pages.Status, doctor.StatusSkip)
	}

	outcome := doctor.ExecuteFixes(context.Background(), results, false)
	if outcome.FixedCount != 1 {
		t.Fatalf("FixedCount = %d, want 1", outcome.FixedCount)
	}
	if _, err := os.Stat(cfg.Data); err != nil {
		t.Errorf("data directory still missing after fix: %v", err)
	}
}

func TestRunChecksStaleTemp(t *testing.T) {
	cfg := testConfig(t)
	savePage(t, cfg, "index", "Home", "Welcome.\n")

	stale := filepath.Join(cfg.PagesDir(), "draft.md.tmp")
	if err := os.WriteFile(stale, []byte("partial write"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	results := runChecks(cfg)
	row := findResult(t, results, "draft.md.tmp")
	if row.Status != doctor.StatusWarn {
		t.Errorf("stale temp status = %s, want %s", row.Status, doctor.StatusWarn)
	}
	if !row.HasFix() {
		t.Fatal("stale temp has no fix")
	}

	doctor.ExecuteFixes(context.Background(), results, false)
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale temp still present after fix: %v", err)
	}
}
