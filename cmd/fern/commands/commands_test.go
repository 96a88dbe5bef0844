// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fernwiki/fern/lib/config"
)

func writeConfigFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fern.yaml")
	if err := os.WriteFile(path, []byte("data: "+data+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "wiki-data")
	path := writeConfigFile(t, dataDir)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data != dataDir {
		t.Errorf("Data = %q, want %q", cfg.Data, dataDir)
	}
	// Unset fields come from the defaults.
	if cfg.Address != config.Default().Address {
		t.Errorf("Address = %q, want default %q", cfg.Address, config.Default().Address)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "wiki-data")
	path := writeConfigFile(t, dataDir)
	t.Setenv("FERN_CONFIG", path)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data != dataDir {
		t.Errorf("Data = %q, want %q", cfg.Data, dataDir)
	}
}

func TestLoadConfigExplicitPathWinsOverEnv(t *testing.T) {
	envData := filepath.Join(t.TempDir(), "env-data")
	flagData := filepath.Join(t.TempDir(), "flag-data")
	t.Setenv("FERN_CONFIG", writeConfigFile(t, envData))

	cfg, err := loadConfig(writeConfigFile(t, flagData))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data != flagData {
		t.Errorf("Data = %q, want the --config value %q", cfg.Data, flagData)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FERN_CONFIG", "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Mode != config.ModeMulti {
		t.Errorf("Mode = %q, want %q", cfg.Mode, config.ModeMulti)
	}
	if cfg.Data == "" {
		t.Error("default Data is empty")
	}
}

func TestRootCommandTree(t *testing.T) {
	root := Root()
	if root.Name != "fern" {
		t.Errorf("Name = %q, want fern", root.Name)
	}

	want := []string{"init", "secret", "account", "check", "view", "browse", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Subcommands {
			if sub.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
