// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the fern server.
//
// Configuration is loaded from a single file specified by either the
// FERN_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This keeps configuration deterministic
// and auditable: the file is the single source of truth.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${FERN_DATA}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/session"
)

// Mode selects how visitors authenticate.
type Mode string

const (
	// ModeAnonymous runs without accounts. Nobody can log in, so pages
	// restricted to authenticated readers are unreachable until the mode
	// changes.
	ModeAnonymous Mode = "anonymous"
	// ModeSingle shares one password for the whole site. Whoever presents
	// it acts as the site's single actor and passes every restriction.
	ModeSingle Mode = "single"
	// ModeMulti authenticates against named accounts from the accounts
	// file.
	ModeMulti Mode = "multi"
)

// Config is the master configuration for a fern server.
type Config struct {
	// Address is the host:port the HTTP server listens on.
	Address string `yaml:"address"`

	// Data is the base directory for server state. Pages live in
	// <data>/pages.
	Data string `yaml:"data"`

	// Accounts is the path of the accounts file. Empty means
	// <data>/accounts.yaml.
	Accounts string `yaml:"accounts"`

	// SecretKey is the base64-encoded 32-byte key that signs session
	// cookies. Empty means the server generates an ephemeral key at
	// startup and warns: sessions then die with the process.
	SecretKey string `yaml:"secret_key"`

	// Mode selects the authentication model (anonymous, single, multi).
	Mode Mode `yaml:"mode"`

	// CreateRule gates creating pages that do not exist yet. Existing
	// pages carry their own edit rule.
	CreateRule access.Rule `yaml:"create_rule"`

	// DiscoveryRule gates the page tree listing.
	DiscoveryRule access.Rule `yaml:"discovery_rule"`

	// SessionMaxAge is how long a session cookie stays valid, as a Go
	// duration string. Empty means sessions never expire.
	SessionMaxAge string `yaml:"session_max_age"`

	// Templates optionally points at a directory of HTML templates that
	// override the embedded ones. Empty uses the embedded set.
	Templates string `yaml:"templates"`
}

// Default returns the default configuration. These defaults are the base
// that the config file is merged over, so every field has a sensible value
// even when the file only sets a few keys.
func Default() *Config {
	return &Config{
		Address:       "127.0.0.1:8338",
		Data:          defaultDataDir(),
		Mode:          ModeMulti,
		CreateRule:    access.Authenticated(),
		DiscoveryRule: access.Authenticated(),
		SessionMaxAge: "720h",
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.FromSlash("/var/lib/fern")
	}
	return filepath.Join(homeDir, ".local", "share", "fern")
}

// Load loads configuration from the FERN_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// If FERN_CONFIG is not set, this fails rather than guessing.
func Load() (*Config, error) {
	configPath := os.Getenv("FERN_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("FERN_CONFIG environment variable not set; " +
			"set it to the path of your fern.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The file is merged over [Default]. Environment variables do not override
// config values; the only expansion performed is ${HOME} and similar path
// variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields. Data is expanded first so the other paths can reference it as
// ${FERN_DATA}.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"FERN_DATA": c.Data,
		"HOME":      os.Getenv("HOME"),
	}

	c.Data = expandVars(c.Data, vars)
	vars["FERN_DATA"] = c.Data

	c.Accounts = expandVars(c.Accounts, vars)
	c.Templates = expandVars(c.Templates, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// PagesDir returns the directory that holds the wiki pages.
func (c *Config) PagesDir() string {
	return filepath.Join(c.Data, "pages")
}

// AccountsPath returns the location of the accounts file.
func (c *Config) AccountsPath() string {
	if c.Accounts != "" {
		return c.Accounts
	}
	return filepath.Join(c.Data, "accounts.yaml")
}

// SecretKeyBytes decodes the configured session signing key. An empty
// SecretKey returns (nil, nil): the caller decides whether to generate an
// ephemeral key.
func (c *Config) SecretKeyBytes() ([]byte, error) {
	if c.SecretKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("secret_key is not valid base64: %w", err)
	}
	if len(key) != session.KeyLength {
		return nil, fmt.Errorf("secret_key must decode to %d bytes, got %d", session.KeyLength, len(key))
	}
	return key, nil
}

// SessionTTL parses the configured session lifetime. An empty
// SessionMaxAge returns zero, which means sessions never expire.
func (c *Config) SessionTTL() (time.Duration, error) {
	if c.SessionMaxAge == "" {
		return 0, nil
	}
	age, err := time.ParseDuration(c.SessionMaxAge)
	if err != nil {
		return 0, fmt.Errorf("session_max_age: %w", err)
	}
	if age < 0 {
		return 0, fmt.Errorf("session_max_age must not be negative: %s", c.SessionMaxAge)
	}
	return age, nil
}

// Validate checks the configuration for errors. All problems are reported
// at once rather than one per run.
func (c *Config) Validate() error {
	var errs []error

	if c.Address == "" {
		errs = append(errs, fmt.Errorf("address is required"))
	} else if _, _, err := net.SplitHostPort(c.Address); err != nil {
		errs = append(errs, fmt.Errorf("address: %w", err))
	}

	if c.Data == "" {
		errs = append(errs, fmt.Errorf("data is required"))
	}

	switch c.Mode {
	case ModeAnonymous, ModeSingle, ModeMulti:
	default:
		errs = append(errs, fmt.Errorf("mode must be one of: anonymous, single, multi (got %q)", c.Mode))
	}

	if _, err := c.SecretKeyBytes(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.SessionTTL(); err != nil {
		errs = append(errs, err)
	}

	if c.Templates != "" {
		if info, err := os.Stat(c.Templates); err != nil {
			errs = append(errs, fmt.Errorf("templates: %w", err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("templates: %s is not a directory", c.Templates))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the data directories if they don't exist.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Data,
		c.PagesDir(),
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}
