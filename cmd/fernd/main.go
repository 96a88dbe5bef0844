// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Fernd is the fern wiki server. It loads the config, opens the page
// store, and serves the wiki over HTTP until SIGINT or SIGTERM.
//
// On startup:
//  1. Resolves config: --config flag, then FERN_CONFIG, then defaults.
//  2. Decodes the session signing key into guarded memory, or
//     generates an ephemeral one (with a warning: sessions then die
//     with the process).
//  3. In single mode, generates and stores the site password hash if
//     none exists yet. The password itself is logged exactly once.
//  4. Serves until signalled, then drains in-flight requests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fernwiki/fern/lib/account"
	"github.com/fernwiki/fern/lib/config"
	"github.com/fernwiki/fern/lib/secret"
	"github.com/fernwiki/fern/lib/service"
	"github.com/fernwiki/fern/lib/session"
	"github.com/fernwiki/fern/lib/store"
	"github.com/fernwiki/fern/lib/version"
	"github.com/fernwiki/fern/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "config file path (default: $FERN_CONFIG)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("fernd %s\n", version.Info())
		return nil
	}

	logger := service.NewLogger()

	var (
		cfg *config.Config
		err error
	)
	switch {
	case configPath != "":
		cfg, err = config.LoadFile(configPath)
	case os.Getenv("FERN_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
		logger.Info("no config file; using built-in defaults", "data", cfg.Data)
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	// The signing key lives in guarded memory (mmap-backed, mlock'd,
	// zeroed on close) for the life of the process.
	keyBytes, err := cfg.SecretKeyBytes()
	if err != nil {
		return err
	}
	if keyBytes == nil {
		keyBytes, err = session.GenerateKey()
		if err != nil {
			return err
		}
		logger.Warn("no secret_key configured; sessions will not survive a restart (generate one with fern secret)")
	}
	keyBuffer, err := secret.NewFromBytes(keyBytes)
	if err != nil {
		return err
	}
	defer keyBuffer.Close()

	ttl, err := cfg.SessionTTL()
	if err != nil {
		return err
	}
	sessions, err := session.NewCodec(keyBuffer.Bytes(), ttl)
	if err != nil {
		return err
	}

	if cfg.Mode == config.ModeSingle {
		if err := ensureSitePassword(cfg, logger); err != nil {
			return err
		}
	}

	pageStore, err := store.NewStore(cfg.PagesDir())
	if err != nil {
		return err
	}

	webServer, err := web.NewServer(web.ServerConfig{
		Store:         pageStore,
		AccountsPath:  cfg.AccountsPath(),
		Mode:          cfg.Mode,
		CreateRule:    cfg.CreateRule,
		DiscoveryRule: cfg.DiscoveryRule,
		Sessions:      sessions,
		TemplatesDir:  cfg.Templates,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.Address,
		Handler: webServer.Handler(),
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("fernd starting",
		"version", version.Short(),
		"address", cfg.Address,
		"mode", cfg.Mode,
		"data", cfg.Data,
	)
	return httpServer.Serve(ctx)
}

// ensureSitePassword bootstraps single mode: when the accounts file
// holds no site password yet, generate one, persist only its hash, and
// log the password. This log line is the only place the password ever
// appears; to rotate it, delete single_password_hash from the accounts
// file and restart.
func ensureSitePassword(cfg *config.Config, logger *slog.Logger) error {
	accountsPath := cfg.AccountsPath()
	file, err := account.LoadFile(accountsPath)
	if err != nil {
		return err
	}
	if file.SinglePasswordHash != "" {
		return nil
	}

	password, err := account.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := account.HashPassword([]byte(password))
	if err != nil {
		return err
	}
	file.SinglePasswordHash = hash
	if err := file.Save(accountsPath); err != nil {
		return fmt.Errorf("saving site password: %w", err)
	}
	logger.Warn("generated site password; it is logged only this once", "password", password)
	return nil
}
