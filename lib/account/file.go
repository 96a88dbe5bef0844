// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/fernwiki/fern/lib/storage"
)

// File is the accounts file: named account hashes for multi mode and
// the shared credential hash for single mode. Both may be present; the
// server mode decides which one logins consult.
type File struct {
	// SinglePasswordHash is the argon2id hash of the shared credential
	// used in single mode. Empty until bootstrap.
	SinglePasswordHash string `yaml:"single_password_hash,omitempty"`

	// Accounts maps account name to argon2id hash.
	Accounts map[string]string `yaml:"accounts,omitempty"`
}

// LoadFile reads the accounts file at path. A missing file is an empty
// File, not an error: a fresh wiki has no accounts yet.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing accounts file %s: %w", path, err)
	}
	return &file, nil
}

// Save writes the accounts file atomically with owner-only
// permissions. The atomic write also serializes concurrent updaters:
// a fern account command racing the server's single-mode bootstrap
// surfaces as a write conflict instead of a corrupt file.
func (file *File) Save(path string) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding accounts file: %w", err)
	}

	pending, err := storage.CreateFile(path, 0600)
	if err != nil {
		return err
	}
	defer pending.Abandon()

	if _, err := pending.Write(data); err != nil {
		return err
	}
	return pending.Commit()
}

// SetAccount stores the hash for name, replacing any previous one.
func (file *File) SetAccount(name, hash string) {
	if file.Accounts == nil {
		file.Accounts = make(map[string]string)
	}
	file.Accounts[name] = hash
}

// RemoveAccount deletes name. Returns false when the name was not
// present.
func (file *File) RemoveAccount(name string) bool {
	if _, exists := file.Accounts[name]; !exists {
		return false
	}
	delete(file.Accounts, name)
	return true
}

// Names returns the account names in sorted order.
func (file *File) Names() []string {
	names := make([]string, 0, len(file.Accounts))
	for name := range file.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VerifyAccount checks password against the named account. An unknown
// name is a mismatch. A damaged stored hash surfaces as an error so
// operators learn the accounts file needs repair.
func (file *File) VerifyAccount(name string, password []byte) (bool, error) {
	hash, exists := file.Accounts[name]
	if !exists {
		return false, nil
	}
	return VerifyPassword(hash, password)
}

// VerifySingle checks password against the shared single-mode
// credential. Fails when no credential has been bootstrapped yet.
func (file *File) VerifySingle(password []byte) (bool, error) {
	if file.SinglePasswordHash == "" {
		return false, nil
	}
	return VerifyPassword(file.SinglePasswordHash, password)
}
