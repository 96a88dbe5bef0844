// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package account manages wiki credentials: argon2id password hashing
// and the accounts file that stores the hashes. The file holds only
// hashes, never passwords; losing it costs logins, not secrets.
package account

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters, following the values the algorithm's RFC draft
// recommends for interactive logins. Changing them only affects newly
// hashed passwords; stored hashes carry their own parameters.
const (
	hashTime    = 1
	hashMemory  = 64 * 1024 // KiB
	hashThreads = 4
	hashLength  = 32
	saltLength  = 16
)

// HashPassword derives an argon2id hash of password and encodes it in
// PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// with salt and hash in unpadded standard base64.
func HashPassword(password []byte) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey(password, salt, hashTime, hashMemory, hashThreads, hashLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, hashMemory, hashTime, hashThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword checks password against a PHC-encoded argon2id hash.
// The comparison is constant-time. A malformed hash string is an
// error, not a mismatch: it means the accounts file is damaged, and
// silently failing the login would hide that.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	salt, hash, time, memory, threads, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	derived := argon2.IDKey(password, salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, derived) == 1, nil
}

// decodeHash splits a PHC argon2id string into its parts. Only the
// argon2id variant at the current version is accepted.
func decodeHash(encoded string) (salt, hash []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, 0, 0, 0, fmt.Errorf("malformed password hash")
	}
	if parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported hash algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("malformed hash version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("malformed hash parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("malformed hash salt: %w", err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("malformed hash value: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, 0, 0, 0, fmt.Errorf("empty hash value")
	}
	return salt, hash, time, memory, threads, nil
}

// ValidateName checks an account name. Names appear in page access
// rules and in login forms; the character set keeps them unambiguous
// in both.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("account name is empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("account name is %d characters, maximum is 64", len(name))
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		valid := c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.' || c == '_' || c == '-'
		if !valid {
			return fmt.Errorf("invalid character %q in account name (allowed: a-z, 0-9, ., _, -)", c)
		}
	}
	if name[0] == '.' || name[0] == '-' {
		return fmt.Errorf("account name must start with a letter or digit")
	}
	return nil
}

// GeneratePassword returns a random password for single-credential
// bootstrap: 18 random bytes, base64url encoded, 24 characters.
func GeneratePassword() (string, error) {
	raw := make([]byte, 18)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
