// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword([]byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash = %q, want $argon2id$v=19$ prefix", hash)
	}

	ok, err := VerifyPassword(hash, []byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword(hash, []byte("wrong password"))
	if err != nil {
		t.Fatalf("VerifyPassword(wrong): %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword([]byte("same password"))
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword([]byte("same password"))
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical, salt is not working")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plain text",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",        // wrong variant
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",       // wrong version
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",          // bad salt encoding
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",             // empty hash
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",                 // bad parameters
	}

	for _, encoded := range cases {
		if _, err := VerifyPassword(encoded, []byte("pw")); err == nil {
			t.Errorf("VerifyPassword(%q): expected error for malformed hash", encoded)
		}
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"alice", "bob-2", "a.b_c", "x9"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"Alice",       // uppercase
		"a b",         // space
		".dot",        // leading dot
		"-dash",       // leading dash
		"name:colon",
		strings.Repeat("a", 65),
	}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestGeneratePassword(t *testing.T) {
	first, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	second, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if first == second {
		t.Error("two generated passwords are identical")
	}
	if len(first) != 24 {
		t.Errorf("password length = %d, want 24", len(first))
	}
}
