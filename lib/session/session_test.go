// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"strings"
	"testing"
	"time"

	"github.com/fernwiki/fern/lib/access"
)

func testCodec(t *testing.T, maxAge time.Duration) *Codec {
	t.Helper()
	key := make([]byte, KeyLength)
	for i := range key {
		key[i] = byte(i)
	}
	codec, err := NewCodec(key, maxAge)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := testCodec(t, time.Hour)

	s, err := New(access.Named("alice"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	value, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, ok := codec.Decode(value)
	if !ok {
		t.Fatal("Decode: rejected a freshly encoded session")
	}
	if decoded.Account != "alice" {
		t.Errorf("Account = %q, want %q", decoded.Account, "alice")
	}
	if decoded.Identity() != access.Named("alice") {
		t.Errorf("Identity = %v, want %v", decoded.Identity(), access.Named("alice"))
	}
	if decoded.FormToken() != s.FormToken() {
		t.Error("form token changed across encode/decode")
	}
}

func TestSingleModeSession(t *testing.T) {
	codec := testCodec(t, time.Hour)

	s, err := New(access.SingleActor())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	value, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, ok := codec.Decode(value)
	if !ok {
		t.Fatal("Decode: rejected single-mode session")
	}
	if decoded.Identity() != access.SingleActor() {
		t.Errorf("Identity = %v, want single actor", decoded.Identity())
	}
}

func TestNewRejectsUnauthenticated(t *testing.T) {
	if _, err := New(access.Unauthenticated()); err == nil {
		t.Error("New(unauthenticated): expected error")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	first, err := New(access.Named("a"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(access.Named("a"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if first.FormToken() == second.FormToken() {
		t.Error("two sessions share an ID")
	}
}

func TestDecodeRejectsTampering(t *testing.T) {
	codec := testCodec(t, time.Hour)

	s, err := New(access.Named("alice"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	value, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Flip one character at a time; no variant may verify.
	for position := 0; position < len(value); position++ {
		flipped := []byte(value)
		if flipped[position] == 'A' {
			flipped[position] = 'B'
		} else {
			flipped[position] = 'A'
		}
		if string(flipped) == value {
			continue
		}
		if _, ok := codec.Decode(string(flipped)); ok {
			t.Fatalf("tampered token at position %d verified", position)
		}
	}
}

func TestDecodeRejectsWrongKey(t *testing.T) {
	codec := testCodec(t, time.Hour)

	otherKey := make([]byte, KeyLength)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	otherCodec, err := NewCodec(otherKey, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	s, err := New(access.Named("alice"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	value, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, ok := otherCodec.Decode(value); ok {
		t.Error("token signed with one key verified under another")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec := testCodec(t, time.Hour)

	for _, value := range []string{
		"",
		"not base64 !!!",
		"QQ",                              // too short to hold a tag
		strings.Repeat("A", 200),          // valid base64, wrong content
	} {
		if _, ok := codec.Decode(value); ok {
			t.Errorf("Decode(%q) verified", value)
		}
	}
}

func TestDecodeExpiry(t *testing.T) {
	codec := testCodec(t, time.Hour)

	s, err := New(access.Named("alice"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	value, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, ok := codec.DecodeAt(value, s.IssuedAt.Add(30*time.Minute)); !ok {
		t.Error("session rejected before expiry")
	}
	if _, ok := codec.DecodeAt(value, s.IssuedAt.Add(2*time.Hour)); ok {
		t.Error("session verified after expiry")
	}
}

func TestNoExpiryWhenMaxAgeZero(t *testing.T) {
	codec := testCodec(t, 0)

	s, err := New(access.Named("alice"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	value, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, ok := codec.DecodeAt(value, s.IssuedAt.Add(24*365*time.Hour)); !ok {
		t.Error("session with no max age expired")
	}
}

func TestVerifyFormToken(t *testing.T) {
	s, err := New(access.Named("alice"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !s.VerifyFormToken(s.FormToken()) {
		t.Error("session rejected its own form token")
	}
	if s.VerifyFormToken("") {
		t.Error("session accepted an empty form token")
	}
	if s.VerifyFormToken("deadbeef") {
		t.Error("session accepted a wrong form token")
	}

	// No session: only the empty token is acceptable.
	var none *Session
	if !none.VerifyFormToken("") {
		t.Error("nil session rejected the empty token")
	}
	if none.VerifyFormToken("deadbeef") {
		t.Error("nil session accepted a non-empty token")
	}
}

func TestNewCodecKeyLength(t *testing.T) {
	if _, err := NewCodec(make([]byte, 16), time.Hour); err == nil {
		t.Error("NewCodec accepted a short key")
	}
	if _, err := NewCodec(nil, time.Hour); err == nil {
		t.Error("NewCodec accepted a nil key")
	}
}
