// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package session issues and verifies the browser session token. A
// token is the CBOR-encoded session payload followed by an HMAC-SHA256
// tag over it, base64url encoded into a cookie value:
//
//	base64url( cbor(payload) || hmac-sha256(key, cbor(payload)) )
//
// The payload is signed, not encrypted: it holds nothing secret, only
// the account name and a random session ID. The ID doubles as the
// request-forgery token, forms echo it in a hidden field and mutating
// handlers require the echo to match the cookie.
//
// Verification failures of any sort, bad encoding, wrong key, damaged
// payload, expiry, all read as "no session". A forged cookie earns the
// attacker exactly what not sending one would.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/fernwiki/fern/lib/access"
)

// KeyLength is the required HMAC key length in bytes.
const KeyLength = 32

// IDLength is the random session ID length in bytes. Generous, the ID
// is also the anti-forgery token.
const IDLength = 64

// encMode encodes payloads with Core Deterministic Encoding so the
// same session always signs to the same bytes.
var encMode cbor.EncMode

// tokenEncoding is unpadded base64url with strict decoding: a cookie
// value that is not the canonical encoding of its bytes fails to
// decode instead of aliasing a valid token.
var tokenEncoding = base64.RawURLEncoding.Strict()

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("session: CBOR encoder initialization failed: " + err.Error())
	}
}

// Session is an authenticated browser session.
type Session struct {
	// Account is the account name for named logins, empty in single
	// mode.
	Account string `cbor:"account,omitempty"`

	// Single marks a single-credential-mode session.
	Single bool `cbor:"single,omitempty"`

	// ID is the random per-session identifier, also used as the
	// anti-forgery form token.
	ID []byte `cbor:"id"`

	// IssuedAt is the login time, used for expiry. Second precision.
	IssuedAt time.Time `cbor:"issued_at"`
}

// New creates a session for identity with a fresh random ID. Only
// authenticated identities have sessions.
func New(identity access.Identity) (*Session, error) {
	id := make([]byte, IDLength)
	if _, err := rand.Read(id); err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	s := &Session{ID: id, IssuedAt: time.Now().UTC().Truncate(time.Second)}
	if name, named := identity.Name(); named {
		s.Account = name
	} else if identity.Authenticated() {
		s.Single = true
	} else {
		return nil, fmt.Errorf("unauthenticated identity has no session")
	}
	return s, nil
}

// Identity returns the access identity this session represents.
func (s *Session) Identity() access.Identity {
	if s == nil {
		return access.Unauthenticated()
	}
	if s.Single {
		return access.SingleActor()
	}
	return access.Named(s.Account)
}

// FormToken returns the value forms must echo in their hidden
// anti-forgery field: the session ID in hex.
func (s *Session) FormToken() string {
	if s == nil {
		return ""
	}
	return hex.EncodeToString(s.ID)
}

// VerifyFormToken checks a submitted anti-forgery field against the
// session. Without a session the field must be empty, an anonymous
// form post carries no token. With one, the field must equal the
// session's token; the comparison is constant-time.
func (s *Session) VerifyFormToken(formValue string) bool {
	if s == nil {
		return formValue == ""
	}
	expected := s.FormToken()
	return subtle.ConstantTimeCompare([]byte(formValue), []byte(expected)) == 1
}

// GenerateKey returns a fresh random signing key of KeyLength bytes.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	return key, nil
}

// Codec signs and verifies session tokens with a fixed key.
type Codec struct {
	key    []byte
	maxAge time.Duration
}

// NewCodec creates a Codec. The key must be exactly KeyLength bytes.
// maxAge bounds session lifetime; zero or negative means sessions
// never expire.
func NewCodec(key []byte, maxAge time.Duration) (*Codec, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("session key is %d bytes, want %d", len(key), KeyLength)
	}
	return &Codec{key: append([]byte(nil), key...), maxAge: maxAge}, nil
}

// MaxAge returns the configured session lifetime, zero when sessions
// never expire.
func (codec *Codec) MaxAge() time.Duration {
	return codec.maxAge
}

// Encode serializes and signs the session into a cookie value.
func (codec *Codec) Encode(s *Session) (string, error) {
	payload, err := encMode.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}

	mac := hmac.New(sha256.New, codec.key)
	mac.Write(payload)
	token := append(payload, mac.Sum(nil)...)

	return tokenEncoding.EncodeToString(token), nil
}

// Decode verifies and deserializes a cookie value. The second return
// is false for anything that does not verify: wrong encoding, wrong
// key, tampering, expiry. Callers treat false as an unauthenticated
// request.
func (codec *Codec) Decode(value string) (*Session, bool) {
	return codec.DecodeAt(value, time.Now())
}

// DecodeAt is Decode against an explicit clock, for expiry tests.
func (codec *Codec) DecodeAt(value string, now time.Time) (*Session, bool) {
	token, err := tokenEncoding.DecodeString(value)
	if err != nil || len(token) <= sha256.Size {
		return nil, false
	}

	payload := token[:len(token)-sha256.Size]
	tag := token[len(token)-sha256.Size:]

	mac := hmac.New(sha256.New, codec.key)
	mac.Write(payload)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, false
	}

	var s Session
	if err := cbor.Unmarshal(payload, &s); err != nil {
		return nil, false
	}
	if len(s.ID) != IDLength {
		return nil, false
	}
	if !s.Single && s.Account == "" {
		return nil, false
	}
	if codec.maxAge > 0 && now.After(s.IssuedAt.Add(codec.maxAge)) {
		return nil, false
	}
	return &s, true
}
