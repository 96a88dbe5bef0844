// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package access implements the permission model for wiki pages. A
// page's metadata carries one Rule for viewing and one for editing; the
// server presents each request's caller as an Identity; Evaluate maps
// the pair to a Verdict. Evaluation is a pure function over plain
// values, no clock, no configuration, no I/O, so every combination is
// testable in isolation.
//
// The verdict is three-way rather than boolean because the caller's
// correct reaction differs: Unauthorized is final for this identity,
// while AuthenticationRequired means logging in may change the answer,
// so the web layer redirects to the login form instead of rendering a
// refusal.
package access

import (
	"fmt"
	"slices"
)

// Verdict is the outcome of evaluating an Identity against a Rule.
type Verdict int

const (
	// Unauthorized: the identity is known and the rule refuses it.
	// The zero value, so an uninitialized verdict denies.
	Unauthorized Verdict = iota

	// Authorized: the operation may proceed.
	Authorized

	// AuthenticationRequired: the rule wants an identified caller and
	// the request carried none. The caller should be offered a login,
	// not a refusal.
	AuthenticationRequired
)

// String returns the verdict as a stable lowercase token for logs.
func (verdict Verdict) String() string {
	switch verdict {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case AuthenticationRequired:
		return "authentication_required"
	}
	return fmt.Sprintf("verdict(%d)", int(verdict))
}

// RuleKind discriminates the three rule forms.
type RuleKind int

const (
	// RuleAccounts: only the listed account names. The zero value, so
	// a zero Rule is an empty account list and denies every named
	// identity.
	RuleAccounts RuleKind = iota

	// RuleAnonymous: everyone, identified or not.
	RuleAnonymous

	// RuleAuthenticated: any identified caller.
	RuleAuthenticated
)

// Rule is the permission attached to one operation on one page. Rules
// are data: they are stored in page metadata and in the server
// configuration, and travel with the document they guard.
type Rule struct {
	kind     RuleKind
	accounts []string
}

// Anonymous returns the rule that admits everyone.
func Anonymous() Rule {
	return Rule{kind: RuleAnonymous}
}

// Authenticated returns the rule that admits any identified caller.
func Authenticated() Rule {
	return Rule{kind: RuleAuthenticated}
}

// Accounts returns the rule that admits exactly the named accounts.
// An empty list is a valid rule that admits no named identity.
func Accounts(names ...string) Rule {
	return Rule{kind: RuleAccounts, accounts: slices.Clone(names)}
}

// Kind returns the rule's discriminator.
func (rule Rule) Kind() RuleKind {
	return rule.kind
}

// AccountNames returns a copy of the admitted account names. Empty for
// anonymous and authenticated rules.
func (rule Rule) AccountNames() []string {
	return slices.Clone(rule.accounts)
}

// Equal reports whether two rules admit exactly the same callers.
// Account order matters to keep the comparison cheap and stable; the
// codec preserves order, so round-tripped rules compare equal.
func (rule Rule) Equal(other Rule) bool {
	return rule.kind == other.kind && slices.Equal(rule.accounts, other.accounts)
}

// String renders the rule the way it is written in page metadata.
func (rule Rule) String() string {
	switch rule.kind {
	case RuleAnonymous:
		return "anonymous"
	case RuleAuthenticated:
		return "authenticated"
	case RuleAccounts:
		return fmt.Sprintf("accounts:%v", rule.accounts)
	}
	return fmt.Sprintf("rule(%d)", int(rule.kind))
}

type identityKind int

const (
	identityUnauthenticated identityKind = iota
	identitySingleActor
	identityNamed
)

// Identity is the caller's authentication state as presented to
// Evaluate. Identities are comparable with ==; equality is total, which
// set-membership checks rely on.
type Identity struct {
	kind identityKind
	name string
}

// Unauthenticated returns the identity of a caller with no session.
// Also the zero value of Identity.
func Unauthenticated() Identity {
	return Identity{}
}

// SingleActor returns the identity of the sole user in
// single-credential mode. It carries no name; there is nobody to
// distinguish it from.
func SingleActor() Identity {
	return Identity{kind: identitySingleActor}
}

// Named returns the identity of the account with the given name.
func Named(name string) Identity {
	return Identity{kind: identityNamed, name: name}
}

// Authenticated reports whether the identity carries any credential.
func (identity Identity) Authenticated() bool {
	return identity.kind != identityUnauthenticated
}

// Name returns the account name and true for a named identity, and
// "" and false otherwise.
func (identity Identity) Name() (string, bool) {
	if identity.kind != identityNamed {
		return "", false
	}
	return identity.name, true
}

// String returns the identity as a stable token for logs.
func (identity Identity) String() string {
	switch identity.kind {
	case identityUnauthenticated:
		return "unauthenticated"
	case identitySingleActor:
		return "single"
	case identityNamed:
		return "account:" + identity.name
	}
	return fmt.Sprintf("identity(%d)", int(identity.kind))
}

// Evaluate returns the verdict for identity performing an operation
// guarded by rule. This is the single place the authorization table
// lives; both the read and the write path go through it.
//
// The table:
//
//	anonymous rule        → authorized, for every identity
//	single actor          → authorized, for every rule
//	unauthenticated       → authentication required (rule is not anonymous)
//	named + authenticated → authorized
//	named + accounts      → authorized iff the name is listed
//
// Each identity kind is handled by an explicit case. The trailing
// return denies identities this package did not construct.
func Evaluate(identity Identity, rule Rule) Verdict {
	if rule.kind == RuleAnonymous {
		return Authorized
	}

	switch identity.kind {
	case identitySingleActor:
		return Authorized
	case identityUnauthenticated:
		return AuthenticationRequired
	case identityNamed:
		switch rule.kind {
		case RuleAuthenticated:
			return Authorized
		case RuleAccounts:
			if slices.Contains(rule.accounts, identity.name) {
				return Authorized
			}
			return Unauthorized
		}
	}

	return Unauthorized
}
