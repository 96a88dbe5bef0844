// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package access

import "testing"

// TestEvaluateTable covers every identity/rule combination. A missing
// row here would be a security hole, not a coverage gap, so the table
// is written out in full rather than generated.
func TestEvaluateTable(t *testing.T) {
	cases := []struct {
		name     string
		identity Identity
		rule     Rule
		want     Verdict
	}{
		{"unauthenticated/anonymous", Unauthenticated(), Anonymous(), Authorized},
		{"unauthenticated/authenticated", Unauthenticated(), Authenticated(), AuthenticationRequired},
		{"unauthenticated/accounts-listed", Unauthenticated(), Accounts("a"), AuthenticationRequired},
		{"unauthenticated/accounts-other", Unauthenticated(), Accounts("b"), AuthenticationRequired},

		{"single/anonymous", SingleActor(), Anonymous(), Authorized},
		{"single/authenticated", SingleActor(), Authenticated(), Authorized},
		{"single/accounts-listed", SingleActor(), Accounts("a"), Authorized},
		{"single/accounts-other", SingleActor(), Accounts("b"), Authorized},

		{"named/anonymous", Named("a"), Anonymous(), Authorized},
		{"named/authenticated", Named("a"), Authenticated(), Authorized},
		{"named/accounts-listed", Named("a"), Accounts("a"), Authorized},
		{"named/accounts-other", Named("a"), Accounts("b"), Unauthorized},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Evaluate(testCase.identity, testCase.rule)
			if got != testCase.want {
				t.Errorf("Evaluate(%v, %v) = %v, want %v",
					testCase.identity, testCase.rule, got, testCase.want)
			}
		})
	}
}

func TestEvaluateAccountsMembership(t *testing.T) {
	rule := Accounts("alice", "bob", "carol")

	if got := Evaluate(Named("bob"), rule); got != Authorized {
		t.Errorf("Evaluate(bob) = %v, want %v", got, Authorized)
	}
	if got := Evaluate(Named("mallory"), rule); got != Unauthorized {
		t.Errorf("Evaluate(mallory) = %v, want %v", got, Unauthorized)
	}

	// Name matching is exact, not prefix or case-folded.
	if got := Evaluate(Named("Alice"), rule); got != Unauthorized {
		t.Errorf("Evaluate(Alice) = %v, want %v", got, Unauthorized)
	}
	if got := Evaluate(Named("ali"), rule); got != Unauthorized {
		t.Errorf("Evaluate(ali) = %v, want %v", got, Unauthorized)
	}
}

func TestEvaluateEmptyAccountList(t *testing.T) {
	rule := Accounts()

	if got := Evaluate(Named("anyone"), rule); got != Unauthorized {
		t.Errorf("Evaluate(named, empty accounts) = %v, want %v", got, Unauthorized)
	}
	if got := Evaluate(Unauthenticated(), rule); got != AuthenticationRequired {
		t.Errorf("Evaluate(unauthenticated, empty accounts) = %v, want %v", got, AuthenticationRequired)
	}
	if got := Evaluate(SingleActor(), rule); got != Authorized {
		t.Errorf("Evaluate(single, empty accounts) = %v, want %v", got, Authorized)
	}
}

// TestEvaluateZeroValues pins the fail-closed behavior of zero values:
// a zero Identity is unauthenticated and a zero Rule admits no named
// caller.
func TestEvaluateZeroValues(t *testing.T) {
	var identity Identity
	var rule Rule

	if got := Evaluate(identity, rule); got != AuthenticationRequired {
		t.Errorf("Evaluate(zero, zero) = %v, want %v", got, AuthenticationRequired)
	}
	if got := Evaluate(Named("a"), rule); got != Unauthorized {
		t.Errorf("Evaluate(named, zero rule) = %v, want %v", got, Unauthorized)
	}
}

func TestIdentityEquality(t *testing.T) {
	if Named("a") != Named("a") {
		t.Error("Named(a) != Named(a)")
	}
	if Named("a") == Named("b") {
		t.Error("Named(a) == Named(b)")
	}
	if Unauthenticated() != Unauthenticated() {
		t.Error("Unauthenticated() != Unauthenticated()")
	}
	if SingleActor() == Unauthenticated() {
		t.Error("SingleActor() == Unauthenticated()")
	}
	if Named("single") == SingleActor() {
		t.Error("Named(single) == SingleActor()")
	}
}

func TestIdentityName(t *testing.T) {
	name, ok := Named("alice").Name()
	if !ok || name != "alice" {
		t.Errorf("Named(alice).Name() = %q, %v, want %q, true", name, ok, "alice")
	}
	if _, ok := SingleActor().Name(); ok {
		t.Error("SingleActor().Name() reported a name")
	}
	if _, ok := Unauthenticated().Name(); ok {
		t.Error("Unauthenticated().Name() reported a name")
	}
}

func TestRuleEqual(t *testing.T) {
	if !Anonymous().Equal(Anonymous()) {
		t.Error("Anonymous != Anonymous")
	}
	if Anonymous().Equal(Authenticated()) {
		t.Error("Anonymous == Authenticated")
	}
	if !Accounts("a", "b").Equal(Accounts("a", "b")) {
		t.Error("Accounts(a,b) != Accounts(a,b)")
	}
	if Accounts("a", "b").Equal(Accounts("b", "a")) {
		t.Error("Accounts(a,b) == Accounts(b,a), order should matter")
	}
	if Accounts().Equal(Authenticated()) {
		t.Error("empty Accounts == Authenticated")
	}
}
