// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
	"syscall"
	"testing"
)

func TestPassResult(t *testing.T) {
	result := Pass("test check", "all good")
	if result.Status != StatusPass {
		t.Errorf("Pass() status = %q, want %q", result.Status, StatusPass)
	}
	if result.Name != "test check" {
		t.Errorf("Pass() name = %q, want %q", result.Name, "test check")
	}
	if result.HasFix() {
		t.Error("Pass() should not have a fix")
	}
}

func TestFailResult(t *testing.T) {
	result := Fail("test check", "broken")
	if result.Status != StatusFail {
		t.Errorf("Fail() status = %q, want %q", result.Status, StatusFail)
	}
	if result.HasFix() {
		t.Error("Fail() should not have a fix")
	}
}

func TestFailWithFixResult(t *testing.T) {
	result := FailWithFix("test check", "broken", "repair it",
		func(ctx context.Context) error { return nil })
	if result.Status != StatusFail {
		t.Errorf("FailWithFix() status = %q, want %q", result.Status, StatusFail)
	}
	if !result.HasFix() {
		t.Error("FailWithFix() should have a fix")
	}
	if result.FixHint != "repair it" {
		t.Errorf("FailWithFix() fix hint = %q, want %q", result.FixHint, "repair it")
	}
}

func TestWarnWithFixResult(t *testing.T) {
	result := WarnWithFix("test check", "not canonical", "rewrite it",
		func(ctx context.Context) error { return nil })
	if result.Status != StatusWarn {
		t.Errorf("WarnWithFix() status = %q, want %q", result.Status, StatusWarn)
	}
	if !result.HasFix() {
		t.Error("WarnWithFix() should have a fix")
	}
}

func TestSkipResult(t *testing.T) {
	result := Skip("test check", "skipped: prerequisite failed")
	if result.Status != StatusSkip {
		t.Errorf("Skip() status = %q, want %q", result.Status, StatusSkip)
	}
}

func TestExecuteFixesDryRun(t *testing.T) {
	fixCalled := false
	results := []Result{
		FailWithFix("check", "broken", "fix it", func(ctx context.Context) error {
			fixCalled = true
			return nil
		}),
	}

	outcome := ExecuteFixes(context.Background(), results, true)

	if fixCalled {
		t.Error("ExecuteFixes(dryRun=true) should not call fix actions")
	}
	if outcome.FixedCount != 0 {
		t.Errorf("ExecuteFixes(dryRun=true) fixed count = %d, want 0", outcome.FixedCount)
	}
	if results[0].Status != StatusFail {
		t.Errorf("ExecuteFixes(dryRun=true) should not change status, got %q", results[0].Status)
	}
}

func TestExecuteFixesSuccess(t *testing.T) {
	results := []Result{
		Pass("ok check", "fine"),
		FailWithFix("broken check", "broken", "fix it", func(ctx context.Context) error {
			return nil
		}),
		Fail("unfixable", "no fix available"),
	}

	outcome := ExecuteFixes(context.Background(), results, false)

	if outcome.FixedCount != 1 {
		t.Errorf("ExecuteFixes() fixed count = %d, want 1", outcome.FixedCount)
	}
	if results[1].Status != StatusFixed {
		t.Errorf("ExecuteFixes() should set status to fixed, got %q", results[1].Status)
	}
	// Pass and unfixable fail should be unchanged.
	if results[0].Status != StatusPass {
		t.Errorf("pass result should be unchanged, got %q", results[0].Status)
	}
	if results[2].Status != StatusFail {
		t.Errorf("unfixable result should be unchanged, got %q", results[2].Status)
	}
}

func TestExecuteFixesRepairsWarnings(t *testing.T) {
	results := []Result{
		WarnWithFix("stale page", "line endings are not canonical", "rewrite the file",
			func(ctx context.Context) error { return nil }),
	}

	outcome := ExecuteFixes(context.Background(), results, false)

	if outcome.FixedCount != 1 {
		t.Errorf("warn fix should count, got %d", outcome.FixedCount)
	}
	if results[0].Status != StatusFixed {
		t.Errorf("warn fix should set status to fixed, got %q", results[0].Status)
	}
}

func TestExecuteFixesPermissionDenied(t *testing.T) {
	results := []Result{
		FailWithFix("check", "broken", "fix it", func(ctx context.Context) error {
			return &fixPathError{err: syscall.EACCES}
		}),
	}

	outcome := ExecuteFixes(context.Background(), results, false)

	if !outcome.PermissionDenied {
		t.Error("ExecuteFixes() should classify EACCES as permission denied")
	}
	if results[0].Status != StatusFail {
		t.Errorf("permission denied fix should remain failed, got %q", results[0].Status)
	}
	if outcome.FixedCount != 0 {
		t.Errorf("permission denied fix should not count as fixed, got %d", outcome.FixedCount)
	}
}

func TestExecuteFixesFixError(t *testing.T) {
	results := []Result{
		FailWithFix("check", "broken", "fix it", func(ctx context.Context) error {
			return errors.New("fix exploded")
		}),
	}

	outcome := ExecuteFixes(context.Background(), results, false)

	if outcome.FixedCount != 0 {
		t.Errorf("failed fix should not count, got %d", outcome.FixedCount)
	}
	if results[0].Status != StatusFail {
		t.Errorf("failed fix should remain failed, got %q", results[0].Status)
	}
	if results[0].Message != "broken (fix failed: fix exploded)" {
		t.Errorf("failed fix should append error, got %q", results[0].Message)
	}
}

// fixPathError wraps a syscall errno the way os.PathError does, so the
// permission classification sees it through errors.Is.
type fixPathError struct {
	err error
}

func (e *fixPathError) Error() string { return "write page: " + e.err.Error() }
func (e *fixPathError) Unwrap() error { return e.err }
