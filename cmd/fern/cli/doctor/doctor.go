// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor is the check/report/repair workflow behind fern
// check. The command runs a series of health checks over the wiki's
// data and reports results as a consistent checklist. Fixable
// problems carry fix closures that are executed in --fix mode.
//
//   - [Result] type with status, message, and optional fix action
//   - Constructors: [Pass], [Fail], [FailWithFix], [Warn],
//     [WarnWithFix], [Skip]
//   - [ExecuteFixes] for running fix closures
//   - [PrintChecklist] for human-readable output
//
// Domain-specific checks (what to check, how to fix) live in the
// command package. This package provides only the workflow.
package doctor

import "context"

// Status is the outcome of a single health check.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusWarn  Status = "warn"
	StatusSkip  Status = "skip"
	StatusFixed Status = "fixed"
)

// FixAction is a function that repairs a failed check. Domain-specific
// dependencies (the page store, file paths) are captured in the
// closure at check-construction time. The context carries cancellation
// and timeout.
type FixAction func(ctx context.Context) error

// Result holds the outcome of a single health check. Fixable results
// carry a FixHint (human description) and an unexported fix function.
type Result struct {
	Name    string
	Status  Status
	Message string
	FixHint string
	fix     FixAction
}

// HasFix reports whether this result carries a fix action.
func (r *Result) HasFix() bool {
	return r.fix != nil
}

// Pass creates a passing check result.
func Pass(name, message string) Result {
	return Result{Name: name, Status: StatusPass, Message: message}
}

// Fail creates a failing check result with no automatic fix.
func Fail(name, message string) Result {
	return Result{Name: name, Status: StatusFail, Message: message}
}

// FailWithFix creates a failing check result with an automatic fix.
func FailWithFix(name, message, fixHint string, fix FixAction) Result {
	return Result{Name: name, Status: StatusFail, Message: message, FixHint: fixHint, fix: fix}
}

// Warn creates a warning check result. Warnings do not cause fern
// check to exit with a non-zero status.
func Warn(name, message string) Result {
	return Result{Name: name, Status: StatusWarn, Message: message}
}

// WarnWithFix creates a warning check result with an automatic fix.
// This is the shape of a page that reads fine but is not in canonical
// form: nothing is lost, but --fix can rewrite it.
func WarnWithFix(name, message, fixHint string, fix FixAction) Result {
	return Result{Name: name, Status: StatusWarn, Message: message, FixHint: fixHint, fix: fix}
}

// Skip creates a skipped check result. Checks are skipped when a
// prerequisite check failed (e.g., page checks skip when the data
// directory is missing).
func Skip(name, message string) Result {
	return Result{Name: name, Status: StatusSkip, Message: message}
}

// Outcome holds the aggregate results of a fix pass.
type Outcome struct {
	// FixedCount is the number of successfully applied fixes.
	FixedCount int

	// PermissionDenied is true if any fix failed due to insufficient
	// permissions (EPERM/EACCES).
	PermissionDenied bool
}
