// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"fmt"
	"strings"

	"github.com/fernwiki/fern/lib/access"
	"github.com/fernwiki/fern/lib/account"
)

// parseRuleField interprets an edit-form rule field. The two keywords
// map to the open rules; anything else reads as account names
// separated by commas or whitespace.
func parseRuleField(field string) (access.Rule, error) {
	text := strings.TrimSpace(field)
	switch {
	case text == "":
		return access.Rule{}, fmt.Errorf("rule must not be empty")
	case strings.EqualFold(text, "anonymous"):
		return access.Anonymous(), nil
	case strings.EqualFold(text, "authenticated"):
		return access.Authenticated(), nil
	}

	names := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, name := range names {
		if err := account.ValidateName(name); err != nil {
			return access.Rule{}, fmt.Errorf("account name %q: %w", name, err)
		}
	}
	return access.Accounts(names...), nil
}

// formatRuleField is the inverse of parseRuleField, used to pre-fill
// the edit form.
func formatRuleField(rule access.Rule) string {
	switch rule.Kind() {
	case access.RuleAnonymous:
		return "anonymous"
	case access.RuleAuthenticated:
		return "authenticated"
	default:
		return strings.Join(rule.AccountNames(), ", ")
	}
}
