// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package access

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules appear in YAML in two shapes: the bare scalars "anonymous" and
// "authenticated", or a mapping with a single "accounts" key listing
// admitted names:
//
//	view_rule: anonymous
//	edit_rule:
//	  accounts: [alice, bob]
//
// The scalar match is case-insensitive on read; writes always emit
// lowercase.

// MarshalYAML implements yaml.Marshaler.
func (rule Rule) MarshalYAML() (any, error) {
	switch rule.kind {
	case RuleAnonymous:
		return "anonymous", nil
	case RuleAuthenticated:
		return "authenticated", nil
	case RuleAccounts:
		names := rule.accounts
		if names == nil {
			names = []string{}
		}
		return map[string][]string{"accounts": names}, nil
	}
	return nil, fmt.Errorf("access rule has unknown kind %d", int(rule.kind))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (rule *Rule) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		switch {
		case strings.EqualFold(value.Value, "anonymous"):
			*rule = Anonymous()
			return nil
		case strings.EqualFold(value.Value, "authenticated"):
			*rule = Authenticated()
			return nil
		}
		return fmt.Errorf("line %d: unknown access rule %q (want \"anonymous\", \"authenticated\", or an accounts list)", value.Line, value.Value)

	case yaml.MappingNode:
		// Reject unknown keys so a typo like "account:" fails loudly
		// instead of silently denying everyone.
		var parsed struct {
			Accounts []string `yaml:"accounts"`
		}
		if err := strictDecode(value, &parsed); err != nil {
			return fmt.Errorf("line %d: access rule: %w", value.Line, err)
		}
		*rule = Accounts(parsed.Accounts...)
		return nil
	}

	return fmt.Errorf("line %d: access rule must be a scalar or an accounts mapping", value.Line)
}

// strictDecode decodes a mapping node with unknown keys rejected.
func strictDecode(value *yaml.Node, out any) error {
	for index := 0; index+1 < len(value.Content); index += 2 {
		key := value.Content[index].Value
		if key != "accounts" {
			return fmt.Errorf("unknown key %q", key)
		}
	}
	return value.Decode(out)
}
