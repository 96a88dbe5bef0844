// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"strings"
)

// MaxRefLength bounds the page reference. Long enough for any sane
// hierarchy, short enough that the resolved file path stays well under
// filesystem name limits.
const MaxRefLength = 512

// allowedChars is the character set for page references. References
// appear in URLs and become file paths, so the set is the safe
// intersection: letters, digits, '.', '_', '-', and '/' between
// segments.
var allowedChars [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		allowedChars[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		allowedChars[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		allowedChars[c] = true
	}
	allowedChars['.'] = true
	allowedChars['_'] = true
	allowedChars['-'] = true
	allowedChars['/'] = true
}

// InvalidRefError reports a page reference that can never name a page.
// The web layer renders it as a client error, not a missing page.
type InvalidRefError struct {
	Ref    string
	Reason string
}

func (invalidRef *InvalidRefError) Error() string {
	return fmt.Sprintf("invalid page reference %q: %s", invalidRef.Ref, invalidRef.Reason)
}

// IsInvalidRef reports whether err is an InvalidRefError.
func IsInvalidRef(err error) bool {
	var invalidRef *InvalidRefError
	return errors.As(err, &invalidRef)
}

// ValidateRef checks that ref is safe to use as both a URL path and a
// relative file path under the store root.
//
// Rules enforced:
//   - Non-empty (callers normalize "" to the index page first)
//   - Only A-Z, a-z, 0-9, '.', '_', '-', '/'
//   - No ".." segments (path traversal)
//   - No segments starting with "." (hidden files, temp files)
//   - No empty segments (leading, trailing, or double slashes)
//   - Maximum MaxRefLength characters
func ValidateRef(ref string) error {
	if ref == "" {
		return &InvalidRefError{Ref: ref, Reason: "empty reference"}
	}
	if len(ref) > MaxRefLength {
		return &InvalidRefError{Ref: ref, Reason: fmt.Sprintf("%d characters, maximum is %d", len(ref), MaxRefLength)}
	}

	for i := 0; i < len(ref); i++ {
		if !allowedChars[ref[i]] {
			return &InvalidRefError{Ref: ref, Reason: fmt.Sprintf("invalid character %q at position %d", ref[i], i)}
		}
	}

	if ref[0] == '/' {
		return &InvalidRefError{Ref: ref, Reason: "must not start with /"}
	}
	if ref[len(ref)-1] == '/' {
		return &InvalidRefError{Ref: ref, Reason: "must not end with /"}
	}

	for _, segment := range strings.Split(ref, "/") {
		if segment == "" {
			return &InvalidRefError{Ref: ref, Reason: "empty segment (double slash)"}
		}
		if segment == ".." {
			return &InvalidRefError{Ref: ref, Reason: "'..' segment (path traversal)"}
		}
		if segment[0] == '.' {
			return &InvalidRefError{Ref: ref, Reason: fmt.Sprintf("segment %q starts with '.'", segment)}
		}
	}

	return nil
}
