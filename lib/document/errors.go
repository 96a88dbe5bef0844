// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"
)

// ParseErrorKind names the stage of parsing that failed. The web layer
// renders a different explanation for each: all three mean the file
// needs human repair, not a retry.
type ParseErrorKind int

const (
	// MissingMetadataStart: the first line is not a metadata
	// delimiter. The file is not a page at all, or its header was
	// destroyed.
	MissingMetadataStart ParseErrorKind = iota

	// MissingMetadataEnd: the stream ended before the closing
	// delimiter. The file was truncated inside the metadata block.
	MissingMetadataEnd

	// InvalidMetadata: the metadata block is delimited correctly but
	// does not decode into the required shape.
	InvalidMetadata
)

// String returns the kind as a stable lowercase token for logs.
func (kind ParseErrorKind) String() string {
	switch kind {
	case MissingMetadataStart:
		return "missing_metadata_start"
	case MissingMetadataEnd:
		return "missing_metadata_end"
	case InvalidMetadata:
		return "invalid_metadata"
	}
	return fmt.Sprintf("parse_error_kind(%d)", int(kind))
}

// ParseError reports a structurally damaged document. Kind says which
// framing stage failed; Err carries the decoder's cause for
// InvalidMetadata and is nil for the framing kinds.
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

func (parseError *ParseError) Error() string {
	switch parseError.Kind {
	case MissingMetadataStart:
		return "document does not begin with a metadata delimiter"
	case MissingMetadataEnd:
		return "document ends inside the metadata block"
	case InvalidMetadata:
		return fmt.Sprintf("document metadata is invalid: %v", parseError.Err)
	}
	return fmt.Sprintf("document parse error (%d)", int(parseError.Kind))
}

func (parseError *ParseError) Unwrap() error {
	return parseError.Err
}

// AsParseError returns the ParseError inside err, if any. Load wraps
// parse errors with the path, so callers unwrap through this instead
// of type-asserting.
func AsParseError(err error) (*ParseError, bool) {
	var parseError *ParseError
	if errors.As(err, &parseError) {
		return parseError, true
	}
	return nil, false
}
