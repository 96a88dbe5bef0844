// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"fmt"
)

// ReadErrorKind classifies a failure to open a file for reading.
type ReadErrorKind int

const (
	// ReadNotFound: the path does not name a readable file. Covers an
	// absent file, a path that resolves to a directory, a path with a
	// non-directory component, and an invalid file name. Callers treat
	// all of these as "the document is not there".
	ReadNotFound ReadErrorKind = iota

	// ReadIO: any other failure (permissions, hardware, exhaustion).
	// Callers should treat this as transient and loggable, not as a
	// stable fact about the path.
	ReadIO
)

// String returns the kind as a stable lowercase token for logs.
func (kind ReadErrorKind) String() string {
	switch kind {
	case ReadNotFound:
		return "not_found"
	case ReadIO:
		return "io"
	}
	return fmt.Sprintf("read_error_kind(%d)", int(kind))
}

// ReadError is the error type returned by Open. Kind classifies the
// failure, Path is the path the caller asked for, and Err is the
// underlying cause from the operating system.
type ReadError struct {
	Kind ReadErrorKind
	Path string
	Err  error
}

func (readError *ReadError) Error() string {
	return fmt.Sprintf("open %s: %s: %v", readError.Path, readError.Kind, readError.Err)
}

func (readError *ReadError) Unwrap() error {
	return readError.Err
}

// WriteErrorKind classifies a failure while writing a file atomically.
type WriteErrorKind int

const (
	// WriteConflict: another writer already holds the temporary file
	// for the same target path. The correct caller response is to
	// surface the conflict and let the user retry, not to retry
	// silently and not to treat the store as corrupt.
	WriteConflict WriteErrorKind = iota

	// WriteInvalidPath: the target path cannot name a file at all
	// (component is not a directory, name is malformed or too long).
	// Retrying the same path will fail the same way.
	WriteInvalidPath

	// WriteIO: any other failure (permissions, disk full, hardware).
	WriteIO
)

// String returns the kind as a stable lowercase token for logs.
func (kind WriteErrorKind) String() string {
	switch kind {
	case WriteConflict:
		return "conflict"
	case WriteInvalidPath:
		return "invalid_path"
	case WriteIO:
		return "io"
	}
	return fmt.Sprintf("write_error_kind(%d)", int(kind))
}

// WriteError is the error type returned by Create and Commit. Kind
// classifies the failure, Path is the final target path (not the
// temporary path), and Err is the underlying cause when one exists.
// Conflicts carry no underlying error: the temporary file existing is
// the entire fact.
type WriteError struct {
	Kind WriteErrorKind
	Path string
	Err  error
}

func (writeError *WriteError) Error() string {
	if writeError.Err == nil {
		return fmt.Sprintf("write %s: %s", writeError.Path, writeError.Kind)
	}
	return fmt.Sprintf("write %s: %s: %v", writeError.Path, writeError.Kind, writeError.Err)
}

func (writeError *WriteError) Unwrap() error {
	return writeError.Err
}

// IsNotFound reports whether err is a ReadError classified as
// ReadNotFound.
func IsNotFound(err error) bool {
	var readError *ReadError
	return errors.As(err, &readError) && readError.Kind == ReadNotFound
}

// IsConflict reports whether err is a WriteError classified as
// WriteConflict.
func IsConflict(err error) bool {
	var writeError *WriteError
	return errors.As(err, &writeError) && writeError.Kind == WriteConflict
}

// IsInvalidPath reports whether err is a WriteError classified as
// WriteInvalidPath.
func IsInvalidPath(err error) bool {
	var writeError *WriteError
	return errors.As(err, &writeError) && writeError.Kind == WriteInvalidPath
}
