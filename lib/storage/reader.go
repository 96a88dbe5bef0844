// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// Reader is a buffered sequential reader over a single file. The
// embedded bufio.Reader supplies the read methods; Close releases the
// underlying file. A Reader lives for a single load and is never shared
// between goroutines.
type Reader struct {
	*bufio.Reader
	file *os.File
}

// Open opens path for buffered reading. Failures classify at open time:
// ReadNotFound when the path does not name a readable file (absent,
// a directory, a component that is not a directory, a malformed name),
// ReadIO for everything else. Callers branch on this split, a missing
// document is a stable answer while an I/O failure is not.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	// Opening a directory succeeds on most platforms and only fails at
	// the first read. Classify it here so callers never see a directory
	// masquerading as an empty document.
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &ReadError{Kind: ReadIO, Path: path, Err: err}
	}
	if info.IsDir() {
		file.Close()
		return nil, &ReadError{Kind: ReadNotFound, Path: path, Err: syscall.EISDIR}
	}

	return &Reader{Reader: bufio.NewReader(file), file: file}, nil
}

// Close releases the underlying file.
func (reader *Reader) Close() error {
	return reader.file.Close()
}

// classifyOpenError maps an open failure to a ReadError. ENOENT and
// ENOTDIR both report as absent through fs.ErrNotExist; EINVAL covers
// names the filesystem cannot represent.
func classifyOpenError(path string, err error) *ReadError {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.EISDIR),
		errors.Is(err, syscall.EINVAL):
		return &ReadError{Kind: ReadNotFound, Path: path, Err: err}
	default:
		return &ReadError{Kind: ReadIO, Path: path, Err: err}
	}
}
