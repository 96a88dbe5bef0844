// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage provides the file primitives under the page store:
// crash-consistent atomic writes with concurrent-writer detection, and
// classified buffered reads.
//
// A write goes to a temporary sibling file (target path plus a fixed
// suffix) created exclusively, so two writers for the same target
// collide at creation time instead of interleaving bytes. Commit
// flushes, fsyncs, and renames the temporary file over the target;
// readers observe either the entirely-old or entirely-new content,
// never a mix. The temporary name is deterministic, so the conflict
// guarantee holds across independent processes sharing the store, and
// survives process restarts.
package storage

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// TempSuffix is appended to a target path to derive its temporary file.
// The name must stay stable across releases: conflict detection between
// independent processes depends on both sides deriving the same name.
const TempSuffix = ".tmp"

// PendingWrite is an in-progress atomic write to a target path. Bytes
// written to it accumulate in the temporary file and become visible at
// the target only when Commit succeeds. Every PendingWrite must be
// finished by exactly one of Commit or Abandon; callers should defer
// Abandon immediately after Create so early returns clean up the
// temporary file instead of leaving a false conflict behind.
type PendingWrite struct {
	path     string
	tempPath string
	file     *os.File
	buffer   *bufio.Writer
	finished bool
}

// Create begins an atomic write to path. It ensures the parent
// directory chain exists, then exclusively creates the temporary file.
// If the temporary file already exists the returned error classifies as
// WriteConflict: another writer is mid-flight for this target, and the
// caller should report that rather than retry.
func Create(path string) (*PendingWrite, error) {
	return CreateFile(path, 0644)
}

// CreateFile is Create with an explicit permission mode for the target
// file. Page files are world-readable; the accounts file is not.
func CreateFile(path string, mode fs.FileMode) (*PendingWrite, error) {
	if path == "" {
		return nil, &WriteError{Kind: WriteInvalidPath, Path: path}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, classifyDirError(path, err)
	}

	tempPath := path + TempSuffix
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return nil, classifyCreateError(path, err)
	}

	return &PendingWrite{
		path:     path,
		tempPath: tempPath,
		file:     file,
		buffer:   bufio.NewWriter(file),
	}, nil
}

// Write buffers p into the temporary file. It implements io.Writer so
// serializers can stream into the pending write directly.
func (pending *PendingWrite) Write(p []byte) (int, error) {
	if pending.finished {
		return 0, &WriteError{Kind: WriteIO, Path: pending.path, Err: errors.New("write after commit or abandon")}
	}
	n, err := pending.buffer.Write(p)
	if err != nil {
		return n, &WriteError{Kind: WriteIO, Path: pending.path, Err: err}
	}
	return n, nil
}

// Commit flushes all buffered bytes, fsyncs the temporary file, and
// renames it onto the target path. The rename is an atomic replace: a
// concurrent reader sees the old content until the rename and the new
// content after it, with no intermediate state. On success the
// temporary path no longer exists. On failure the temporary file is
// removed and the target is untouched.
//
// Once Commit starts there is no cancellation: it either completes or
// reports a failure. An interrupted rename would break the atomicity
// guarantee, so none is offered.
func (pending *PendingWrite) Commit() error {
	if pending.finished {
		return &WriteError{Kind: WriteIO, Path: pending.path, Err: errors.New("commit after commit or abandon")}
	}
	pending.finished = true

	// Flush, sync, close, rename, in that order. Any failure removes
	// the temporary file so a later writer does not see a stale
	// conflict.
	if err := pending.buffer.Flush(); err != nil {
		pending.file.Close()
		os.Remove(pending.tempPath)
		return &WriteError{Kind: WriteIO, Path: pending.path, Err: err}
	}
	if err := pending.file.Sync(); err != nil {
		pending.file.Close()
		os.Remove(pending.tempPath)
		return &WriteError{Kind: WriteIO, Path: pending.path, Err: err}
	}
	if err := pending.file.Close(); err != nil {
		os.Remove(pending.tempPath)
		return &WriteError{Kind: WriteIO, Path: pending.path, Err: err}
	}
	if err := os.Rename(pending.tempPath, pending.path); err != nil {
		os.Remove(pending.tempPath)
		return &WriteError{Kind: WriteIO, Path: pending.path, Err: err}
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	parentDirectory, err := os.Open(filepath.Dir(pending.path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Abandon discards the pending write: the temporary file is removed and
// the target path is left exactly as it was. Abandon after Commit or a
// second Abandon is a no-op. Cleanup failures are swallowed, there is
// nothing useful a caller can do with them and the next Create for the
// same target will surface a conflict if the file truly could not be
// removed.
func (pending *PendingWrite) Abandon() {
	if pending.finished {
		return
	}
	pending.finished = true
	pending.file.Close()
	os.Remove(pending.tempPath)
}

// Path returns the final target path of the pending write.
func (pending *PendingWrite) Path() string {
	return pending.path
}

// classifyCreateError maps an exclusive-create failure on the temporary
// file to a WriteError. An existing temporary file is the conflict
// signal. A missing parent right after MkdirAll succeeded, and any
// malformed-name errno, mean the path cannot name a file.
func classifyCreateError(path string, err error) *WriteError {
	switch {
	case errors.Is(err, fs.ErrExist):
		return &WriteError{Kind: WriteConflict, Path: path}
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.EISDIR),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.EINVAL),
		errors.Is(err, syscall.ENAMETOOLONG):
		return &WriteError{Kind: WriteInvalidPath, Path: path, Err: err}
	default:
		return &WriteError{Kind: WriteIO, Path: path, Err: err}
	}
}

// classifyDirError maps a MkdirAll failure on the parent chain to a
// WriteError. A file sitting where a directory is needed makes the
// target path invalid rather than the filesystem unhealthy.
func classifyDirError(path string, err error) *WriteError {
	switch {
	case errors.Is(err, fs.ErrExist),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.EINVAL),
		errors.Is(err, syscall.ENAMETOOLONG):
		return &WriteError{Kind: WriteInvalidPath, Path: path, Err: err}
	default:
		return &WriteError{Kind: WriteIO, Path: path, Err: err}
	}
}
