// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"testing"
)

func TestNewValidSize(t *testing.T) {
	buffer, err := New(32)
	if err != nil {
		t.Fatalf("New(32): %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 32 {
		t.Errorf("Len() = %d, want 32", buffer.Len())
	}

	data := buffer.Bytes()
	if len(data) != 32 {
		t.Errorf("len(Bytes()) = %d, want 32", len(data))
	}

	// mmap hands out zero-filled pages.
	for index, value := range data {
		if value != 0 {
			t.Fatalf("byte %d = %d, want 0", index, value)
		}
	}
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("New(0) succeeded, want error")
	}
	if _, err := New(-1); err == nil {
		t.Error("New(-1) succeeded, want error")
	}
}

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte("wiki-login-password")
	original := string(source)

	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != original {
		t.Errorf("String() = %q, want %q", got, original)
	}

	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d = %d after NewFromBytes, want 0", index, value)
		}
	}
}

func TestNewFromBytesEmpty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Error("NewFromBytes(nil) succeeded, want error")
	}
}

func TestZero(t *testing.T) {
	data := []byte("hunter2")
	Zero(data)
	for index, value := range data {
		if value != 0 {
			t.Errorf("byte %d = %d after Zero, want 0", index, value)
		}
	}
}

func TestBufferWriteAndRead(t *testing.T) {
	buffer, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer buffer.Close()

	copy(buffer.Bytes(), []byte("sixteen byte key"))

	if got := buffer.String(); got != "sixteen byte key" {
		t.Errorf("String() = %q", got)
	}
}

func TestCloseIdempotent(t *testing.T) {
	buffer, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if buffer.data != nil {
		t.Error("data not nil after Close")
	}
}

func TestAccessAfterClosePanics(t *testing.T) {
	buffer, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buffer.Close()

	assertPanics := func(name string, access func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s after Close did not panic", name)
			}
		}()
		access()
	}

	assertPanics("Bytes", func() { buffer.Bytes() })
	assertPanics("String", func() { _ = buffer.String() })
}
