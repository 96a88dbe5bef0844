// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the BLAKE3 hash of the document's canonical
// serialized form. Two documents digest equally exactly when they
// serialize identically, so the digest works as an HTTP entity tag:
// it changes on any metadata or body edit and is stable across loads.
func (doc *Document) Digest() [32]byte {
	hasher := blake3.New()
	// The hasher never fails as a sink, and Serialize only fails on
	// sink errors.
	if err := Serialize(doc, hasher); err != nil {
		panic("hashing a document failed: " + err.Error())
	}

	var digest [32]byte
	hasher.Sum(digest[:0])
	return digest
}

// DigestHex returns Digest as lowercase hex.
func (doc *Document) DigestHex() string {
	digest := doc.Digest()
	return hex.EncodeToString(digest[:])
}
