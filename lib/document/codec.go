// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fernwiki/fern/lib/access"
)

// Delimiter is the three-character token framing the metadata block.
const Delimiter = "---"

const (
	delimiterLF   = Delimiter + "\n"
	delimiterCRLF = Delimiter + "\r\n"
)

// Parse reads a document from stream. The expected shape is a
// delimiter line, a YAML metadata block, a second delimiter line, and
// the body running to end of stream.
//
// Both line-ending conventions are accepted on the delimiter lines. A
// line closes the metadata block only when it is exactly the delimiter
// plus its line ending. YAML emits plain and block scalars unquoted, so
// a metadata value can legitimately produce a line that merely ends
// with the token; a suffix match would cut the block short and break
// re-parsing of serialized documents.
//
// Failures are *ParseError for structural damage and plain wrapped
// errors for stream I/O. No partial document is ever returned.
func Parse(stream io.Reader) (*Document, error) {
	reader := bufio.NewReader(stream)

	// First line: exactly a delimiter, in either line ending.
	firstLine, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading metadata delimiter: %w", err)
	}
	if firstLine != delimiterLF && firstLine != delimiterCRLF {
		return nil, &ParseError{Kind: MissingMetadataStart}
	}

	// Accumulate metadata lines until one is exactly a delimiter.
	var metadataBuffer strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading metadata block: %w", err)
		}
		if line == delimiterLF || line == delimiterCRLF {
			break
		}
		if err == io.EOF {
			return nil, &ParseError{Kind: MissingMetadataEnd}
		}
		metadataBuffer.WriteString(line)
	}

	metadata, err := decodeMetadata([]byte(metadataBuffer.String()))
	if err != nil {
		return nil, &ParseError{Kind: InvalidMetadata, Err: err}
	}

	// Everything after the closing delimiter is the body, verbatim.
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading document body: %w", err)
	}

	return &Document{Metadata: metadata, Body: string(body)}, nil
}

// Serialize writes document to sink in canonical form: LF terminators
// on both delimiter lines regardless of what a parsed source used. The
// body is written verbatim. Only sink I/O can fail; metadata built
// through this package always encodes, so an encode failure is a bug
// in the program, not a condition to handle.
func Serialize(doc *Document, sink io.Writer) error {
	metadataText := encodeMetadata(doc.Metadata)

	for _, part := range []string{delimiterLF, metadataText, delimiterLF, doc.Body} {
		if _, err := io.WriteString(sink, part); err != nil {
			return err
		}
	}
	return nil
}

// metadataShape is the wire form of Metadata. Pointer fields
// distinguish an absent key from a present-but-empty value; all three
// keys are required. Unknown keys are ignored so older servers can
// read pages written by newer ones.
type metadataShape struct {
	Title    *string      `yaml:"title"`
	ViewRule *access.Rule `yaml:"view_rule"`
	EditRule *access.Rule `yaml:"edit_rule"`
}

func decodeMetadata(text []byte) (Metadata, error) {
	var shape metadataShape
	if err := yaml.Unmarshal(text, &shape); err != nil {
		return Metadata{}, err
	}

	switch {
	case shape.Title == nil:
		return Metadata{}, fmt.Errorf("missing required key %q", "title")
	case shape.ViewRule == nil:
		return Metadata{}, fmt.Errorf("missing required key %q", "view_rule")
	case shape.EditRule == nil:
		return Metadata{}, fmt.Errorf("missing required key %q", "edit_rule")
	}

	return Metadata{
		Title:    *shape.Title,
		ViewRule: *shape.ViewRule,
		EditRule: *shape.EditRule,
	}, nil
}

func encodeMetadata(metadata Metadata) string {
	var buffer strings.Builder
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	err := encoder.Encode(struct {
		Title    string      `yaml:"title"`
		ViewRule access.Rule `yaml:"view_rule"`
		EditRule access.Rule `yaml:"edit_rule"`
	}{metadata.Title, metadata.ViewRule, metadata.EditRule})
	if err == nil {
		err = encoder.Close()
	}
	if err != nil {
		panic(fmt.Sprintf("page metadata failed to encode: %v", err))
	}
	return buffer.String()
}
