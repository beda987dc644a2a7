// Package msg parses the line-oriented .MSG localization format used by
// Fallout-era games: {index}{}{text} records keyed by a numeric identifier,
// interleaved with # or // comments and blank lines. Parsed documents are
// assembled into a Dictionary that stacks repeated indexes into sub-indexed
// slots.
package msg

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Converter turns one raw field value into its stored Value. It decides
// whether the bytes become decoded text or are preserved verbatim.
type Converter func([]byte) Value

// DefaultConverter stores valid UTF-8 as text and anything else as raw bytes.
func DefaultConverter(b []byte) Value {
	if utf8.Valid(b) {
		return TextValue(string(b))
	}
	return ByteValue(b)
}

// MalformedEntryError reports an entry whose secondary field is not empty.
// The legacy format reserves that field; a value there means the record is
// malformed or comes from an unsupported producer.
type MalformedEntryError struct {
	Entry Entry
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed entry {%d}: non-empty secondary field %q", e.Entry.Index, e.Entry.Secondary)
}

// Parse parses a document and builds its lookup dictionary, storing field
// values through DefaultConverter.
func Parse(input []byte) (*Dictionary, error) {
	return ParseWith(input, DefaultConverter)
}

// ParseWith parses a document with a caller-supplied value conversion
// policy, e.g. a legacy code-page decoder. The whole input must parse; any
// failure aborts with no dictionary returned.
func ParseWith(input []byte, conv Converter) (*Dictionary, error) {
	doc, err := tokenize(input, true)
	if err != nil {
		return nil, err
	}
	return build(doc, conv)
}

// build folds a token stream into a dictionary. Comments and blank lines are
// dropped without effect on sub-index allocation.
func build(doc document, conv Converter) (*Dictionary, error) {
	dict := NewDictionary()
	for _, ln := range doc.lines {
		if ln.kind != lineEntry {
			continue
		}
		e := ln.entry
		if len(e.Secondary) != 0 {
			return nil, &MalformedEntryError{Entry: e}
		}
		dict.Insert(e.Index, conv(e.Value))
	}
	return dict, nil
}

// ParseFile reads a file fully into memory and parses it with
// DefaultConverter.
func ParseFile(path string) (*Dictionary, error) {
	return ParseFileWith(path, DefaultConverter)
}

// ParseFileWith reads a file fully into memory and parses it with the given
// converter.
func ParseFileWith(path string, conv Converter) (*Dictionary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read msg file: %w", err)
	}
	return ParseWith(b, conv)
}
