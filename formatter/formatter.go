package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Indent is the indentation added per level of object nesting.
const Indent = "   "

// MaxDepth is the deepest nesting of objects and arrays Normalize accepts.
const MaxDepth = 10000

// FormatError reports text that could not be normalized.
type FormatError struct {
	// Raw is the input text exactly as it was given
	Raw string
	// Cause is the underlying JSON syntax error
	Cause error
}

// Error returns a human-readable error message.
func (e *FormatError) Error() string {
	if e.Cause == nil {
		return "formatter: failed to normalize JSON"
	}
	return "formatter: failed to normalize JSON: " + e.Cause.Error()
}

// Unwrap returns the underlying cause for error chaining.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

type kind uint8

const (
	kindLiteral kind = iota
	kindObject
	kindArray
)

type member struct {
	key   string // already JSON-encoded
	value *node
}

// node is an order-preserving JSON value.
type node struct {
	kind    kind
	literal string
	members []member
	elems   []*node
}

// Normalize parses text as a single JSON value and returns its canonical form.
// On failure the returned error is a *FormatError carrying text unchanged.
func Normalize(text string) (string, error) {
	n, err := parse(text)
	if err != nil {
		return "", &FormatError{Raw: text, Cause: err}
	}
	var b strings.Builder
	b.Grow(len(text))
	n.write(&b, 0)
	return b.String(), nil
}

// Equivalent reports whether a and b have identical canonical forms.
// If either side fails to normalize, the error joins every *FormatError.
func Equivalent(a, b string) (bool, error) {
	ca, errA := Normalize(a)
	cb, errB := Normalize(b)
	if err := errors.Join(errA, errB); err != nil {
		return false, err
	}
	return ca == cb, nil
}

// IsJSON reports whether text normalizes successfully.
func IsJSON(text string) bool {
	_, err := parse(text)
	return err == nil
}

func parse(text string) (*node, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	n, err := readValue(dec, 0)
	if err != nil {
		return nil, err
	}

	// Exactly one value: anything but EOF after it is trailing data.
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after top-level value: %v", tok)
	}
	return n, nil
}

func readValue(dec *json.Decoder, depth int) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return nil, fmt.Errorf("exceeded max nesting depth %d", MaxDepth)
		}
		switch t {
		case '{':
			return readObject(dec, depth+1)
		case '[':
			return readArray(dec, depth+1)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		lit, err := encodeString(t)
		if err != nil {
			return nil, err
		}
		return &node{literal: lit}, nil
	case json.Number:
		return &node{literal: t.String()}, nil
	case bool:
		if t {
			return &node{literal: "true"}, nil
		}
		return &node{literal: "false"}, nil
	case nil:
		return &node{literal: "null"}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func readObject(dec *json.Decoder, depth int) (*node, error) {
	n := &node{kind: kindObject}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		encKey, err := encodeString(key)
		if err != nil {
			return nil, err
		}
		value, err := readValue(dec, depth)
		if err != nil {
			return nil, err
		}
		n.members = append(n.members, member{key: encKey, value: value})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return n, nil
}

func readArray(dec *json.Decoder, depth int) (*node, error) {
	n := &node{kind: kindArray}
	for dec.More() {
		elem, err := readValue(dec, depth)
		if err != nil {
			return nil, err
		}
		n.elems = append(n.elems, elem)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return n, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}
	return nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// encodeString renders s as a JSON string literal without HTML escaping.
func encodeString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (n *node) write(b *strings.Builder, depth int) {
	switch n.kind {
	case kindObject:
		if len(n.members) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, m := range n.members {
			if i > 0 {
				b.WriteString(",\n")
			}
			writeIndent(b, depth+1)
			b.WriteString(m.key)
			b.WriteString(": ")
			m.value.write(b, depth+1)
		}
		b.WriteByte('\n')
		writeIndent(b, depth)
		b.WriteByte('}')
	case kindArray:
		if len(n.elems) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[ ")
		for i, e := range n.elems {
			if i > 0 {
				b.WriteString(",\n")
			}
			e.write(b, depth)
		}
		b.WriteString(" ]")
	default:
		b.WriteString(n.literal)
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString(Indent)
	}
}
