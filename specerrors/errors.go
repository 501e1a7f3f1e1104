package specerrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSpecification indicates a specification that cannot be turned into a request.
	ErrSpecification = errors.New("specification error")

	// ErrParse indicates a specification document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SpecificationError reports a specification that validation cannot proceed with.
// It is fatal: no request is sent and no violations are collected.
type SpecificationError struct {
	// Spec is the name of the specification (may be empty)
	Spec string
	// Field is the offending field, e.g. "url" or "request.method"
	Field string
	// Value is the offending value (may be nil)
	Value any
	// Message describes the problem
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecificationError) Error() string {
	b := newBuilder("specification error")
	b.add(" in ", e.Spec)
	b.add(" at ", e.Field)
	if e.Value != nil {
		b.add(" (value: ", fmt.Sprintf("%q)", fmt.Sprint(e.Value)))
	}
	return b.finish(e.Message, e.Cause)
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecificationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecificationError) Is(target error) bool {
	return target == ErrSpecification
}

// ParseError represents a failure to decode a specification document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	b := newBuilder("parse error")
	b.add(" in ", e.Path)
	if e.Line > 0 {
		b.add(" at line ", strconv.Itoa(e.Line))
		if e.Column > 0 {
			b.add(", column ", strconv.Itoa(e.Column))
		}
	}
	return b.finish(e.Message, e.Cause)
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	b := newBuilder("configuration error")
	b.add(" for ", e.Option)
	if e.Value != nil {
		b.add(" (value: ", fmt.Sprintf("%v)", e.Value))
	}
	return b.finish(e.Message, e.Cause)
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// builder assembles the "<kind>[ in x][ at y]: message: cause" form shared
// by every error type.
type builder struct {
	strings.Builder
}

func newBuilder(kind string) *builder {
	b := &builder{}
	b.WriteString(kind)
	return b
}

// add appends prefix+value; empty values are skipped.
func (b *builder) add(prefix, value string) {
	if value == "" {
		return
	}
	b.WriteString(prefix)
	b.WriteString(value)
}

func (b *builder) finish(message string, cause error) string {
	if message != "" {
		b.WriteString(": ")
		b.WriteString(message)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}
