package validator

import (
	"context"
	"net/http"

	"github.com/erraggy/restspec/internal/options"
	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/specerrors"
)

// Option is a functional option for configuring validation.
type Option func(*config) error

// config holds the configuration for validation operations.
type config struct {
	// Spec source for ValidateWithOptions (exactly one must be set)
	filePath *string
	bytes    []byte
	spec     *parser.Specification

	logger        parser.Logger
	decodeCharset bool

	skipStatusValidation bool
	skipHeaderValidation bool
	skipBodyValidation   bool
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		decodeCharset: true,
	}
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (cfg *config) validator() *Validator {
	return &Validator{
		Logger:               cfg.logger,
		DecodeCharset:        cfg.decodeCharset,
		SkipStatusValidation: cfg.skipStatusValidation,
		SkipHeaderValidation: cfg.skipHeaderValidation,
		SkipBodyValidation:   cfg.skipBodyValidation,
	}
}

// WithFilePath sets the path to a specification document.
// The file will be parsed automatically. Used by ValidateWithOptions.
func WithFilePath(path string) Option {
	return func(c *config) error {
		c.filePath = &path
		return nil
	}
}

// WithBytes sets the raw specification document. Used by ValidateWithOptions.
func WithBytes(data []byte) Option {
	return func(c *config) error {
		if data == nil {
			return &specerrors.ConfigError{Option: "WithBytes", Message: "bytes cannot be nil"}
		}
		c.bytes = data
		return nil
	}
}

// WithSpecification uses an already-built specification. Used by
// ValidateWithOptions.
func WithSpecification(spec *parser.Specification) Option {
	return func(c *config) error {
		if spec == nil {
			return &specerrors.ConfigError{Option: "WithSpecification", Message: "specification cannot be nil"}
		}
		c.spec = spec
		return nil
	}
}

// WithLogger sets a structured logger. By default, no logging is performed.
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithDecodeCharset sets whether captured bodies in a non-UTF-8 charset are
// converted to UTF-8 before comparison.
// Default is true.
func WithDecodeCharset(enabled bool) Option {
	return func(c *config) error {
		c.decodeCharset = enabled
		return nil
	}
}

// WithSkipStatusValidation skips the status code check.
func WithSkipStatusValidation(skip bool) Option {
	return func(c *config) error {
		c.skipStatusValidation = skip
		return nil
	}
}

// WithSkipHeaderValidation skips the header checks.
func WithSkipHeaderValidation(skip bool) Option {
	return func(c *config) error {
		c.skipHeaderValidation = skip
		return nil
	}
}

// WithSkipBodyValidation skips the body check.
func WithSkipBodyValidation(skip bool) Option {
	return func(c *config) error {
		c.skipBodyValidation = skip
		return nil
	}
}

// ValidateWithOptions validates h against one specification using
// functional options.
//
// This is a convenience function for one-off validations. For validating
// many specifications, use New() to create a reusable Validator.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    handler,
//	    validator.WithFilePath("specs/get-user.json"),
//	)
func ValidateWithOptions(h http.Handler, opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	if err := options.ValidateSingleInputSource(
		"specification",
		"must specify a specification (use WithFilePath, WithBytes, or WithSpecification)",
		"must specify exactly one specification source",
		cfg.filePath != nil, cfg.bytes != nil, cfg.spec != nil,
	); err != nil {
		return nil, err
	}

	spec, err := getSpecification(cfg)
	if err != nil {
		return nil, err
	}
	return cfg.validator().Validate(context.Background(), spec, h)
}

// getSpecification resolves the configured specification source.
func getSpecification(cfg *config) (*parser.Specification, error) {
	if cfg.spec != nil {
		return cfg.spec, nil
	}

	parseOpts := []parser.Option{parser.WithLogger(cfg.logger)}
	if cfg.filePath != nil {
		parseOpts = append(parseOpts, parser.WithFilePath(*cfg.filePath))
	} else {
		parseOpts = append(parseOpts, parser.WithBytes(cfg.bytes))
	}

	result, err := parser.ParseWithOptions(parseOpts...)
	if err != nil {
		return nil, err
	}
	return result.Spec, nil
}
