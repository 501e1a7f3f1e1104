package validator

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/specerrors"
)

// Validator drives handlers with specified requests and checks their
// responses. It holds only configuration and is safe for concurrent use;
// each call to Validate owns its own request and Capture.
//
// Create a Validator using the New function:
//
//	v, err := validator.New(validator.WithLogger(parser.NewSlogAdapter(nil)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := v.Validate(ctx, spec, handler)
type Validator struct {
	// Logger receives a debug record per cycle and an info record per
	// failed cycle. If nil, logging is disabled.
	Logger parser.Logger

	// DecodeCharset converts captured bodies declared in a non-UTF-8
	// charset to UTF-8 before comparison. New enables it unless
	// WithDecodeCharset(false) is given; a zero Validator leaves it off.
	DecodeCharset bool

	// SkipStatusValidation, SkipHeaderValidation, and SkipBodyValidation
	// disable the corresponding check.
	SkipStatusValidation bool
	SkipHeaderValidation bool
	SkipBodyValidation   bool
}

// New creates a Validator configured by opts.
func New(opts ...Option) (*Validator, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return cfg.validator(), nil
}

func (v *Validator) log() parser.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return parser.NopLogger{}
}

func (v *Validator) checks() []Check {
	checks := make([]Check, 0, len(DefaultChecks))
	if !v.SkipStatusValidation {
		checks = append(checks, CheckStatus)
	}
	if !v.SkipHeaderValidation {
		checks = append(checks, CheckHeaders)
	}
	if !v.SkipBodyValidation {
		checks = append(checks, CheckBody)
	}
	return checks
}

// Validate runs one validation cycle: it builds the request described by
// spec, invokes h synchronously, captures the response, and compares it with
// spec.Response.
//
// Violations are reported in the result, never as an error. The error is
// non-nil only when spec cannot be turned into a request
// (*specerrors.SpecificationError) or h is nil.
func (v *Validator) Validate(ctx context.Context, spec *parser.Specification, h http.Handler) (*ValidationResult, error) {
	if h == nil {
		return nil, &specerrors.ConfigError{Option: "handler", Message: "handler cannot be nil"}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := parser.NewContextLogger(v.log(), ctx)
	if spec != nil {
		log = parser.NewContextLogger(log.With("spec", spec.Name, "method", spec.Request.Method, "url", spec.URL), ctx)
	}

	req, err := BuildRequest(ctx, spec)
	if err != nil {
		log.Error("cannot build request", "error", err)
		return nil, err
	}

	capture := NewCapture()
	capture.DecodeCharset = v.DecodeCharset

	start := time.Now()
	h.ServeHTTP(capture, req)
	elapsed := time.Since(start)

	captured := capture.Snapshot()
	result := &ValidationResult{
		Spec:       spec,
		Violations: compareWith(v.checks(), spec.Response, captured),
		Captured:   captured,
		Duration:   elapsed,
	}

	log.Debug("validated specification",
		"status", captured.StatusCode,
		"violations", len(result.Violations),
		"duration", elapsed)
	if !result.Valid() {
		log.Info("specification violated", "violations", result.Descriptions())
	}
	return result, nil
}

// ValidateSuite validates every specification of suite against h, one after
// another. Specifications that cannot be turned into a request are recorded
// in SuiteResult.Errors and do not stop the run. A cancelled ctx stops the
// run before the next specification; the partial result is returned with
// ctx.Err().
func (v *Validator) ValidateSuite(ctx context.Context, suite *parser.Suite, h http.Handler) (*SuiteResult, error) {
	if suite == nil {
		return nil, &specerrors.ConfigError{Option: "suite", Message: "suite cannot be nil"}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	out := &SuiteResult{Name: suite.Name}
	for _, spec := range suite.Specs() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		result, err := v.Validate(ctx, spec, h)
		if err != nil {
			if !errors.Is(err, specerrors.ErrSpecification) {
				return out, err
			}
			out.Errors = append(out.Errors, err)
			continue
		}
		out.Results = append(out.Results, result)
	}

	v.log().Debug("validated suite",
		"suite", suite.Name,
		"passed", out.Passed(),
		"failed", out.Failed(),
		"errors", len(out.Errors))
	return out, nil
}
