package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/parser"
)

// ErrViolations matches any *ViolationsError.
var ErrViolations = errors.New("contract violated")

// ViolationLocation indicates which part of the response a violation concerns.
type ViolationLocation string

// Violation location constants.
const (
	LocationStatus ViolationLocation = "status"
	LocationHeader ViolationLocation = "header"
	LocationBody   ViolationLocation = "body"
)

// Violation is a single discrepancy between the expected and the captured
// response.
type Violation struct {
	Location    ViolationLocation `json:"location" yaml:"location"`
	Description string            `json:"description" yaml:"description"`
}

// String returns the description.
func (v Violation) String() string {
	return v.Description
}

// ValidationResult is the outcome of one validation cycle. An empty
// Violations list means the handler honored the specification.
type ValidationResult struct {
	// Spec is the specification that was validated
	Spec *parser.Specification `json:"spec" yaml:"spec"`
	// Violations lists every discrepancy, in check order
	Violations []Violation `json:"violations" yaml:"violations"`
	// Captured is the response the handler produced
	Captured CapturedResponse `json:"captured" yaml:"captured"`
	// Duration is the time spent in the handler
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Valid reports whether no violations were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Descriptions returns the violation descriptions in order.
func (r *ValidationResult) Descriptions() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Description
	}
	return out
}

// Name returns the validated specification's name, or its summary when it
// has none.
func (r *ValidationResult) Name() string {
	if r.Spec == nil {
		return ""
	}
	if r.Spec.Name != "" {
		return r.Spec.Name
	}
	return r.Spec.String()
}

// String returns the descriptions, one per line.
func (r *ValidationResult) String() string {
	return strings.Join(r.Descriptions(), "\n")
}

// Err returns nil when the result is valid, otherwise a *ViolationsError.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ViolationsError{Spec: r.Name(), Violations: r.Violations}
}

// AssertNoViolations fails t once, listing every violation one per line, when
// the result is not valid. It does nothing otherwise.
func (r *ValidationResult) AssertNoViolations(t require.TestingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if r.Valid() {
		return
	}
	require.Fail(t, fmt.Sprintf("%s: %d contract violation(s)\n%s", r.Name(), len(r.Violations), r.String()))
}

// ViolationsError carries the violations of a failed validation as an error.
type ViolationsError struct {
	// Spec names the specification
	Spec string
	// Violations are the collected violations
	Violations []Violation
}

// Error returns every description, one per line.
func (e *ViolationsError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.Description
	}
	return strings.Join(lines, "\n")
}

// Is reports whether target is ErrViolations.
func (e *ViolationsError) Is(target error) bool {
	return target == ErrViolations
}

// SuiteResult is the outcome of validating every specification in a suite.
type SuiteResult struct {
	// Name is the suite name
	Name string `json:"name" yaml:"name"`
	// Results holds one entry per specification that could be run
	Results []*ValidationResult `json:"results" yaml:"results"`
	// Errors holds specifications that could not be turned into a request
	Errors []error `json:"-" yaml:"-"`
}

// Passed returns the number of results without violations.
func (s *SuiteResult) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Valid() {
			n++
		}
	}
	return n
}

// Failed returns the number of results with violations.
func (s *SuiteResult) Failed() int {
	return len(s.Results) - s.Passed()
}

// Valid reports whether every specification ran and passed.
func (s *SuiteResult) Valid() bool {
	return len(s.Errors) == 0 && s.Failed() == 0
}

// Err joins every specification error and violations error, or returns nil.
func (s *SuiteResult) Err() error {
	errs := append([]error(nil), s.Errors...)
	for _, r := range s.Results {
		if err := r.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}
