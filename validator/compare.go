package validator

import (
	"fmt"

	"github.com/erraggy/restspec/formatter"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/parser"
)

// Check compares one aspect of a captured response with its expectation and
// returns zero or more violations.
type Check func(expected parser.ResponseSpec, actual CapturedResponse) []Violation

// DefaultChecks is the fixed order in which Compare runs its checks.
var DefaultChecks = []Check{CheckStatus, CheckHeaders, CheckBody}

// Compare runs every default check and returns all violations in order:
// status first, then headers in document order, then body.
func Compare(expected parser.ResponseSpec, actual CapturedResponse) []Violation {
	return compareWith(DefaultChecks, expected, actual)
}

func compareWith(checks []Check, expected parser.ResponseSpec, actual CapturedResponse) []Violation {
	var violations []Violation
	for _, check := range checks {
		violations = append(violations, check(expected, actual)...)
	}
	return violations
}

// CheckStatus reports a status code mismatch.
func CheckStatus(expected parser.ResponseSpec, actual CapturedResponse) []Violation {
	if expected.StatusCode == actual.StatusCode {
		return nil
	}
	return []Violation{{
		Location:    LocationStatus,
		Description: fmt.Sprintf("Status code should have been %d but was %d", expected.StatusCode, actual.StatusCode),
	}}
}

// CheckHeaders reports each expected header whose captured value differs.
// A header the handler never set is reported as 'null'.
func CheckHeaders(expected parser.ResponseSpec, actual CapturedResponse) []Violation {
	var violations []Violation
	for _, h := range expected.Headers {
		got, ok := httputil.LookupHeader(actual.Headers, h.Name)
		if ok && got == h.Value {
			continue
		}
		if !ok {
			got = "null"
		}
		violations = append(violations, Violation{
			Location:    LocationHeader,
			Description: fmt.Sprintf("Expected header '%s' set to '%s', but was '%s'", h.Name, h.Value, got),
		})
	}
	return violations
}

// CheckBody compares bodies when an expected body is declared. JSON bodies
// are compared in canonical form; a side that is not valid JSON is reported
// on its own, with its raw text.
func CheckBody(expected parser.ResponseSpec, actual CapturedResponse) []Violation {
	if expected.Body == nil {
		return nil
	}
	want := *expected.Body

	if !isJSONComparison(expected, actual) {
		if want == actual.Body {
			return nil
		}
		return []Violation{bodyMismatch(want, actual.Body)}
	}

	var violations []Violation
	canonWant, errWant := formatter.Normalize(want)
	if errWant != nil {
		violations = append(violations, Violation{
			Location:    LocationBody,
			Description: fmt.Sprintf("expected: Failed to normalize JSON: '%s'", want),
		})
	}
	canonGot, errGot := formatter.Normalize(actual.Body)
	if errGot != nil {
		violations = append(violations, Violation{
			Location:    LocationBody,
			Description: fmt.Sprintf("actual  : Failed to normalize JSON: '%s'", actual.Body),
		})
	}
	if errWant == nil && errGot == nil && canonWant != canonGot {
		violations = append(violations, bodyMismatch(canonWant, canonGot))
	}
	return violations
}

func bodyMismatch(want, got string) Violation {
	return Violation{
		Location:    LocationBody,
		Description: fmt.Sprintf("Expected body '%s' but was '%s'", want, got),
	}
}

// isJSONComparison decides whether bodies are compared as JSON. The expected
// Content-Type decides when declared, then the one the handler set; with
// neither, both bodies must parse as JSON. A sniffed Content-Type does not
// count as declared.
func isJSONComparison(expected parser.ResponseSpec, actual CapturedResponse) bool {
	if ct, ok := expected.Headers.Get(httputil.HeaderContentType); ok {
		return httputil.IsJSONMediaType(ct)
	}
	if ct := actual.DeclaredContentType(); ct != "" {
		return httputil.IsJSONMediaType(ct)
	}
	return formatter.IsJSON(*expected.Body) && formatter.IsJSON(actual.Body)
}
