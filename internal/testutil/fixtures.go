// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/restspec/parser"
)

// Body returns a pointer to s, for the optional body fields of a specification.
func Body(s string) *string {
	return &s
}

// NewSpec creates a minimal specification: method and url, expecting 200
// with headers and body unchecked.
func NewSpec(method, url string) *parser.Specification {
	return &parser.Specification{
		Name:     method + " " + url,
		URL:      url,
		Request:  parser.RequestSpec{Method: method},
		Response: parser.ResponseSpec{StatusCode: 200},
	}
}

// NewJSONSpec creates a specification expecting a 200 JSON response with body.
func NewJSONSpec(method, url, body string) *parser.Specification {
	spec := NewSpec(method, url)
	spec.Response.Headers = parser.Headers{{Name: "Content-Type", Value: "application/json"}}
	spec.Response.Body = Body(body)
	return spec
}

// NewDetailedSpec creates a specification that exercises every field:
// a POST with headers and a JSON body, expecting 201, a Location header,
// and a JSON body.
func NewDetailedSpec() *parser.Specification {
	return &parser.Specification{
		Name: "create-user",
		URL:  "/users?notify=email&notify=sms",
		Request: parser.RequestSpec{
			Method: "POST",
			Headers: parser.Headers{
				{Name: "Content-Type", Value: "application/json"},
				{Name: "X-Request-Id", Value: "req-1"},
			},
			Body: Body(`{"name": "luke"}`),
		},
		Response: parser.ResponseSpec{
			StatusCode: 201,
			Headers: parser.Headers{
				{Name: "Content-Type", Value: "application/json"},
				{Name: "Location", Value: "/users/7"},
			},
			Body: Body(`{"id": 7, "name": "luke"}`),
		},
	}
}

// WriteTempYAML writes spec as a YAML document to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, spec *parser.Specification) string {
	t.Helper()

	data, err := parser.EncodeYAML(spec)
	if err != nil {
		t.Fatalf("Failed to marshal specification to YAML: %v", err)
	}
	return writeTemp(t, "spec.yaml", data)
}

// WriteTempJSON writes spec as a JSON document to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, spec *parser.Specification) string {
	t.Helper()

	data, err := parser.EncodeJSON(spec)
	if err != nil {
		t.Fatalf("Failed to marshal specification to JSON: %v", err)
	}
	return writeTemp(t, "spec.json", data)
}

// WriteTempArchive writes specs as a txtar suite to a temporary file.
func WriteTempArchive(t *testing.T, comment string, specs ...*parser.Specification) string {
	t.Helper()

	data, err := parser.FormatArchive(comment, specs)
	if err != nil {
		t.Fatalf("Failed to format archive: %v", err)
	}
	return writeTemp(t, "suite.txtar", data)
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return tmpFile
}
