package parser

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/specerrors"
)

// DefaultStatusCode is the expected status when a document omits
// response.statusCode.
const DefaultStatusCode = 200

// Specification declares one request to send to a handler and the response
// it is expected to produce. Treat it as read-only once parsed.
type Specification struct {
	// Name identifies the specification in results and logs
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// URL is the request path plus optional query string, e.g. "/users?id=7"
	URL string `json:"url" yaml:"url"`
	// Request describes the synthetic request
	Request RequestSpec `json:"request" yaml:"request"`
	// Response describes the expected response
	Response ResponseSpec `json:"response" yaml:"response"`
}

// RequestSpec is the request half of a Specification.
type RequestSpec struct {
	// Method is the HTTP method, used exactly as written
	Method string `json:"method" yaml:"method"`
	// Headers are attached to the request in order
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Body is the request body; nil means no body
	Body *string `json:"body,omitempty" yaml:"body,omitempty"`
}

// ResponseSpec is the expected-response half of a Specification.
type ResponseSpec struct {
	// StatusCode is the expected status code
	StatusCode int `json:"statusCode" yaml:"statusCode"`
	// Headers are checked in order; nil means headers are not checked
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Body is the expected body; nil means the body is not checked
	Body *string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Header is a single name/value pair.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Headers is an ordered list of headers. Document order is preserved.
type Headers []Header

// Get returns the value of the first header named name. An exact match wins;
// otherwise names are compared case-insensitively.
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value, true
		}
	}
	return "", false
}

// Names returns the header names in order.
func (h Headers) Names() []string {
	names := make([]string, len(h))
	for i, hdr := range h {
		names[i] = hdr.Name
	}
	return names
}

// UnmarshalYAML decodes a mapping of header names to values, keeping the
// document order. A sequence value adds one header per element.
func (h *Headers) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if isNull(node) {
		*h = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: headers must be a mapping of name to value", node.Line)
	}

	out := make(Headers, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := resolveAlias(node.Content[i])
		value := resolveAlias(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: header name must be a scalar", key.Line)
		}
		switch value.Kind {
		case yaml.ScalarNode:
			out = append(out, Header{Name: key.Value, Value: scalarText(value)})
		case yaml.SequenceNode:
			for _, item := range value.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: header %q values must be scalars", item.Line, key.Value)
				}
				out = append(out, Header{Name: key.Value, Value: scalarText(item)})
			}
		default:
			return fmt.Errorf("line %d: header %q must have a scalar value", value.Line, key.Value)
		}
	}
	*h = out
	return nil
}

// Validate reports the first problem that prevents the specification from
// being turned into a request.
func (s *Specification) Validate() error {
	if s == nil {
		return &specerrors.SpecificationError{Message: "specification is nil"}
	}
	if strings.TrimSpace(s.URL) == "" {
		return &specerrors.SpecificationError{Spec: s.Name, Field: "url", Message: "is required"}
	}
	if strings.TrimSpace(s.Request.Method) == "" {
		return &specerrors.SpecificationError{Spec: s.Name, Field: "request.method", Message: "is required"}
	}
	if !httputil.IsValidStatusCode(s.Response.StatusCode) {
		return &specerrors.SpecificationError{
			Spec:    s.Name,
			Field:   "response.statusCode",
			Value:   s.Response.StatusCode,
			Message: "must be between 100 and 599",
		}
	}
	return nil
}

// Copy returns a deep copy of the specification.
func (s *Specification) Copy() *Specification {
	if s == nil {
		return nil
	}
	c := *s
	c.Request.Headers = copyHeaders(s.Request.Headers)
	c.Request.Body = copyString(s.Request.Body)
	c.Response.Headers = copyHeaders(s.Response.Headers)
	c.Response.Body = copyString(s.Response.Body)
	return &c
}

// String returns a one-line summary such as "GET /users -> 200".
func (s *Specification) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s -> %d", s.Request.Method, s.URL, s.Response.StatusCode)
}

func copyHeaders(h Headers) Headers {
	if h == nil {
		return nil
	}
	return append(Headers(nil), h...)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
