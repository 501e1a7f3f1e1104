package validator

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/specerrors"
)

// Defaults applied to every synthetic request, matching net/http/httptest.
const (
	DefaultHost       = "example.com"
	DefaultRemoteAddr = "192.0.2.1:1234"
)

// BuildRequest turns spec into a server-side *http.Request, as a handler
// would receive it from net/http. The request carries ctx.
//
// The URL is split on the first '?': the path becomes req.URL.Path and the
// rest req.URL.RawQuery. Repeated query names keep their order. The method is
// used exactly as written. Headers are added in document order under their
// canonical names; a Host header sets req.Host instead.
//
// A missing url or request.method, or a URL that is not an absolute path with
// a well-formed query string, yields a *specerrors.SpecificationError.
func BuildRequest(ctx context.Context, spec *parser.Specification) (*http.Request, error) {
	if err := validateRequestSpec(spec); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rawURL := spec.URL
	if !strings.HasPrefix(rawURL, "/") {
		return nil, &specerrors.SpecificationError{
			Spec:    spec.Name,
			Field:   "url",
			Value:   rawURL,
			Message: "must be an absolute path starting with '/'",
		}
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, &specerrors.SpecificationError{Spec: spec.Name, Field: "url", Value: rawURL, Message: "malformed URL", Cause: err}
	}
	if _, err := url.ParseQuery(u.RawQuery); err != nil {
		return nil, &specerrors.SpecificationError{Spec: spec.Name, Field: "url", Value: rawURL, Message: "malformed query string", Cause: err}
	}

	var body io.Reader
	if spec.Request.Body != nil {
		body = strings.NewReader(*spec.Request.Body)
	}
	req, err := http.NewRequestWithContext(ctx, spec.Request.Method, rawURL, body)
	if err != nil {
		return nil, &specerrors.SpecificationError{
			Spec:    spec.Name,
			Field:   "request.method",
			Value:   spec.Request.Method,
			Message: "cannot build request",
			Cause:   err,
		}
	}
	if req.Body == nil {
		req.Body = http.NoBody
	}

	req.RequestURI = rawURL
	req.RemoteAddr = DefaultRemoteAddr
	req.Host = DefaultHost
	for _, h := range spec.Request.Headers {
		if strings.EqualFold(h.Name, "Host") {
			req.Host = h.Value
			continue
		}
		req.Header.Add(h.Name, h.Value)
	}
	return req, nil
}

// QueryParams returns the query parameters of req, repeated names in order.
func QueryParams(req *http.Request) url.Values {
	if req == nil || req.URL == nil {
		return url.Values{}
	}
	return req.URL.Query()
}

func validateRequestSpec(spec *parser.Specification) error {
	if spec == nil {
		return &specerrors.SpecificationError{Message: "specification is nil"}
	}
	if strings.TrimSpace(spec.URL) == "" {
		return &specerrors.SpecificationError{Spec: spec.Name, Field: "url", Message: "is required"}
	}
	if strings.TrimSpace(spec.Request.Method) == "" {
		return &specerrors.SpecificationError{Spec: spec.Name, Field: "request.method", Message: "is required"}
	}
	return nil
}
