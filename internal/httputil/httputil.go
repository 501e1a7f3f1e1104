// Package httputil provides HTTP-related helpers shared by the validator,
// the CLI, and the MCP server.
package httputil

import (
	"mime"
	"net/http"
	"strings"
)

// HeaderContentType is the canonical Content-Type header name.
const HeaderContentType = "Content-Type"

// HTTP Status Code Constants
const (
	MinStatusCode = 100 // Minimum valid HTTP status code
	MaxStatusCode = 599 // Maximum valid HTTP status code
)

// IsValidStatusCode reports whether code is within the 100-599 range.
func IsValidStatusCode(code int) bool {
	return code >= MinStatusCode && code <= MaxStatusCode
}

// MediaType returns the lower-cased media type of a Content-Type value with
// parameters stripped. Values that fail to parse are trimmed and lower-cased
// up to the first ';' so that slightly malformed headers still classify.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		return mediaType
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// IsJSONMediaType reports whether a Content-Type value denotes JSON:
// application/json or any structured syntax suffix "+json"
// (e.g. application/problem+json).
func IsJSONMediaType(contentType string) bool {
	mediaType := MediaType(contentType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Charset returns the charset parameter of a Content-Type value, lower-cased,
// or "" when none is declared or the value cannot be parsed.
func Charset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// LookupHeader finds name in headers. An exact (case-sensitive) match wins;
// otherwise the Go canonical form of name is tried, since net/http stores
// header names canonicalized.
func LookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	canonical := http.CanonicalHeaderKey(name)
	if canonical == name {
		return "", false
	}
	v, ok := headers[canonical]
	return v, ok
}
