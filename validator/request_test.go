package validator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/specerrors"
)

func TestBuildRequest(t *testing.T) {
	spec := testutil.NewSpec("PATCH", "/rest/greeting?message=hello&message=world&lang=en")
	spec.Request.Headers = parser.Headers{
		{Name: "x-trace", Value: "a"},
		{Name: "X-Trace", Value: "b"},
		{Name: "Host", Value: "api.internal"},
	}
	spec.Request.Body = testutil.Body("payload")

	req, err := BuildRequest(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "PATCH", req.Method)
	assert.Equal(t, "/rest/greeting", req.URL.Path)
	assert.Equal(t, "message=hello&message=world&lang=en", req.URL.RawQuery)
	assert.Equal(t, "/rest/greeting?message=hello&message=world&lang=en", req.RequestURI)
	assert.Equal(t, []string{"hello", "world"}, QueryParams(req)["message"])
	assert.Equal(t, "en", QueryParams(req).Get("lang"))
	assert.Equal(t, []string{"a", "b"}, req.Header.Values("X-Trace"))
	assert.Empty(t, req.Header.Get("Host"))
	assert.Equal(t, "api.internal", req.Host)
	assert.Equal(t, DefaultRemoteAddr, req.RemoteAddr)
	assert.Equal(t, "HTTP/1.1", req.Proto)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int64(7), req.ContentLength)

	again, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Empty(t, again, "body is readable once")
}

func TestBuildRequest_Defaults(t *testing.T) {
	req, err := BuildRequest(context.Background(), testutil.NewSpec("get", "/plain"))
	require.NoError(t, err)

	assert.Equal(t, "get", req.Method, "method is not normalized")
	assert.Equal(t, DefaultHost, req.Host)
	assert.Empty(t, req.URL.RawQuery)
	assert.Empty(t, QueryParams(req))
	assert.Equal(t, http.NoBody, req.Body)
	assert.Zero(t, req.ContentLength)
	assert.Empty(t, QueryParams(nil))
}

func TestBuildRequest_EmptyBody(t *testing.T) {
	spec := testutil.NewSpec("POST", "/empty")
	spec.Request.Body = testutil.Body("")

	req, err := BuildRequest(context.Background(), spec)
	require.NoError(t, err)
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestBuildRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		url     string
		field   string
		message string
	}{
		{name: "missing url", method: "GET", url: "", field: "url", message: "is required"},
		{name: "blank url", method: "GET", url: "  ", field: "url", message: "is required"},
		{name: "missing method", method: "", url: "/", field: "request.method", message: "is required"},
		{name: "relative path", method: "GET", url: "users/7", field: "url", message: "absolute path"},
		{name: "absolute url", method: "GET", url: "http://example.com/x", field: "url", message: "absolute path"},
		{name: "bad escape in path", method: "GET", url: "/bad%zz", field: "url", message: "malformed URL"},
		{name: "bad escape in query", method: "GET", url: "/q?a=%zz", field: "url", message: "malformed query string"},
		{name: "invalid method", method: "GE T", url: "/", field: "request.method", message: "cannot build request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRequest(context.Background(), testutil.NewSpec(tt.method, tt.url))
			require.Error(t, err)

			var se *specerrors.SpecificationError
			require.True(t, errors.As(err, &se), "got %T", err)
			assert.Equal(t, tt.field, se.Field)
			assert.Contains(t, se.Message, tt.message)
		})
	}
}
