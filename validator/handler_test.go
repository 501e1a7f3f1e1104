package validator

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/specerrors"
)

func TestMethodHandler(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, r.Method)
	})

	tests := []struct {
		name       string
		handler    MethodHandler
		method     string
		wantStatus int
		wantBody   string
		wantAllow  string
	}{
		{name: "dispatch", handler: MethodHandler{"GET": ok}, method: "GET", wantStatus: 200, wantBody: "GET"},
		{name: "head falls back to get", handler: MethodHandler{"GET": ok}, method: "HEAD", wantStatus: 200, wantBody: "HEAD"},
		{name: "unknown method", handler: MethodHandler{"GET": ok, "PUT": ok}, method: "POST", wantStatus: 405, wantAllow: "GET, HEAD, PUT"},
		{name: "method names are exact", handler: MethodHandler{"GET": ok}, method: "get", wantStatus: 405, wantAllow: "GET, HEAD"},
		{name: "nil entry ignored", handler: MethodHandler{"GET": nil, "POST": ok}, method: "GET", wantStatus: 405, wantAllow: "POST"},
		{name: "empty handler", handler: MethodHandler{}, method: "GET", wantStatus: 405},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Allow"))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestProxyHandler_ConfigErrors(t *testing.T) {
	for _, target := range []string{"://bad", "ftp://example.com", "/relative", "http://"} {
		t.Run(target, func(t *testing.T) {
			h, err := ProxyHandler(target, nil)
			require.Error(t, err)
			assert.Nil(t, h)
			assert.True(t, errors.Is(err, specerrors.ErrConfig))
		})
	}
}

func TestProxyHandler_Forwards(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Echo-Id", r.Header.Get("X-Request-Id"))
		_, _ = fmt.Fprintf(w, `{"path": %q, "query": %q}`, r.URL.Path, r.URL.RawQuery)
	}))
	defer backend.Close()

	for name, client := range map[string]*http.Client{"default transport": nil, "client": backend.Client()} {
		t.Run(name, func(t *testing.T) {
			h, err := ProxyHandler(backend.URL+"/api", client)
			require.NoError(t, err)

			spec := testutil.NewJSONSpec("GET", "/users?limit=2", `{"path": "/api/users", "query": "limit=2"}`)
			spec.Request.Headers = parser.Headers{{Name: "X-Request-Id", Value: "req-1"}}
			spec.Response.Headers = append(spec.Response.Headers, parser.Header{Name: "X-Echo-Id", Value: "req-1"})

			validate(t, spec, h).AssertNoViolations(t)
		})
	}
}

func TestProxyHandler_DoesNotFollowRedirects(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/next" {
			_, _ = fmt.Fprint(w, "followed")
			return
		}
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer backend.Close()

	h, err := ProxyHandler(backend.URL, backend.Client())
	require.NoError(t, err)

	spec := testutil.NewSpec("GET", "/old")
	spec.Response.StatusCode = http.StatusFound
	spec.Response.Headers = append(spec.Response.Headers, parser.Header{Name: "Location", Value: "/next"})
	validate(t, spec, h).AssertNoViolations(t)
}

func TestProxyHandler_Unreachable(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	h, err := ProxyHandler(url, nil)
	require.NoError(t, err)

	result := validate(t, testutil.NewSpec("GET", "/"), h)
	assert.Equal(t, []string{"Status code should have been 200 but was 502"}, result.Descriptions())
	assert.Contains(t, result.Captured.Body, "restspec: proxy error")
}
