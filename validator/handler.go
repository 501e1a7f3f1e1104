package validator

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"strings"

	"github.com/erraggy/restspec/specerrors"
)

// MethodHandler dispatches requests by method. A HEAD request without its
// own entry is served by the GET entry. Any other method without an entry
// receives 405 Method Not Allowed with an Allow header listing the entries,
// so an empty MethodHandler answers every request with 405.
//
//	h := validator.MethodHandler{
//	    http.MethodGet: http.HandlerFunc(getUser),
//	}
type MethodHandler map[string]http.Handler

// ServeHTTP implements http.Handler.
func (m MethodHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h := m[r.Method]; h != nil {
		h.ServeHTTP(w, r)
		return
	}
	if r.Method == http.MethodHead {
		if h := m[http.MethodGet]; h != nil {
			h.ServeHTTP(w, r)
			return
		}
	}
	if allow := m.allowed(); allow != "" {
		w.Header().Set("Allow", allow)
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// allowed returns the supported methods, sorted and comma separated.
func (m MethodHandler) allowed() string {
	methods := make([]string, 0, len(m)+1)
	for method, h := range m {
		if h != nil {
			methods = append(methods, method)
		}
	}
	if m[http.MethodGet] != nil && m[http.MethodHead] == nil {
		methods = append(methods, http.MethodHead)
	}
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}

// ProxyHandler returns a handler that forwards each request to the service
// at baseURL, so that a running service can be validated like an in-process
// handler. The request path and query are appended to baseURL's.
//
// Redirects are never followed: the service's own response is what gets
// captured. A nil client uses http.DefaultTransport. A transport failure is
// answered with 502 Bad Gateway.
func ProxyHandler(baseURL string, client *http.Client) (http.Handler, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, &specerrors.ConfigError{Option: "target", Value: baseURL, Message: "invalid URL", Cause: err}
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, &specerrors.ConfigError{Option: "target", Value: baseURL, Message: "must be an absolute http or https URL"}
	}

	var transport http.RoundTripper = http.DefaultTransport
	if client != nil {
		c := *client
		c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		transport = clientTransport{client: &c}
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			if host := pr.In.Host; host != "" && host != DefaultHost {
				pr.Out.Host = host
			}
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, fmt.Sprintf("restspec: proxy error: %v", err), http.StatusBadGateway)
		},
	}, nil
}

// clientTransport sends proxied requests through an http.Client so that
// its timeout and cookie jar apply.
type clientTransport struct {
	client *http.Client
}

func (t clientTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.RequestURI = ""
	return t.client.Do(out)
}
