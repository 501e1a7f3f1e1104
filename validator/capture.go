package validator

import (
	"io"
	"net/http"
	"net/http/httptest"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/erraggy/restspec/internal/httputil"
)

// CapturedResponse is what a handler produced for one request.
type CapturedResponse struct {
	// StatusCode is the status written by the handler, 200 if none was written
	StatusCode int `json:"statusCode" yaml:"statusCode"`
	// Headers maps each header name to its last value
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Body is the response body decoded to UTF-8
	Body string `json:"body" yaml:"body"`
	// ContentTypeSniffed is set when the handler wrote a body without a
	// Content-Type and the header was filled in from the body bytes.
	ContentTypeSniffed bool `json:"contentTypeSniffed,omitempty" yaml:"contentTypeSniffed,omitempty"`
}

// ContentType returns the captured Content-Type header, if any.
func (c CapturedResponse) ContentType() string {
	v, _ := httputil.LookupHeader(c.Headers, httputil.HeaderContentType)
	return v
}

// DeclaredContentType returns the Content-Type the handler set itself, or
// "" when it set none.
func (c CapturedResponse) DeclaredContentType() string {
	if c.ContentTypeSniffed {
		return ""
	}
	return c.ContentType()
}

// Capture is an http.ResponseWriter that records a single response. It also
// implements io.StringWriter and http.Flusher. A Capture must not be reused
// across requests.
//
// Headers are recorded as a real server would send them: those set before
// the first WriteHeader or Write call.
type Capture struct {
	rec *httptest.ResponseRecorder

	// committed and declared record, at the first WriteHeader or Write,
	// whether the handler had set a Content-Type.
	committed bool
	declared  bool

	// DecodeCharset converts bodies declared in a non-UTF-8 charset to UTF-8
	// in Snapshot.
	DecodeCharset bool
}

var (
	_ http.ResponseWriter = (*Capture)(nil)
	_ io.StringWriter     = (*Capture)(nil)
	_ http.Flusher        = (*Capture)(nil)
)

// NewCapture returns an empty Capture with charset decoding enabled.
func NewCapture() *Capture {
	return &Capture{rec: httptest.NewRecorder(), DecodeCharset: true}
}

// Header implements http.ResponseWriter.
func (c *Capture) Header() http.Header {
	return c.rec.Header()
}

// Write implements http.ResponseWriter.
func (c *Capture) Write(b []byte) (int, error) {
	c.commit()
	return c.rec.Write(b)
}

// WriteString implements io.StringWriter, the text sink for handlers that
// produce character output.
func (c *Capture) WriteString(s string) (int, error) {
	c.commit()
	return c.rec.WriteString(s)
}

// WriteHeader implements http.ResponseWriter.
func (c *Capture) WriteHeader(code int) {
	c.commit()
	c.rec.WriteHeader(code)
}

// Flush implements http.Flusher.
func (c *Capture) Flush() {
	c.commit()
	c.rec.Flush()
}

// commit notes whether Content-Type was set before the response headers
// were fixed. The recorder sniffs one from the body otherwise.
func (c *Capture) commit() {
	if c.committed {
		return
	}
	c.committed = true
	c.declared = len(c.rec.Header().Values(httputil.HeaderContentType)) > 0
}

// Snapshot returns the response recorded so far.
func (c *Capture) Snapshot() CapturedResponse {
	c.commit()
	res := c.rec.Result()
	defer func() { _ = res.Body.Close() }()

	headers := make(map[string]string, len(res.Header))
	for name, values := range res.Header {
		if len(values) > 0 {
			headers[name] = values[len(values)-1]
		}
	}

	body := c.rec.Body.Bytes()
	if c.DecodeCharset {
		body = decodeCharset(body, res.Header.Get(httputil.HeaderContentType))
	}

	return CapturedResponse{
		StatusCode: res.StatusCode,
		Headers:    headers,
		Body:       string(body),

		ContentTypeSniffed: !c.declared && res.Header.Get(httputil.HeaderContentType) != "",
	}
}

// decodeCharset converts body from the charset declared in contentType to
// UTF-8. Unknown charsets and undecodable bodies are returned unchanged.
func decodeCharset(body []byte, contentType string) []byte {
	charset := httputil.Charset(contentType)
	if charset == "" || charset == "utf-8" || charset == "utf8" || len(body) == 0 {
		return body
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}
