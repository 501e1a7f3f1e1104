package parser

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/restspec"
	"github.com/erraggy/restspec/internal/httputil"
)

// Extensions recognized when loading documents and suites.
const (
	ExtJSON  = ".json"
	ExtYAML  = ".yaml"
	ExtYML   = ".yml"
	ExtTxtar = ".txtar"
)

const fetchTimeout = 30 * time.Second

// FormatBytes renders size with binary units, e.g. "1.5 KiB".
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// IsSpecFile reports whether path has a specification document extension.
func IsSpecFile(path string) bool {
	return detectFormatFromPath(path) != SourceFormatUnknown
}

func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtJSON:
		return SourceFormatJSON
	case ExtYAML, ExtYML:
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

// detectFormatFromContent treats anything starting with '{' or '[' as JSON
// and any other non-blank content as YAML.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	switch {
	case len(trimmed) == 0:
		return SourceFormatUnknown
	case trimmed[0] == '{' || trimmed[0] == '[':
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// detectFormatFromURL prefers the URL path extension, then the response
// Content-Type.
func detectFormatFromURL(rawURL, contentType string) SourceFormat {
	if u, err := url.Parse(rawURL); err == nil {
		if format := detectFormatFromPath(u.Path); format != SourceFormatUnknown {
			return format
		}
	}
	if contentType == "" {
		return SourceFormatUnknown
	}
	switch mt := httputil.MediaType(contentType); {
	case httputil.IsJSONMediaType(mt):
		return SourceFormatJSON
	case strings.HasSuffix(mt, "/yaml"), strings.HasSuffix(mt, "/x-yaml"):
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// httpClient returns the client used to fetch documents by URL.
func (p *Parser) httpClient() *http.Client {
	if p.HTTPClient != nil {
		if p.InsecureSkipVerify {
			p.log().Warn("InsecureSkipVerify ignored when HTTPClient provided; configure TLS on your client's transport")
		}
		return p.HTTPClient
	}
	client := &http.Client{Timeout: fetchTimeout}
	if p.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // user explicitly requested insecure mode
				MinVersion:         tls.VersionTLS12,
			},
		}
	}
	return client
}

// fetchURL downloads a document and returns its bytes and Content-Type.
func (p *Parser) fetchURL(rawURL string) ([]byte, string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("parser: failed to create request: %w", err)
	}
	ua := p.UserAgent
	if ua == "" {
		ua = restspec.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	p.log().Debug("fetching specification", "url", rawURL)
	resp, err := p.httpClient().Do(req) //nolint:gosec // G704 - URL is user-provided input
	if err != nil {
		return nil, "", fmt.Errorf("parser: failed to fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("parser: fetching %s: %s", rawURL, resp.Status)
	}
	data, err := p.readAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
