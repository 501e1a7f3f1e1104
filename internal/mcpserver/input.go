package mcpserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/erraggy/restspec/parser"
)

// specInput names one specification document. Exactly one field must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a specification document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a specification document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline specification document (JSON or YAML)"`
}

// suiteInput names a suite: a directory or txtar archive on disk, a URL, or
// inline txtar content. Exactly one field must be set.
type suiteInput struct {
	Path    string `json:"path,omitempty"    jsonschema:"Path to a directory of specification documents, a .txtar archive, or a single document"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a txtar archive or a single document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline txtar archive; each member is one specification document"`
}

// resolve parses the document, consulting specCache first.
func (s specInput) resolve() (*parser.ParseResult, error) {
	if n := countSet(s.File, s.URL, s.Content); n != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", n)
	}
	if err := checkInlineSize(s.Content); err != nil {
		return nil, err
	}

	key, ttl := "", time.Duration(0)
	if cfg.CacheEnabled {
		key, ttl = s.cacheKey()
		if key != "" {
			if cached := specCache.lookup(key); cached != nil {
				return cached, nil
			}
		}
	}

	var opts []parser.Option
	if s.Content != "" {
		opts = []parser.Option{parser.WithReader(strings.NewReader(s.Content)), parser.WithSourceName("content")}
	} else {
		opts = remoteOptions(s.File, s.URL)
	}
	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	if key != "" {
		specCache.store(key, result, ttl)
	}
	return result, nil
}

// resolve loads the suite. Suites are not cached.
func (s suiteInput) resolve() (*parser.Suite, error) {
	if n := countSet(s.Path, s.URL, s.Content); n != 1 {
		return nil, fmt.Errorf("exactly one of path, url, or content must be provided (got %d)", n)
	}
	if err := checkInlineSize(s.Content); err != nil {
		return nil, err
	}
	if s.Content != "" {
		return parser.ParseSuiteWithOptions(parser.WithBytes([]byte(s.Content)), parser.WithSourceName("content.txtar"))
	}
	return parser.ParseSuiteWithOptions(remoteOptions(s.Path, s.URL)...)
}

// remoteOptions loads from path, or from url through the SSRF-guarded client
// unless RESTSPEC_ALLOW_PRIVATE_IPS is set.
func remoteOptions(path, url string) []parser.Option {
	if path != "" {
		return []parser.Option{parser.WithFilePath(path)}
	}
	opts := []parser.Option{parser.WithFilePath(url)}
	if !cfg.AllowPrivateIPs {
		opts = append(opts, parser.WithHTTPClient(documentClient()))
	}
	return opts
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

func checkInlineSize(content string) error {
	if int64(len(content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set RESTSPEC_MAX_INLINE_SIZE to increase",
			len(content), cfg.MaxInlineSize)
	}
	return nil
}
