package parser

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/restspec"
	"github.com/erraggy/restspec/specerrors"
)

// DefaultMaxFileSize is the largest document the parser reads by default.
const DefaultMaxFileSize int64 = 10 << 20

// Parser loads specification documents.
type Parser struct {
	// ValidateStructure checks required fields after decoding and records
	// problems in ParseResult.Errors.
	ValidateStructure bool
	// UserAgent is the User-Agent string used when fetching URLs.
	// Defaults to restspec.UserAgent() if not set.
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with 30-second timeout is created.
	// When set, InsecureSkipVerify is ignored.
	HTTPClient *http.Client
	// InsecureSkipVerify disables TLS certificate verification when fetching URLs.
	InsecureSkipVerify bool
	// MaxFileSize is the maximum document size in bytes.
	// Default: 10MiB
	MaxFileSize int64
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ValidateStructure: true,
		UserAgent:         restspec.UserAgent(),
	}
}

func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// SourceFormat represents the format of a specification document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains a parsed specification and metadata about its source.
type ParseResult struct {
	// Spec is the decoded specification
	Spec *Specification
	// SourcePath is the path or URL the document was read from.
	// When the source was not a file, it is "ParseBytes.<ext>" or
	// "ParseReader.<ext>" based on the detected format.
	SourcePath string
	// SourceFormat is the format of the document
	SourceFormat SourceFormat
	// SourceSize is the size of the document in bytes
	SourceSize int64
	// LoadTime is the time taken to load the document (file or URL read)
	LoadTime time.Duration
	// Errors contains structure problems found when ValidateStructure is set
	Errors []error
	// Warnings contains tolerated irregularities, such as unknown keys or
	// trailing content after a JSON document
	Warnings []string
}

func (pr *ParseResult) addWarning(log Logger, msg string, attrs ...any) {
	pr.Warnings = append(pr.Warnings, msg)
	log.Warn(msg, attrs...)
}

// HasErrors reports whether structure validation found problems.
func (pr *ParseResult) HasErrors() bool {
	return len(pr.Errors) > 0
}

// Parse parses a specification file or URL.
// For URLs (http:// or https://), the content is fetched and parsed.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	var data []byte
	var err error
	var format SourceFormat

	loadStart := time.Now()
	if isURL(specPath) {
		var contentType string
		data, contentType, err = p.fetchURL(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(specPath, contentType)
	} else {
		data, err = p.readFile(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromPath(specPath)
	}
	loadTime := time.Since(loadStart)

	res, err := p.parse(data, specPath, specNameFromPath(specPath))
	if err != nil {
		return nil, err
	}
	res.SourcePath = specPath
	res.LoadTime = loadTime
	if format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses a specification from an io.Reader.
// Note: SourcePath is set to ParseReader.yaml or ParseReader.json.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := p.readAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, err
	}
	res, err := p.parse(data, "ParseReader", "")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + extFor(res.SourceFormat)
	return res, nil
}

// ParseBytes parses a specification from a byte slice.
// Note: SourcePath is set to ParseBytes.yaml or ParseBytes.json.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parse(data, "ParseBytes", "")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + extFor(res.SourceFormat)
	return res, nil
}

// parse decodes data; source names the input in errors and defaultName is
// used when the document has no name of its own.
func (p *Parser) parse(data []byte, source, defaultName string) (*ParseResult, error) {
	if int64(len(data)) > p.maxFileSize() {
		return nil, &specerrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("document size %s exceeds limit %s", FormatBytes(int64(len(data))), FormatBytes(p.maxFileSize())),
		}
	}

	result := &ParseResult{
		SourcePath:   source,
		SourceFormat: detectFormatFromContent(data),
		SourceSize:   int64(len(data)),
	}

	spec, err := p.decodeDocument(data, source, result)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = defaultName
	}
	result.Spec = spec

	if p.ValidateStructure {
		if err := spec.Validate(); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	p.log().Debug("parsed specification",
		"source", source,
		"name", spec.Name,
		"method", spec.Request.Method,
		"url", spec.URL,
		"format", result.SourceFormat,
		"warnings", len(result.Warnings))
	return result, nil
}

func (p *Parser) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	if info.Size() > p.maxFileSize() {
		return nil, &specerrors.ParseError{
			Path:    path,
			Message: fmt.Sprintf("file size %s exceeds limit %s", FormatBytes(info.Size()), FormatBytes(p.maxFileSize())),
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	return data, nil
}

func (p *Parser) readAll(r io.Reader) ([]byte, error) {
	limit := p.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &specerrors.ParseError{
			Message: fmt.Sprintf("input exceeds limit %s", FormatBytes(limit)),
		}
	}
	return data, nil
}

// specNameFromPath returns the base name of path without its extension.
func specNameFromPath(path string) string {
	base := filepath.Base(path)
	if isURL(path) {
		base = path[strings.LastIndex(path, "/")+1:]
		if i := strings.IndexAny(base, "?#"); i >= 0 {
			base = base[:i]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func extFor(format SourceFormat) string {
	if format == SourceFormatJSON {
		return "json"
	}
	return "yaml"
}
