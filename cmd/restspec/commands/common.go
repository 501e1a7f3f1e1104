// Package commands provides CLI command handlers for restspec.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.yaml.in/yaml/v4"
	"golang.org/x/tools/txtar"

	"github.com/erraggy/restspec"
	"github.com/erraggy/restspec/internal/cliutil"
	"github.com/erraggy/restspec/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ErrFailed is returned by a command whose check did not pass. The command
// has already reported why, so callers only need to exit non-zero.
var ErrFailed = errors.New("commands: check failed")

// stdin is where "-" reads from. Tests replace it.
var stdin io.Reader = os.Stdin

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(os.Stdout, "%s\n", bytes)
	return nil
}

// FormatSpecPath returns a display-friendly path for the specification.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// OutputHeader outputs the common banner to stderr.
func OutputHeader(title, specPath string) {
	cliutil.Writef(os.Stderr, "%s\n", title)
	for range title {
		cliutil.Writef(os.Stderr, "=")
	}
	cliutil.Writef(os.Stderr, "\n\n")
	cliutil.Writef(os.Stderr, "restspec version: %s\n", restspec.Version())
	cliutil.Writef(os.Stderr, "Specifications: %s\n", FormatSpecPath(specPath))
}

// newLogger returns a debug-level logger on stderr when debug is set, and
// nil otherwise.
func newLogger(debug bool) parser.Logger {
	if !debug {
		return nil
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return parser.NewSlogAdapter(slog.New(handler))
}

// loadSuite loads the specifications named by specPath: a directory, a txtar
// archive, a single document, a URL, or "-" for stdin. Stdin holding a txtar
// archive is read as a suite, anything else as a single document.
func loadSuite(specPath string, opts ...parser.Option) (*parser.Suite, error) {
	if specPath != StdinFilePath {
		suite, err := parser.ParseSuiteWithOptions(append(opts, parser.WithFilePath(specPath))...)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", specPath, err)
		}
		return suite, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if isArchive(data) {
		suite, err := parser.ParseSuiteWithOptions(append(opts, parser.WithBytes(data), parser.WithSourceName("stdin.txtar"))...)
		if err != nil {
			return nil, fmt.Errorf("loading stdin: %w", err)
		}
		return suite, nil
	}
	result, err := parser.ParseWithOptions(append(opts, parser.WithBytes(data), parser.WithSourceName("stdin"))...)
	if err != nil {
		return nil, fmt.Errorf("parsing stdin: %w", err)
	}
	return &parser.Suite{Name: "stdin", Results: []*parser.ParseResult{result}}, nil
}

// isArchive reports whether data is a txtar archive with at least one file.
func isArchive(data []byte) bool {
	return len(txtar.Parse(data).Files) > 0
}
