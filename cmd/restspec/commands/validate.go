package commands

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/erraggy/restspec/internal/cliutil"
	"github.com/erraggy/restspec/parser"
	"github.com/erraggy/restspec/validator"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Target      string
	Format      string
	Quiet       bool
	Curl        bool
	Filters     nameFilters
	SkipStatus  bool
	SkipHeaders bool
	SkipBody    bool
	Timeout     time.Duration
	Insecure    bool
	NoColor     bool
	Debug       bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.StringVar(&flags.Target, "target", "", "base URL of the service under test (required)")
	fs.StringVar(&flags.Target, "t", "", "base URL of the service under test (required)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only report failures and the summary")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only report failures and the summary")
	fs.BoolVar(&flags.Curl, "curl", false, "print a curl command reproducing each failing request")
	fs.Var(&flags.Filters.MustMatch, "run", "regex pattern(s) selecting specifications to run, by name")
	fs.Var(&flags.Filters.MustNotMatch, "skip", "regex pattern(s) selecting specifications not to run, by name")
	fs.BoolVar(&flags.SkipStatus, "skip-status", false, "do not check status codes")
	fs.BoolVar(&flags.SkipHeaders, "skip-headers", false, "do not check response headers")
	fs.BoolVar(&flags.SkipBody, "skip-body", false, "do not check response bodies")
	fs.DurationVar(&flags.Timeout, "timeout", 30*time.Second, "timeout for each request to the target")
	fs.BoolVar(&flags.Insecure, "insecure", false, "disable TLS certificate verification for the target")
	fs.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	fs.BoolVar(&flags.Debug, "debug", false, "log each validation cycle to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec validate [flags] --target <url> <file|dir|archive|url|->\n\n")
		cliutil.Writef(fs.Output(), "Send the request each specification describes to a running service and check\n")
		cliutil.Writef(fs.Output(), "the response status, headers, and body against the expected ones.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  restspec validate --target http://localhost:8080 specs/\n")
		cliutil.Writef(fs.Output(), "  restspec validate -t http://localhost:8080 --run '^users' suite.txtar\n")
		cliutil.Writef(fs.Output(), "  restspec validate -t https://staging.example.com --curl get-user.json\n")
		cliutil.Writef(fs.Output(), "  cat get-user.yaml | restspec validate -t http://localhost:8080 -q -\n")
		cliutil.Writef(fs.Output(), "  restspec validate -t http://localhost:8080 --format json specs/ | jq '.failed'\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Every specification passed\n")
		cliutil.Writef(fs.Output(), "  1    A specification failed or could not be run\n")
	}

	return fs, flags
}

// validateReport is the structured output of the validate command.
type validateReport struct {
	Suite   string       `json:"suite" yaml:"suite"`
	Target  string       `json:"target" yaml:"target"`
	Valid   bool         `json:"valid" yaml:"valid"`
	Passed  int          `json:"passed" yaml:"passed"`
	Failed  int          `json:"failed" yaml:"failed"`
	Errors  []string     `json:"errors,omitempty" yaml:"errors,omitempty"`
	Results []specReport `json:"results" yaml:"results"`
}

type specReport struct {
	Name       string                `json:"name" yaml:"name"`
	Valid      bool                  `json:"valid" yaml:"valid"`
	StatusCode int                   `json:"statusCode" yaml:"statusCode"`
	Duration   time.Duration         `json:"duration" yaml:"duration"`
	Violations []validator.Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	Curl       string                `json:"curl,omitempty" yaml:"curl,omitempty"`
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file, directory, archive, URL, or '-' for stdin")
	}
	specPath := fs.Arg(0)

	// Validate flags early to fail fast before loading anything
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Target == "" {
		return fmt.Errorf("--target is required")
	}
	if flags.NoColor {
		cliutil.SetColor(false)
	}

	logger := newLogger(flags.Debug)
	handler, err := validator.ProxyHandler(flags.Target, targetClient(flags.Timeout, flags.Insecure))
	if err != nil {
		return err
	}

	suite, err := loadSuite(specPath, parser.WithLogger(logger))
	if err != nil {
		return err
	}
	suite = flags.Filters.apply(suite)

	v, err := validator.New(
		validator.WithLogger(logger),
		validator.WithSkipStatusValidation(flags.SkipStatus),
		validator.WithSkipHeaderValidation(flags.SkipHeaders),
		validator.WithSkipBodyValidation(flags.SkipBody),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	result, err := v.ValidateSuite(ctx, suite, handler)
	if err != nil {
		return fmt.Errorf("validating %s: %w", FormatSpecPath(specPath), err)
	}
	totalTime := time.Since(startTime)

	report := buildValidateReport(result, flags)

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	} else {
		if !flags.Quiet {
			OutputHeader("REST Contract Validator", specPath)
			cliutil.Writef(os.Stderr, "Target: %s\n", flags.Target)
			cliutil.Writef(os.Stderr, "Total Time: %v\n\n", totalTime)
		}
		outputValidateText(report, flags.Quiet)
	}

	if !report.Valid {
		return ErrFailed
	}
	return nil
}

func buildValidateReport(result *validator.SuiteResult, flags *ValidateFlags) validateReport {
	report := validateReport{
		Suite:   result.Name,
		Target:  flags.Target,
		Valid:   result.Valid(),
		Passed:  result.Passed(),
		Failed:  result.Failed(),
		Results: make([]specReport, 0, len(result.Results)),
	}
	for _, e := range result.Errors {
		report.Errors = append(report.Errors, e.Error())
	}
	for _, r := range result.Results {
		sr := specReport{
			Name:       r.Name(),
			Valid:      r.Valid(),
			StatusCode: r.Captured.StatusCode,
			Duration:   r.Duration,
			Violations: r.Violations,
		}
		if flags.Curl && !r.Valid() {
			sr.Curl = curlCommand(flags.Target, r.Spec)
		}
		report.Results = append(report.Results, sr)
	}
	return report
}

func outputValidateText(report validateReport, quiet bool) {
	for _, r := range report.Results {
		if r.Valid {
			if !quiet {
				cliutil.Passf(os.Stdout, "✓ %s\n", r.Name)
			}
			continue
		}
		cliutil.Failf(os.Stdout, "✗ %s\n", r.Name)
		for _, v := range r.Violations {
			cliutil.Writef(os.Stdout, "    %s\n", indent(v.Description, "    "))
		}
		if r.Curl != "" {
			cliutil.Writef(os.Stdout, "    reproduce: %s\n", r.Curl)
		}
	}
	for _, e := range report.Errors {
		cliutil.Warnf(os.Stdout, "! %s\n", e)
	}

	cliutil.Writef(os.Stdout, "\n")
	summary := fmt.Sprintf("%d passed, %d failed", report.Passed, report.Failed)
	if len(report.Errors) > 0 {
		summary += fmt.Sprintf(", %d could not be run", len(report.Errors))
	}
	if report.Valid {
		cliutil.Passf(os.Stdout, "✓ Validation passed: %s\n", summary)
	} else {
		cliutil.Failf(os.Stdout, "✗ Validation failed: %s\n", summary)
	}
}

// targetClient returns the client used to reach the service under test.
func targetClient(timeout time.Duration, insecure bool) *http.Client {
	client := &http.Client{Timeout: timeout}
	if insecure {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // G402 - user explicitly requested insecure mode
		client.Transport = transport
	}
	return client
}

// indent prefixes every line of s after the first with prefix.
func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
