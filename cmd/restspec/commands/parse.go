package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/restspec/internal/cliutil"
	"github.com/erraggy/restspec/parser"
)

// ParseFlags contains flags for the parse command
type ParseFlags struct {
	ValidateStructure bool
	Format            string
	Archive           bool
	Quiet             bool
	Debug             bool
}

// SetupParseFlags creates and configures a FlagSet for the parse command.
// Returns the FlagSet and a ParseFlags struct with bound flag variables.
func SetupParseFlags() (*flag.FlagSet, *ParseFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &ParseFlags{}

	fs.BoolVar(&flags.ValidateStructure, "validate-structure", true, "check required fields and report problems")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Archive, "archive", false, "print the specifications as a txtar archive of JSON documents")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the documents, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the documents, no diagnostic messages")
	fs.BoolVar(&flags.Debug, "debug", false, "log parsing details to stderr")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: restspec parse [flags] <file|dir|archive|url|->\n\n")
		cliutil.Writef(output, "Parse specification documents and print what they describe.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  restspec parse get-user.json\n")
		cliutil.Writef(output, "  restspec parse --format yaml specs/\n")
		cliutil.Writef(output, "  restspec parse --archive specs/ > suite.txtar\n")
		cliutil.Writef(output, "  cat get-user.yaml | restspec parse -q -\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    Parsing successful\n")
		cliutil.Writef(output, "  1    Parsing failed or structure errors found (with --validate-structure)\n")
	}

	return fs, flags
}

// parsedDocument is the structured output for one document.
type parsedDocument struct {
	Source   string                `json:"source" yaml:"source"`
	Format   parser.SourceFormat   `json:"format" yaml:"format"`
	Spec     *parser.Specification `json:"spec" yaml:"spec"`
	Warnings []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string              `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// HandleParse executes the parse command
func HandleParse(args []string) error {
	fs, flags := SetupParseFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("parse command requires exactly one file, directory, archive, URL, or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	suite, err := loadSuite(specPath,
		parser.WithValidateStructure(flags.ValidateStructure),
		parser.WithLogger(newLogger(flags.Debug)),
	)
	if err != nil {
		return err
	}

	if !flags.Quiet {
		OutputHeader("Specification Parser", specPath)
		cliutil.Writef(os.Stderr, "Documents: %d\n\n", suite.Len())
	}

	switch {
	case flags.Archive:
		data, err := parser.FormatArchive(suite.Description, suite.Specs())
		if err != nil {
			return err
		}
		cliutil.Writef(os.Stdout, "%s", data)
	case flags.Format == FormatJSON || flags.Format == FormatYAML:
		docs := make([]parsedDocument, 0, suite.Len())
		for _, r := range suite.Results {
			doc := parsedDocument{Source: r.SourcePath, Format: r.SourceFormat, Spec: r.Spec, Warnings: r.Warnings}
			for _, e := range r.Errors {
				doc.Errors = append(doc.Errors, e.Error())
			}
			docs = append(docs, doc)
		}
		if err := OutputStructured(docs, flags.Format); err != nil {
			return err
		}
	default:
		outputParseText(suite)
	}

	if len(suite.Errors()) > 0 {
		if !flags.Quiet {
			for _, e := range suite.Errors() {
				cliutil.Warnf(os.Stderr, "! %s\n", e)
			}
		}
		return ErrFailed
	}
	return nil
}

func outputParseText(suite *parser.Suite) {
	for _, r := range suite.Results {
		spec := r.Spec
		cliutil.Writef(os.Stdout, "%s (%s, %s)\n", spec.Name, r.SourcePath, parser.FormatBytes(r.SourceSize))
		cliutil.Writef(os.Stdout, "  request:  %s %s\n", spec.Request.Method, spec.URL)
		for _, h := range spec.Request.Headers {
			cliutil.Writef(os.Stdout, "            %s: %s\n", h.Name, h.Value)
		}
		if spec.Request.Body != nil {
			cliutil.Writef(os.Stdout, "            body: %d bytes\n", len(*spec.Request.Body))
		}
		cliutil.Writef(os.Stdout, "  response: %d\n", spec.Response.StatusCode)
		for _, h := range spec.Response.Headers {
			cliutil.Writef(os.Stdout, "            %s: %s\n", h.Name, h.Value)
		}
		if spec.Response.Body != nil {
			cliutil.Writef(os.Stdout, "            body: %d bytes\n", len(*spec.Response.Body))
		}
		for _, w := range r.Warnings {
			cliutil.Warnf(os.Stdout, "  warning: %s\n", w)
		}
	}
}
