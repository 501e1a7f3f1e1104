package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erraggy/restspec/formatter"
	"github.com/erraggy/restspec/internal/cliutil"
)

// FmtFlags contains flags for the fmt command
type FmtFlags struct {
	Check   bool
	Compare string
}

// SetupFmtFlags creates and configures a FlagSet for the fmt command.
// Returns the FlagSet and a FmtFlags struct with bound flag variables.
func SetupFmtFlags() (*flag.FlagSet, *FmtFlags) {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flags := &FmtFlags{}

	fs.BoolVar(&flags.Check, "check", false, "report whether the input is already canonical instead of printing it")
	fs.BoolVar(&flags.Check, "c", false, "report whether the input is already canonical instead of printing it")
	fs.StringVar(&flags.Compare, "compare", "", "file whose JSON must be equivalent to the input after normalization")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec fmt [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Rewrite JSON into the canonical form used to compare bodies: keys keep their\n")
		cliutil.Writef(fs.Output(), "order, objects are indented by three spaces, array elements are one per line.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  restspec fmt body.json\n")
		cliutil.Writef(fs.Output(), "  curl -s http://localhost:8080/users/7 | restspec fmt -\n")
		cliutil.Writef(fs.Output(), "  restspec fmt --compare expected.json actual.json\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Success\n")
		cliutil.Writef(fs.Output(), "  1    Invalid JSON, not canonical (--check), or not equivalent (--compare)\n")
	}

	return fs, flags
}

// HandleFmt executes the fmt command
func HandleFmt(args []string) error {
	fs, flags := SetupFmtFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("fmt command requires exactly one file path or '-' for stdin")
	}
	path := fs.Arg(0)

	text, err := readInput(path)
	if err != nil {
		return err
	}
	canonical, err := formatter.Normalize(text)
	if err != nil {
		return fmt.Errorf("%s: %w", FormatSpecPath(path), err)
	}

	switch {
	case flags.Compare != "":
		other, err := readInput(flags.Compare)
		if err != nil {
			return err
		}
		equivalent, err := formatter.Equivalent(text, other)
		if err != nil {
			return err
		}
		if !equivalent {
			cliutil.Failf(os.Stdout, "✗ %s and %s differ\n", FormatSpecPath(path), FormatSpecPath(flags.Compare))
			return ErrFailed
		}
		cliutil.Passf(os.Stdout, "✓ %s and %s are equivalent\n", FormatSpecPath(path), FormatSpecPath(flags.Compare))
	case flags.Check:
		if canonical != strings.TrimRight(text, "\r\n") {
			cliutil.Writef(os.Stdout, "%s\n", FormatSpecPath(path))
			return ErrFailed
		}
	default:
		cliutil.Writef(os.Stdout, "%s\n", canonical)
	}
	return nil
}

// readInput returns the content of path, or of stdin for "-".
func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == StdinFilePath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304 - path is a user-supplied CLI argument
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", FormatSpecPath(path), err)
	}
	return string(data), nil
}
