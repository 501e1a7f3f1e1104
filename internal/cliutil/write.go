// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Passf writes formatted output in the success color.
func Passf(w io.Writer, format string, args ...any) {
	Writef(w, "%s", passColor.Sprintf(format, args...))
}

// Failf writes formatted output in the failure color.
func Failf(w io.Writer, format string, args ...any) {
	Writef(w, "%s", failColor.Sprintf(format, args...))
}

// Warnf writes formatted output in the warning color.
func Warnf(w io.Writer, format string, args ...any) {
	Writef(w, "%s", warnColor.Sprintf(format, args...))
}

// SetColor forces colored output on or off. By default color is enabled
// only when stdout is a terminal and NO_COLOR is unset.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}
