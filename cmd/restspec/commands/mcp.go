package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/erraggy/restspec/internal/cliutil"
	"github.com/erraggy/restspec/internal/mcpserver"
)

// HandleMCP executes the mcp command: it serves the MCP tools over stdio
// until the client disconnects or the process is interrupted.
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the validate, validate_suite, parse, and normalize_json tools over\n")
		cliutil.Writef(fs.Output(), "the Model Context Protocol on stdin/stdout.\n\n")
		cliutil.Writef(fs.Output(), "Configuration is read from RESTSPEC_* environment variables.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return mcpserver.Run(ctx)
}
