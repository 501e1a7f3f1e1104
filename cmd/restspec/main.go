// Command restspec validates running HTTP services against request/response
// contract specifications.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/restspec"
	"github.com/erraggy/restspec/cmd/restspec/commands"
)

// commandNames lists the commands known to main, for suggestions.
var commandNames = []string{"validate", "parse", "fmt", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Println(restspec.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "validate":
		err = commands.HandleValidate(os.Args[2:])
	case "parse":
		err = commands.HandleParse(os.Args[2:])
	case "fmt":
		err = commands.HandleFmt(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `restspec - REST contract validation

Usage:
  restspec <command> [flags] [arguments]

Commands:
  validate    Check a running service against specification documents
  parse       Parse specification documents and print what they describe
  fmt         Print JSON in the canonical form used to compare bodies
  mcp         Serve restspec tools over the Model Context Protocol (stdio)
  version     Print the version
  help        Print this help

Run 'restspec <command> --help' for the flags of a command.
`)
}

// suggestCommand returns the known command closest to input, or "" when none
// is within an edit distance of 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
