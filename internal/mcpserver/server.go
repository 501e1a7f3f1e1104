// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes restspec capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec"
)

const serverInstructions = `restspec MCP server: checks running HTTP services against request/response contract specifications, and normalizes JSON.

A specification document is JSON or YAML with url, request.method, optional request.headers and request.body, and the expected response.statusCode, response.headers and response.body. A suite is a directory or txtar archive of such documents.

Configuration: defaults are configurable via RESTSPEC_* environment variables set in your MCP client config.

Key settings:
- RESTSPEC_CACHE_ENABLED (default: true): cache parsed specification documents
- RESTSPEC_CACHE_FILE_TTL (default: 15m): cache TTL for local files
- RESTSPEC_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched documents
- RESTSPEC_RESULT_LIMIT (default: 100): default number of violations or results returned
- RESTSPEC_ALLOW_PRIVATE_IPS (default: false): allow fetching documents from private addresses
- RESTSPEC_ALLOW_PRIVATE_TARGETS (default: true): allow validation targets on private addresses such as localhost
- RESTSPEC_TARGET_TIMEOUT (default: 30s): timeout for each request to a target`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "restspec", Version: restspec.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a running HTTP service against one specification. Sends the specified request to target (a base URL such as http://localhost:8080) and compares the response status, headers and body with the expected ones. Returns every violation; redirects are not followed. Use include_response=true to see the captured response.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_suite",
		Description: "Validate a running HTTP service against every specification in a suite (a directory or txtar archive). Specifications run one after another. Returns pass/fail counts and, per failing specification, its violations. Use failed_only=false to list passing specifications too.",
	}, handleValidateSuite)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse a specification document. Returns the request it describes, the expected response, structure errors, and warnings about tolerated irregularities. Use full=true to also return the normalized document.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_json",
		Description: "Rewrite JSON text into the canonical form used for body comparison: keys in document order, three-space indentation for objects. Pass compare to also report whether a second text is equivalent.",
	}, handleNormalizeJSON)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
