// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes djtagspecs capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joshuadavidthomas/djtagspecs"
)

const serverInstructions = `djtagspecs MCP server: parses, composes, and validates TagSpec catalogs.

TagSpec documents describe template-tag syntax (tag names, argument shapes, block structure) for template engines such as Django's. Documents may be TOML, JSON, JSONC, or YAML and may extend other documents.

Tools:
- parse reads one document without resolving its extends chain and returns a structural summary.
- compose resolves the full extends chain, merges it into one canonical document, and returns it in the requested format.
- validate checks structural invariants (duplicate modules, malformed block structure, argument collisions) and returns every finding at once.`

// defaultIssueLimit bounds how many findings a tool returns per call.
const defaultIssueLimit = 100

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "djtagspecs", Version: djtagspecs.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse a single TagSpec document without resolving its extends chain. Returns a structural summary: spec version, engine, extends references, and per-library tag counts.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compose",
		Description: "Resolve a TagSpec document's extends chain and merge it into one canonical document. Returns the composed document in the requested format (toml, json, or yaml) together with the merge sources and validation findings. Requires a file path because extends references resolve relative to the document's directory.",
	}, handleCompose)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a TagSpec document against its structural invariants. By default the extends chain is resolved first so the composed document is checked; set no_resolve=true to check a single file in isolation. Returns all violations and warnings with document paths and stable codes.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to defaultIssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = defaultIssueLimit
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
