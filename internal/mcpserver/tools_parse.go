package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseInput struct {
	Spec specInput `json:"spec" jsonschema:"The TagSpec document to parse"`
}

type librarySummary struct {
	Module         string   `json:"module"`
	RequiresEngine string   `json:"requires_engine,omitempty"`
	TagCount       int      `json:"tag_count"`
	Tags           []string `json:"tags,omitempty"`
}

type parseOutput struct {
	Version      string           `json:"version"`
	Engine       string           `json:"engine"`
	Extends      []string         `json:"extends,omitempty"`
	LibraryCount int              `json:"library_count"`
	TagCount     int              `json:"tag_count"`
	Libraries    []librarySummary `json:"libraries,omitempty"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	spec, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	output := parseOutput{
		Version:      spec.Version,
		Engine:       spec.Engine,
		Extends:      spec.Extends,
		LibraryCount: len(spec.Libraries),
		Libraries:    makeSlice[librarySummary](len(spec.Libraries)),
	}
	for i := range spec.Libraries {
		lib := &spec.Libraries[i]
		summary := librarySummary{
			Module:         lib.Module,
			RequiresEngine: lib.RequiresEngine,
			TagCount:       len(lib.Tags),
			Tags:           makeSlice[string](len(lib.Tags)),
		}
		for j := range lib.Tags {
			summary.Tags = append(summary.Tags, lib.Tags[j].Name)
		}
		output.TagCount += len(lib.Tags)
		output.Libraries = append(output.Libraries, summary)
	}
	return nil, output, nil
}
