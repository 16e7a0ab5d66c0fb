package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
	"github.com/joshuadavidthomas/djtagspecs/composer"
)

type composeInput struct {
	File       string `json:"file"                  jsonschema:"Path to the TagSpec file to compose"`
	Format     string `json:"format,omitempty"      jsonschema:"Output format for the composed document: toml (default), json, or yaml"`
	NoValidate bool   `json:"no_validate,omitempty" jsonschema:"Skip validating the composed document"`
	Parallel   bool   `json:"parallel,omitempty"    jsonschema:"Load sibling extends references concurrently"`
}

type composeOutput struct {
	Document       string   `json:"document"`
	Format         string   `json:"format"`
	Sources        []string `json:"sources"`
	LibraryCount   int      `json:"library_count"`
	TagCount       int      `json:"tag_count"`
	Valid          *bool    `json:"valid,omitempty"`
	ViolationCount int      `json:"violation_count,omitempty"`
	WarningCount   int      `json:"warning_count,omitempty"`
}

func handleCompose(_ context.Context, _ *mcp.CallToolRequest, input composeInput) (*mcp.CallToolResult, composeOutput, error) {
	format := catalog.FormatTOML
	if input.Format != "" {
		var err error
		format, err = catalog.ParseFormat(input.Format)
		if err != nil {
			return errResult(err), composeOutput{}, nil
		}
	}

	result, err := composer.Compose(input.File,
		composer.WithValidation(!input.NoValidate),
		composer.WithParallel(input.Parallel),
	)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}

	rendered, err := catalog.Marshal(result.Spec, format)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}

	output := composeOutput{
		Document:     string(rendered),
		Format:       string(format),
		Sources:      result.Sources,
		LibraryCount: len(result.Spec.Libraries),
	}
	for i := range result.Spec.Libraries {
		output.TagCount += len(result.Spec.Libraries[i].Tags)
	}
	if result.Validation != nil {
		valid := result.Validation.Valid
		output.Valid = &valid
		output.ViolationCount = result.Validation.ViolationCount
		output.WarningCount = result.Validation.WarningCount
	}
	return nil, output, nil
}
