package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joshuadavidthomas/djtagspecs/composer"
	"github.com/joshuadavidthomas/djtagspecs/validator"
)

type validateInput struct {
	Spec       specInput `json:"spec"                  jsonschema:"The TagSpec document to validate"`
	NoResolve  bool      `json:"no_resolve,omitempty"  jsonschema:"Validate the single document without resolving its extends chain"`
	NoWarnings bool      `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int       `json:"offset,omitempty"      jsonschema:"Skip the first N findings (for pagination)"`
	Limit      int       `json:"limit,omitempty"       jsonschema:"Maximum number of findings to return (default 100). Applied independently to violations and warnings."`
}

type validateIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type validateOutput struct {
	Valid          bool            `json:"valid"`
	Sources        []string        `json:"sources,omitempty"`
	ViolationCount int             `json:"violation_count"`
	WarningCount   int             `json:"warning_count,omitempty"`
	Returned       int             `json:"returned"`
	Violations     []validateIssue `json:"violations,omitempty"`
	Warnings       []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	var result *validator.Result
	var sources []string

	// Inline content has no directory for extends resolution, so it always
	// validates standalone.
	if input.NoResolve || input.Spec.File == "" {
		spec, err := input.Spec.resolve()
		if err != nil {
			return errResult(err), validateOutput{}, nil
		}
		result = validator.New(validator.WithWarnings(!input.NoWarnings)).Validate(spec)
	} else {
		composed, err := composer.Compose(input.Spec.File)
		if err != nil {
			return errResult(err), validateOutput{}, nil
		}
		result = composed.Validation
		sources = composed.Sources
	}

	output := validateOutput{
		Valid:          result.Valid,
		Sources:        sources,
		ViolationCount: result.ViolationCount,
	}

	output.Violations = makeSlice[validateIssue](len(result.Violations))
	for _, v := range result.Violations {
		output.Violations = append(output.Violations, validateIssue{
			Path:    v.Path,
			Message: v.Message,
			Code:    v.Code,
			Field:   v.Field,
		})
	}
	if !input.NoWarnings {
		output.WarningCount = result.WarningCount
		output.Warnings = makeSlice[validateIssue](len(result.Warnings))
		for _, w := range result.Warnings {
			output.Warnings = append(output.Warnings, validateIssue{
				Path:    w.Path,
				Message: w.Message,
				Code:    w.Code,
				Field:   w.Field,
			})
		}
	}

	output.Violations = paginate(output.Violations, input.Offset, input.Limit)
	if !input.NoWarnings {
		output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	}
	output.Returned = len(output.Violations) + len(output.Warnings)

	return nil, output, nil
}
