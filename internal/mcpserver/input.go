package mcpserver

import (
	"fmt"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
)

// specInput represents the two ways a TagSpec document can be provided to
// a tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a TagSpec file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline TagSpec document content"`
	Format  string `json:"format,omitempty"  jsonschema:"Format of inline content: toml (default), json, jsonc, or yaml"`
}

// resolve parses the input into a normalized document. File inputs detect
// their format from the extension; inline content defaults to TOML.
func (in specInput) resolve() (*catalog.TagSpec, error) {
	switch {
	case in.File != "" && in.Content != "":
		return nil, fmt.Errorf("provide either file or content, not both")
	case in.File != "":
		return catalog.New().Parse(in.File)
	case in.Content != "":
		opts := []catalog.Option{catalog.WithBytes([]byte(in.Content))}
		if in.Format != "" {
			format, err := catalog.ParseFormat(in.Format)
			if err != nil {
				return nil, err
			}
			opts = append(opts, catalog.WithFormat(format))
		}
		return catalog.ParseWithOptions(opts...)
	default:
		return nil, fmt.Errorf("either file or content is required")
	}
}
