package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	yamlv4 "go.yaml.in/yaml/v4"

	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

// Format represents the serialization format of a TagSpec document.
type Format string

const (
	// FormatTOML indicates a TOML document (.toml)
	FormatTOML Format = "toml"
	// FormatJSON indicates a JSON document (.json)
	FormatJSON Format = "json"
	// FormatJSONC indicates a JSON-with-comments document (.jsonc)
	FormatJSONC Format = "jsonc"
	// FormatYAML indicates a YAML document (.yaml, .yml)
	FormatYAML Format = "yaml"
	// FormatUnknown indicates the format could not be determined
	FormatUnknown Format = "unknown"
)

// SupportedExtensions lists the file extensions the resolver treats as
// TagSpec documents when expanding a directory reference, in the order they
// are recognized.
var SupportedExtensions = []string{".toml", ".json", ".jsonc", ".yaml", ".yml"}

// FormatFromPath infers the document format from a file extension.
// Returns FormatUnknown when the extension is not a supported format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".jsonc":
		return FormatJSONC
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// ParseFormat maps a format name (e.g., a CLI flag value) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("unsupported tagspec format %q (choose one of: toml, json, jsonc, yaml)", s)
	}
}

// IsSupportedPath reports whether the path has a supported document extension.
func IsSupportedPath(path string) bool {
	return FormatFromPath(path) != FormatUnknown
}

// Decode parses raw document bytes into a generic key-value tree.
//
// Numbers arrive as int64 (TOML), int (YAML), or float64 (JSON); the
// normalizer's accessors absorb the difference.
func (f Format) Decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	switch f {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, &tserrors.ParseError{Cause: err}
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &tserrors.ParseError{Cause: err}
		}
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, &tserrors.ParseError{Cause: err}
		}
	case FormatYAML:
		if err := yamlv4.Unmarshal(data, &raw); err != nil {
			return nil, &tserrors.ParseError{Cause: err}
		}
	default:
		return nil, &tserrors.ParseError{Message: fmt.Sprintf("cannot decode unknown format %q", string(f))}
	}
	return raw, nil
}

// Encode serializes a generic key-value tree in this format.
// JSONC documents are emitted as plain JSON; comments are not reconstructed.
func (f Format) Encode(payload map[string]any) ([]byte, error) {
	switch f {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("catalog: failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, FormatJSONC:
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("catalog: failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yamlv4.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("catalog: failed to encode YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("catalog: cannot encode unknown format %q", string(f))
	}
}
