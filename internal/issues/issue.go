// Package issues provides a unified issue type for validation problems.
package issues

import (
	"fmt"
	"strings"

	"github.com/joshuadavidthomas/djtagspecs/internal/severity"
)

// Issue represents a single problem found during catalog validation.
type Issue struct {
	// Path is the document path to the problematic entity
	// (e.g., "libraries[app.tags].tags[hero].intermediates")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Code is the machine-readable violation code (e.g., "duplicate-module")
	Code string
	// Field is the specific field name that has the issue
	Field string
	// Value is the problematic value (optional)
	Value any
	// Source is the location of the document the issue originates from
	// (empty when the document was assembled in memory)
	Source string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	result := fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	if i.Code != "" {
		result += fmt.Sprintf(" [%s]", i.Code)
	}
	return result
}

// FormatList renders issues one per line, prefixed with their source
// location when present.
func FormatList(list []Issue) string {
	var b strings.Builder
	for idx, i := range list {
		if idx > 0 {
			b.WriteByte('\n')
		}
		if i.Source != "" {
			b.WriteString(i.Source)
			b.WriteString(": ")
		}
		b.WriteString(i.String())
	}
	return b.String()
}
