package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuadavidthomas/djtagspecs/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name: "error with code",
			issue: Issue{
				Path:     "libraries[app.tags]",
				Message:  "duplicate library module",
				Severity: severity.SeverityError,
				Code:     "duplicate-module",
			},
			want: "✗ libraries[app.tags]: duplicate library module [duplicate-module]",
		},
		{
			name: "warning without code",
			issue: Issue{
				Path:     "libraries[app.tags].tags[hero]",
				Message:  "loader tag declares intermediates",
				Severity: severity.SeverityWarning,
			},
			want: "⚠ libraries[app.tags].tags[hero]: loader tag declares intermediates",
		},
		{
			name: "info",
			issue: Issue{
				Path:     "extends",
				Message:  "document merged twice",
				Severity: severity.SeverityInfo,
			},
			want: "ℹ extends: document merged twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestFormatList(t *testing.T) {
	list := []Issue{
		{Path: "a", Message: "first", Severity: severity.SeverityError, Source: "base.toml"},
		{Path: "b", Message: "second", Severity: severity.SeverityWarning},
	}

	got := FormatList(list)
	assert.Equal(t, "base.toml: ✗ a: first\n⚠ b: second", got)
}
