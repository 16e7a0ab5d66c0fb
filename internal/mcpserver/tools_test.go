package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
version = "0.2.0"

[[libraries]]
module = "app.tags"

[[libraries.tags]]
name = "hero"
type = "block"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTool_InlineContent(t *testing.T) {
	input := parseInput{Spec: specInput{Content: validTOML}}

	_, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", output.Version)
	assert.Equal(t, "django", output.Engine)
	assert.Equal(t, 1, output.LibraryCount)
	assert.Equal(t, 1, output.TagCount)
	require.Len(t, output.Libraries, 1)
	assert.Equal(t, []string{"hero"}, output.Libraries[0].Tags)
}

func TestParseTool_JSONContent(t *testing.T) {
	input := parseInput{Spec: specInput{
		Content: `{"version": "0.2.0", "libraries": []}`,
		Format:  "json",
	}}

	_, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", output.Version)
	assert.Zero(t, output.LibraryCount)
}

func TestParseTool_BothInputsRejected(t *testing.T) {
	input := parseInput{Spec: specInput{File: "x.toml", Content: validTOML}}

	result, _, err := handleParse(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestParseTool_MissingInputRejected(t *testing.T) {
	result, _, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestComposeTool_ResolvesExtends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.toml", validTOML)
	root := writeFile(t, dir, "root.toml", `
version = "0.2.0"
extends = ["base.toml"]
`)

	input := composeInput{File: root, Format: "yaml"}
	_, output, err := handleCompose(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "yaml", output.Format)
	assert.Len(t, output.Sources, 2)
	assert.Equal(t, 1, output.LibraryCount)
	assert.Contains(t, output.Document, "endhero")
	require.NotNil(t, output.Valid)
	assert.True(t, *output.Valid)
}

func TestComposeTool_NoValidate(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.toml", validTOML)

	input := composeInput{File: root, NoValidate: true}
	_, output, err := handleCompose(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Nil(t, output.Valid)
}

func TestComposeTool_CycleReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.toml", `
version = "0.2.0"
extends = ["b.toml"]
`)
	writeFile(t, dir, "b.toml", `
version = "0.2.0"
extends = ["a.toml"]
`)

	input := composeInput{File: filepath.Join(dir, "a.toml")}
	result, _, err := handleCompose(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestValidateTool_ValidContent(t *testing.T) {
	input := validateInput{Spec: specInput{Content: validTOML}}

	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Empty(t, output.Violations)
}

func TestValidateTool_InvalidContent(t *testing.T) {
	input := validateInput{Spec: specInput{Content: `
version = "0.2.0"

[[libraries]]
module = "app.tags"

[[libraries]]
module = "app.tags"
`}}

	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	require.Len(t, output.Violations, 1)
	assert.Equal(t, "duplicate-module", output.Violations[0].Code)
	assert.Equal(t, 1, output.Returned)
}

func TestValidateTool_ResolvesChainForFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.toml", validTOML)
	root := writeFile(t, dir, "root.toml", `
version = "0.2.0"
extends = ["base.toml"]
`)

	input := validateInput{Spec: specInput{File: root}}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Len(t, output.Sources, 2)

	input.NoResolve = true
	_, output, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Empty(t, output.Sources)
}

func TestSanitizeError(t *testing.T) {
	err := os.ErrNotExist
	assert.Equal(t, "file does not exist", sanitizeError(err))
	assert.Empty(t, sanitizeError(nil))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, paginate(items, 0, 0))
	assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	assert.Nil(t, paginate(items, 9, 2))
}
