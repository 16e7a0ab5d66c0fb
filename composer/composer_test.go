package composer

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// warnRecorder captures Warn calls so tests can assert on diamond
// diagnostics. Embeds NopLogger for the remaining methods.
type warnRecorder struct {
	catalog.NopLogger
	mu    sync.Mutex
	warns []string
}

func (w *warnRecorder) Warn(msg string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns = append(w.warns, msg)
}

func (w *warnRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.warns)
}

func TestComposeSingleDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "tags.toml", `
version = "0.2.0"

[[libraries]]
module = "app.tags"

[[libraries.tags]]
name = "hero"
type = "block"

[[libraries.tags.args]]
name = "title"
kind = "variable"
`)

	result, err := Compose(path)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, result.Sources)
	assert.Empty(t, result.Spec.Extends)
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.Valid)

	hero := result.Spec.Library("app.tags").Tag("hero")
	require.NotNil(t, hero)
	require.NotNil(t, hero.End)
	assert.Equal(t, "endhero", hero.End.Name)
	assert.True(t, hero.End.Required)
}

func TestComposeExtendsChain(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "base.toml", `
version = "0.1.0"

[[libraries]]
module = "app.tags"

[[libraries.tags]]
name = "hello"
type = "standalone"

[[libraries.tags]]
name = "base_only"
type = "standalone"
`)
	child := writeSpec(t, dir, "child.toml", `
version = "0.2.0"
extends = ["base.toml"]

[extra]
source = "overlay"

[[libraries]]
module = "app.tags"

[[libraries.tags]]
name = "hello"
type = "block"

[[libraries.tags]]
name = "overlay_only"
type = "standalone"
`)

	result, err := Compose(child)
	require.NoError(t, err)

	spec := result.Spec
	assert.Equal(t, "0.2.0", spec.Version)
	assert.Equal(t, "django", spec.Engine)
	assert.Equal(t, "overlay", spec.Extra["source"])

	require.Len(t, spec.Libraries, 1)
	names := make([]string, 0, 3)
	for _, tag := range spec.Libraries[0].Tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"hello", "base_only", "overlay_only"}, names)

	// the overlay retyped hello to block, so it gains a synthesized end
	hello := spec.Library("app.tags").Tag("hello")
	assert.Equal(t, catalog.TagTypeBlock, hello.Type)
	require.NotNil(t, hello.End)
	assert.Equal(t, "endhello", hello.End.Name)

	assert.Len(t, result.Sources, 2)
	assert.Equal(t, child, result.Sources[1])
}

func TestComposeCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.toml", `
version = "0.2.0"
extends = ["b.toml"]
`)
	b := writeSpec(t, dir, "b.toml", `
version = "0.2.0"
extends = ["a.toml"]
`)

	_, err := Compose(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tserrors.ErrCycle))

	var cycleErr *tserrors.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, a, cycleErr.Location)
	assert.Equal(t, []string{a, b, a}, cycleErr.Chain)
}

func TestComposeSelfCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.toml", `
version = "0.2.0"
extends = ["a.toml"]
`)

	_, err := Compose(a)
	var cycleErr *tserrors.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{a, a}, cycleErr.Chain)
}

func TestComposeDiamond(t *testing.T) {
	dir := t.TempDir()
	shared := writeSpec(t, dir, "shared.toml", `
version = "0.2.0"

[[libraries]]
module = "shared.tags"

[[libraries.tags]]
name = "common"
type = "standalone"
`)
	left := writeSpec(t, dir, "left.toml", `
version = "0.2.0"
extends = ["shared.toml"]
`)
	right := writeSpec(t, dir, "right.toml", `
version = "0.2.0"
extends = ["shared.toml"]
`)
	root := writeSpec(t, dir, "root.toml", `
version = "0.2.0"
extends = ["left.toml", "right.toml"]
`)

	recorder := &warnRecorder{}
	result, err := New(WithLogger(recorder)).Compose(root)
	require.NoError(t, err)

	// the shared ancestor merges once per occurrence and is not deduplicated
	assert.Equal(t, []string{shared, left, shared, right, root}, result.Sources)
	assert.Equal(t, 1, recorder.count())

	require.Len(t, result.Spec.Libraries, 1)
	assert.Len(t, result.Spec.Libraries[0].Tags, 1)
}

func TestComposeParallelSiblings(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one", "two", "three"} {
		writeSpec(t, dir, name+".toml", `
version = "0.2.0"

[[libraries]]
module = "app.`+name+`"
`)
	}
	root := writeSpec(t, dir, "root.toml", `
version = "0.2.0"
extends = ["one.toml", "two.toml", "three.toml"]
`)

	result, err := New(WithParallel(true)).Compose(root)
	require.NoError(t, err)

	modules := make([]string, 0, 3)
	for _, lib := range result.Spec.Libraries {
		modules = append(modules, lib.Module)
	}
	assert.Equal(t, []string{"app.one", "app.two", "app.three"}, modules)
	assert.Len(t, result.Sources, 4)
}

func TestComposeGlobExtends(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "specs/b.toml", `
version = "0.2.0"

[[libraries]]
module = "app.b"
`)
	writeSpec(t, dir, "specs/a.toml", `
version = "0.2.0"

[[libraries]]
module = "app.a"
`)
	root := writeSpec(t, dir, "root.toml", `
version = "0.2.0"
extends = ["specs/*.toml"]
`)

	result, err := Compose(root)
	require.NoError(t, err)

	modules := make([]string, 0, 2)
	for _, lib := range result.Spec.Libraries {
		modules = append(modules, lib.Module)
	}
	assert.Equal(t, []string{"app.a", "app.b"}, modules)
}

func TestComposeMissingReference(t *testing.T) {
	dir := t.TempDir()
	root := writeSpec(t, dir, "root.toml", `
version = "0.2.0"
extends = ["missing.toml"]
`)

	_, err := Compose(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tserrors.ErrResolution))
}

func TestComposeMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "c.toml", `
version = "0.2.0"
`)
	writeSpec(t, dir, "b.toml", `
version = "0.2.0"
extends = ["c.toml"]
`)
	a := writeSpec(t, dir, "a.toml", `
version = "0.2.0"
extends = ["b.toml"]
`)

	_, err := New(WithMaxDepth(1)).Compose(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tserrors.ErrResolution))
	assert.Contains(t, err.Error(), "depth limit")

	_, err = New(WithMaxDepth(2)).Compose(a)
	assert.NoError(t, err)
}

func TestComposeParseErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	root := writeSpec(t, dir, "root.toml", `version = `)

	_, err := Compose(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tserrors.ErrParse))
}

func TestComposeValidationFindings(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "bad.toml", `
version = "0.2.0"

[[libraries]]
module = "app.tags"

[[libraries.tags]]
name = "if"
type = "block"

[[libraries.tags.intermediates]]
name = "else"
position = "last"

[[libraries.tags.intermediates]]
name = "empty"
position = "last"
`)

	result, err := Compose(path)
	require.NoError(t, err)
	require.NotNil(t, result.Validation)
	assert.False(t, result.Validation.Valid)

	off, err := Compose(path, WithValidation(false))
	require.NoError(t, err)
	assert.Nil(t, off.Validation)
}

func TestComposerCacheReusedAcrossCompositions(t *testing.T) {
	dir := t.TempDir()
	base := writeSpec(t, dir, "base.toml", `
version = "0.2.0"

[[libraries]]
module = "app.tags"
`)
	root := writeSpec(t, dir, "root.toml", `
version = "0.2.0"
extends = ["base.toml"]
`)

	c := New()
	first, err := c.Compose(root)
	require.NoError(t, err)

	// removing the file does not affect later compositions served from cache
	require.NoError(t, os.Remove(base))
	second, err := c.Compose(root)
	require.NoError(t, err)

	assert.Equal(t, first.Sources, second.Sources)
}

func TestResolveChainOrder(t *testing.T) {
	dir := t.TempDir()
	grand := writeSpec(t, dir, "grand.toml", `
version = "0.2.0"
`)
	parent := writeSpec(t, dir, "parent.toml", `
version = "0.2.0"
extends = ["grand.toml"]
`)
	child := writeSpec(t, dir, "child.toml", `
version = "0.2.0"
extends = ["parent.toml"]
`)

	docs, sources, err := New().ResolveChain(child)
	require.NoError(t, err)

	assert.Equal(t, []string{grand, parent, child}, sources)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"parent.toml"}, docs[2].Extends)
}

func TestComposeDoesNotWarnOnLinearChain(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "base.toml", `
version = "0.2.0"
`)
	root := writeSpec(t, dir, "root.toml", `
version = "0.2.0"
extends = ["base.toml"]
`)

	recorder := &warnRecorder{}
	_, err := New(WithLogger(recorder)).Compose(root)
	require.NoError(t, err)
	assert.Zero(t, recorder.count())
}
