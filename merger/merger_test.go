package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
)

func baseDoc() *catalog.TagSpec {
	return &catalog.TagSpec{
		Version: "0.2.0",
		Engine:  "django",
		Extends: []string{},
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "hero",
						Type: catalog.TagTypeBlock,
						Args: []catalog.TagArg{
							{Name: "title", Required: true, Type: catalog.ArgTypeBoth, Kind: "variable"},
						},
						Intermediates: []catalog.IntermediateTag{},
					},
					{
						Name:          "base_only",
						Type:          catalog.TagTypeStandalone,
						Args:          []catalog.TagArg{},
						Intermediates: []catalog.IntermediateTag{},
					},
				},
			},
		},
	}
}

func TestMergeIdentity(t *testing.T) {
	doc := baseDoc()
	empty := &catalog.TagSpec{}

	left := Merge(empty, doc)
	right := Merge(doc, empty)

	assert.Equal(t, doc.Version, left.Version)
	assert.Equal(t, doc.Libraries, left.Libraries)
	assert.Equal(t, doc.Version, right.Version)
	assert.Equal(t, doc.Libraries, right.Libraries)
}

func TestMergeDoesNotMutateOperands(t *testing.T) {
	base := baseDoc()
	overlay := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "hero",
						Args: []catalog.TagArg{
							{Name: "subtitle", Required: false, Type: catalog.ArgTypeBoth, Kind: "variable"},
						},
					},
				},
			},
		},
	}

	merged := Merge(base, overlay)
	merged.Libraries[0].Tags[0].Args[0].Name = "mutated"
	merged.Libraries[0].Module = "mutated.tags"

	assert.Equal(t, "title", base.Libraries[0].Tags[0].Args[0].Name)
	assert.Equal(t, "app.tags", base.Libraries[0].Module)
	assert.Equal(t, "subtitle", overlay.Libraries[0].Tags[0].Args[0].Name)
}

func TestMergeScalarOverlayWins(t *testing.T) {
	base := &catalog.TagSpec{Version: "0.1.0", Engine: "django", RequiresEngine: ">=4.2"}
	overlay := &catalog.TagSpec{Version: "0.2.0"}

	merged := Merge(base, overlay)

	assert.Equal(t, "0.2.0", merged.Version)
	assert.Equal(t, "django", merged.Engine)
	assert.Equal(t, ">=4.2", merged.RequiresEngine)
}

func TestMergeExtendsNotInherited(t *testing.T) {
	base := &catalog.TagSpec{Extends: []string{"parent.toml"}}
	overlay := &catalog.TagSpec{}

	merged := Merge(base, overlay)
	assert.Empty(t, merged.Extends)

	merged = Merge(base, &catalog.TagSpec{Extends: []string{"other.toml"}})
	assert.Equal(t, []string{"other.toml"}, merged.Extends)
}

// A later document can add arguments and an end tag to a tag declared
// earlier without restating its existing arguments.
func TestMergeRecursiveTagAugmentation(t *testing.T) {
	base := baseDoc()
	overlay := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "hero",
						Args: []catalog.TagArg{
							{Name: "subtitle", Required: false, Type: catalog.ArgTypeBoth, Kind: "variable"},
						},
						End: &catalog.EndTag{Name: "endhero", Required: true},
					},
					{
						Name: "overlay_only",
						Type: catalog.TagTypeStandalone,
					},
				},
			},
		},
	}

	merged := Merge(base, overlay)

	require.Len(t, merged.Libraries, 1)
	lib := merged.Libraries[0]
	require.Len(t, lib.Tags, 3)

	names := make([]string, len(lib.Tags))
	for i, tag := range lib.Tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"hero", "base_only", "overlay_only"}, names)

	hero := lib.Tags[0]
	assert.Equal(t, catalog.TagTypeBlock, hero.Type)
	require.Len(t, hero.Args, 2)
	assert.Equal(t, "title", hero.Args[0].Name)
	assert.True(t, hero.Args[0].Required)
	assert.Equal(t, "subtitle", hero.Args[1].Name)
	require.NotNil(t, hero.End)
	assert.Equal(t, "endhero", hero.End.Name)
}

// Same-named arguments replace wholesale rather than merging field by
// field, so an overlay cannot half-update an argument.
func TestMergeArgsAtomicReplace(t *testing.T) {
	base := baseDoc()
	overlay := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "hero",
						Args: []catalog.TagArg{
							{Name: "title", Required: false, Type: catalog.ArgTypePositional, Kind: "literal"},
						},
					},
				},
			},
		},
	}

	merged := Merge(base, overlay)

	args := merged.Libraries[0].Tags[0].Args
	require.Len(t, args, 1)
	assert.Equal(t, "title", args[0].Name)
	assert.False(t, args[0].Required)
	assert.Equal(t, catalog.ArgTypePositional, args[0].Type)
	assert.Equal(t, catalog.ArgKind("literal"), args[0].Kind)
}

func TestMergeIntermediatesAtomicReplace(t *testing.T) {
	one := 1
	base := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "if",
						Type: catalog.TagTypeBlock,
						Intermediates: []catalog.IntermediateTag{
							{Name: "elif", Min: &one, Position: catalog.PositionAny},
							{Name: "else", Position: catalog.PositionLast},
						},
					},
				},
			},
		},
	}
	overlay := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "if",
						Intermediates: []catalog.IntermediateTag{
							{Name: "elif", Position: catalog.PositionAny},
						},
					},
				},
			},
		},
	}

	merged := Merge(base, overlay)

	ims := merged.Libraries[0].Tags[0].Intermediates
	require.Len(t, ims, 2)
	assert.Equal(t, "elif", ims[0].Name)
	assert.Nil(t, ims[0].Min)
	assert.Equal(t, "else", ims[1].Name)
}

func TestMergeExtraPreservesSource(t *testing.T) {
	base := &catalog.TagSpec{
		Extra: map[string]any{"source": "base.toml", "note": "keep"},
	}
	overlay := &catalog.TagSpec{
		Extra: map[string]any{"source": "overlay.toml"},
	}

	merged := Merge(base, overlay)
	assert.Equal(t, "overlay.toml", merged.Extra["source"])
	assert.Equal(t, "keep", merged.Extra["note"])

	merged = Merge(base, &catalog.TagSpec{Extra: map[string]any{"other": 1}})
	assert.Equal(t, "base.toml", merged.Extra["source"])

	merged = Merge(base, &catalog.TagSpec{})
	assert.Equal(t, "base.toml", merged.Extra["source"])
}

func TestMergeLibrariesAppendInOrder(t *testing.T) {
	base := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{{Module: "a"}, {Module: "b"}},
	}
	overlay := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{{Module: "b"}, {Module: "c"}, {Module: "d"}},
	}

	merged := Merge(base, overlay)

	modules := make([]string, len(merged.Libraries))
	for i, lib := range merged.Libraries {
		modules[i] = lib.Module
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, modules)
}

func TestFoldOrderSensitive(t *testing.T) {
	a := &catalog.TagSpec{Version: "0.1.0", Engine: "django"}
	b := &catalog.TagSpec{Version: "0.2.0"}

	ab := Fold([]*catalog.TagSpec{a, b})
	ba := Fold([]*catalog.TagSpec{b, a})

	assert.Equal(t, "0.2.0", ab.Version)
	assert.Equal(t, "0.1.0", ba.Version)
	assert.Equal(t, "django", ab.Engine)
}

func TestFoldEmptyChain(t *testing.T) {
	merged := Fold(nil)
	assert.Empty(t, merged.Version)
	assert.Empty(t, merged.Libraries)
}

func TestFinalizeSynthesizesEndTags(t *testing.T) {
	spec := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "django.template.defaulttags",
				Tags: []catalog.Tag{
					{Name: "if", Type: catalog.TagTypeBlock},
					{Name: "csrf_token", Type: catalog.TagTypeStandalone},
					{
						Name: "repeat",
						Type: catalog.TagTypeLoader,
						Intermediates: []catalog.IntermediateTag{
							{Name: "between", Position: catalog.PositionAny},
						},
					},
					{Name: "load", Type: catalog.TagTypeLoader},
				},
			},
		},
	}

	out := Finalize(spec)

	tags := out.Libraries[0].Tags
	require.NotNil(t, tags[0].End)
	assert.Equal(t, "endif", tags[0].End.Name)
	assert.True(t, tags[0].End.Required)
	assert.Empty(t, tags[0].End.Args)

	assert.Nil(t, tags[1].End)
	require.NotNil(t, tags[2].End)
	assert.Equal(t, "endrepeat", tags[2].End.Name)
	assert.Nil(t, tags[3].End)

	// input untouched
	assert.Nil(t, spec.Libraries[0].Tags[0].End)
}

func TestFinalizeKeepsExplicitEnd(t *testing.T) {
	spec := &catalog.TagSpec{
		Libraries: []catalog.TagLibrary{
			{
				Module: "app.tags",
				Tags: []catalog.Tag{
					{
						Name: "cache",
						Type: catalog.TagTypeBlock,
						End:  &catalog.EndTag{Name: "endcache", Required: false},
					},
				},
			},
		},
	}

	out := Finalize(spec)

	end := out.Libraries[0].Tags[0].End
	require.NotNil(t, end)
	assert.Equal(t, "endcache", end.Name)
	assert.False(t, end.Required)
}
