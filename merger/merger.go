// Package merger folds ordered TagSpec documents into a single merged
// catalog.
//
// Merging is deterministic and non-commutative: documents are applied left
// to right, and the later document wins every conflict. Two kinds of list
// participate in merging, and they behave differently on purpose:
//
//   - composable-by-identity lists (libraries keyed by module, tags keyed
//     by name, the end tag object) merge recursively field by field, so a
//     minimal tag can gain arguments from a later overlay without
//     restating everything
//   - atomic-by-name lists (argument lists, intermediate lists) treat each
//     named entry as one indivisible specification: a same-named overlay
//     entry replaces the base entry wholesale
//
// In both cases new names append after the base entries, preserving each
// side's relative order, so merge output never depends on map iteration.
//
// [Finalize] runs once after the whole fold: block tags (and loaders with
// block behavior) still lacking an end tag get the synthesized
// {"end" + name, required} form. Synthesis never overwrites an end tag
// that appeared anywhere in the chain.
package merger

import (
	"github.com/joshuadavidthomas/djtagspecs/catalog"
)

// Merge applies overlay on top of base, producing a new document. Neither
// operand is modified. An absent overlay scalar keeps the base value; the
// zero-value document is therefore the identity element on the left and
// the right.
func Merge(base, overlay *catalog.TagSpec) *catalog.TagSpec {
	merged := &catalog.TagSpec{
		Version:        scalar(base.Version, overlay.Version),
		Engine:         scalar(base.Engine, overlay.Engine),
		RequiresEngine: scalar(base.RequiresEngine, overlay.RequiresEngine),
		Libraries:      mergeLibraries(base.Libraries, overlay.Libraries),
		Extra:          mergeExtra(base.Extra, overlay.Extra),
		Unknown:        mergeExtra(base.Unknown, overlay.Unknown),
	}

	// The base's extends have already been applied by the time it is merged,
	// so only the overlay's remain meaningful.
	if len(overlay.Extends) > 0 {
		merged.Extends = append([]string(nil), overlay.Extends...)
	} else {
		merged.Extends = []string{}
	}

	return merged
}

// Fold merges an ordered document chain left to right, seeded with the
// empty document. The last element wins all conflicts.
func Fold(docs []*catalog.TagSpec) *catalog.TagSpec {
	merged := &catalog.TagSpec{}
	for _, doc := range docs {
		merged = Merge(merged, doc)
	}
	return merged
}

// Finalize synthesizes end tags for block-behaved tags that have none,
// returning a new document. It runs once per composition, after the fold,
// never per document.
func Finalize(spec *catalog.TagSpec) *catalog.TagSpec {
	out := spec.Clone()
	for li := range out.Libraries {
		lib := &out.Libraries[li]
		for ti := range lib.Tags {
			tag := &lib.Tags[ti]
			if tag.End == nil && tag.HasBlockBehavior() {
				tag.End = &catalog.EndTag{
					Name:     "end" + tag.Name,
					Args:     []catalog.TagArg{},
					Required: true,
				}
			}
		}
	}
	return out
}

// scalar returns the overlay value when present, else the base value.
func scalar[T ~string](base, overlay T) T {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeExtra shallow-merges two opaque maps; overlay keys win on collision
// and all other keys from both sides are retained. A side that is absent
// entirely leaves the other side's map (cloned) as the result. The reserved
// "source" key needs no special casing: the union keeps it from whichever
// side has it, with the overlay preferred when both do.
func mergeExtra(base, overlay map[string]any) map[string]any {
	if overlay == nil {
		return cloneExtra(base)
	}
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

func cloneExtra(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// mergeLibraries merges the composable-by-identity library lists, keyed by
// module. Base entries keep their positions; overlay-only modules append in
// appearance order.
func mergeLibraries(base, overlay []catalog.TagLibrary) []catalog.TagLibrary {
	index := make(map[string]int, len(base))
	result := make([]catalog.TagLibrary, len(base))
	for i := range base {
		result[i] = *base[i].Clone()
		index[base[i].Module] = i
	}

	for i := range overlay {
		lib := &overlay[i]
		if at, ok := index[lib.Module]; ok {
			result[at] = mergeLibrary(&result[at], lib)
		} else {
			result = append(result, *lib.Clone())
		}
	}
	return result
}

func mergeLibrary(base, overlay *catalog.TagLibrary) catalog.TagLibrary {
	return catalog.TagLibrary{
		Module:         base.Module,
		RequiresEngine: scalar(base.RequiresEngine, overlay.RequiresEngine),
		Tags:           mergeTags(base.Tags, overlay.Tags),
		Extra:          mergeExtra(base.Extra, overlay.Extra),
	}
}

// mergeTags merges the composable-by-identity tag lists, keyed by name
// within the library.
func mergeTags(base, overlay []catalog.Tag) []catalog.Tag {
	index := make(map[string]int, len(base))
	result := make([]catalog.Tag, len(base))
	for i := range base {
		result[i] = *base[i].Clone()
		index[base[i].Name] = i
	}

	for i := range overlay {
		tag := &overlay[i]
		if at, ok := index[tag.Name]; ok {
			result[at] = mergeTag(&result[at], tag)
		} else {
			result = append(result, *tag.Clone())
		}
	}
	return result
}

func mergeTag(base, overlay *catalog.Tag) catalog.Tag {
	return catalog.Tag{
		Name:          base.Name,
		Type:          scalar(base.Type, overlay.Type),
		Args:          mergeArgs(base.Args, overlay.Args),
		Intermediates: mergeIntermediates(base.Intermediates, overlay.Intermediates),
		End:           mergeEndTag(base.End, overlay.End),
		Extra:         mergeExtra(base.Extra, overlay.Extra),
	}
}

// mergeEndTag merges the object-valued end child recursively. One side
// absent yields a clone of the other.
func mergeEndTag(base, overlay *catalog.EndTag) *catalog.EndTag {
	if overlay == nil {
		return base.Clone()
	}
	if base == nil {
		return overlay.Clone()
	}
	return &catalog.EndTag{
		Name: scalar(base.Name, overlay.Name),
		Args: mergeArgs(base.Args, overlay.Args),
		// Required is concrete on every normalized document, so the
		// overlay's value stands.
		Required: overlay.Required,
		Extra:    mergeExtra(base.Extra, overlay.Extra),
	}
}

// mergeArgs treats argument lists as atomic-by-name: a same-named overlay
// entry replaces the base entry wholesale, at the base entry's position.
// New names append in appearance order.
func mergeArgs(base, overlay []catalog.TagArg) []catalog.TagArg {
	if len(base) == 0 && overlay == nil {
		return cloneArgSlice(base)
	}
	index := make(map[string]int, len(base))
	result := make([]catalog.TagArg, len(base))
	for i := range base {
		result[i] = *base[i].Clone()
		index[base[i].Name] = i
	}
	for i := range overlay {
		arg := &overlay[i]
		if at, ok := index[arg.Name]; ok {
			result[at] = *arg.Clone()
		} else {
			result = append(result, *arg.Clone())
		}
	}
	return result
}

// mergeIntermediates applies the same atomic-by-name policy to
// intermediate lists.
func mergeIntermediates(base, overlay []catalog.IntermediateTag) []catalog.IntermediateTag {
	index := make(map[string]int, len(base))
	result := make([]catalog.IntermediateTag, len(base))
	for i := range base {
		result[i] = *base[i].Clone()
		index[base[i].Name] = i
	}
	for i := range overlay {
		it := &overlay[i]
		if at, ok := index[it.Name]; ok {
			result[at] = *it.Clone()
		} else {
			result = append(result, *it.Clone())
		}
	}
	return result
}

func cloneArgSlice(args []catalog.TagArg) []catalog.TagArg {
	if args == nil {
		return nil
	}
	out := make([]catalog.TagArg, len(args))
	for i := range args {
		out[i] = *args[i].Clone()
	}
	return out
}
