// Package catalog provides the canonical TagSpec data model and the
// normalizer that turns raw parsed documents into typed, defaulted values.
//
// A TagSpec document describes the template tags exposed by one or more tag
// libraries: each tag's type (block, loader, or standalone), its arguments,
// its intermediate tags, and its end tag. Documents are authored in TOML,
// JSON, JSONC, or YAML; the format layer in this package decodes all four
// into a generic tree, and the normalizer converts that tree into a
// [TagSpec] with every default applied.
//
// Parsing never fails on absent optional data. It fails only when a value's
// shape is structurally invalid for its field (a string where an array is
// required, and so on), reported as a [tserrors.ParseError], or when the
// document declares a TagSpec version this library does not know, reported
// as a [tserrors.UnknownVersionError].
//
// Normalized documents are immutable by convention: the composer and merger
// packages always produce new values and never modify a parsed document in
// place. Callers that need to mutate a document should work on a
// [TagSpec.Clone].
//
// # Parsing
//
//	spec, err := catalog.ParseWithOptions(
//	    catalog.WithFilePath("catalog.toml"),
//	)
//
// The end-tag a block tag gets when none is declared anywhere in its
// extends chain is not synthesized here; that happens once, after the full
// merge fold, in the merger package. This ordering lets a later overlay
// supply an explicit end tag without merging against a synthesized default.
package catalog
