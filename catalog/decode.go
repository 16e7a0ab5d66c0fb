package catalog

import (
	"fmt"

	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

// topLevelKeys are the document keys the normalizer understands. Anything
// else is preserved verbatim in TagSpec.Unknown.
var topLevelKeys = map[string]bool{
	"version":         true,
	"engine":          true,
	"requires_engine": true,
	"extends":         true,
	"libraries":       true,
	"extra":           true,
}

// DefaultEngine is the template dialect assumed when a document does not
// declare one.
const DefaultEngine = "django"

// Decoder normalizes raw parsed trees into canonical TagSpec documents,
// applying every defaulting rule of the TagSpec format.
//
// Decoding is total over absent optional data: it fails only when a present
// value has the wrong kind for its field, or when the document declares an
// unrecognized TagSpec version. The default version is injected here rather
// than read from package state so concurrent decodes with different assumed
// versions never interfere.
type Decoder struct {
	// DefaultVersion is assigned to documents that do not declare a
	// version. Empty means the latest known TagSpec version.
	DefaultVersion string
}

// DecodeSpec normalizes a raw tree using a zero-configured Decoder.
func DecodeSpec(raw map[string]any) (*TagSpec, error) {
	return (&Decoder{}).Decode(raw)
}

// Decode converts a raw parsed tree into a canonical TagSpec.
func (d *Decoder) Decode(raw map[string]any) (*TagSpec, error) {
	spec := &TagSpec{}

	version, present, err := rawString(raw, "version", "version")
	if err != nil {
		return nil, err
	}
	if !present {
		version = d.DefaultVersion
		if version == "" {
			version = LatestSpecVersion.String()
		}
	}
	if _, ok := ParseSpecVersion(version); !ok {
		return nil, &tserrors.UnknownVersionError{
			Version:   version,
			Supported: SupportedVersions(),
		}
	}
	spec.Version = version

	engine, present, err := rawString(raw, "engine", "engine")
	if err != nil {
		return nil, err
	}
	if !present {
		engine = DefaultEngine
	}
	spec.Engine = engine

	if spec.RequiresEngine, _, err = rawString(raw, "requires_engine", "requires_engine"); err != nil {
		return nil, err
	}

	extends, err := rawStringSlice(raw, "extends", "extends")
	if err != nil {
		return nil, err
	}
	if extends == nil {
		extends = []string{}
	}
	spec.Extends = extends

	libraries, err := rawMapSlice(raw, "libraries", "libraries")
	if err != nil {
		return nil, err
	}
	spec.Libraries = make([]TagLibrary, 0, len(libraries))
	for i, rawLib := range libraries {
		lib, err := decodeLibrary(rawLib, fmt.Sprintf("libraries[%d]", i))
		if err != nil {
			return nil, err
		}
		spec.Libraries = append(spec.Libraries, *lib)
	}

	extra, err := rawMap(raw, "extra", "extra")
	if err != nil {
		return nil, err
	}
	spec.Extra = cloneMap(extra)

	for k, v := range raw {
		if topLevelKeys[k] {
			continue
		}
		if spec.Unknown == nil {
			spec.Unknown = make(map[string]any)
		}
		spec.Unknown[k] = cloneValue(v)
	}

	return spec, nil
}

func decodeLibrary(raw map[string]any, field string) (*TagLibrary, error) {
	lib := &TagLibrary{}
	var err error

	if lib.Module, _, err = rawString(raw, "module", field+".module"); err != nil {
		return nil, err
	}
	if lib.RequiresEngine, _, err = rawString(raw, "requires_engine", field+".requires_engine"); err != nil {
		return nil, err
	}

	tags, err := rawMapSlice(raw, "tags", field+".tags")
	if err != nil {
		return nil, err
	}
	lib.Tags = make([]Tag, 0, len(tags))
	for i, rawTag := range tags {
		tag, err := decodeTag(rawTag, fmt.Sprintf("%s.tags[%d]", field, i))
		if err != nil {
			return nil, err
		}
		lib.Tags = append(lib.Tags, *tag)
	}

	extra, err := rawMap(raw, "extra", field+".extra")
	if err != nil {
		return nil, err
	}
	lib.Extra = cloneMap(extra)

	return lib, nil
}

func decodeTag(raw map[string]any, field string) (*Tag, error) {
	tag := &Tag{}
	var err error

	if tag.Name, _, err = rawString(raw, "name", field+".name"); err != nil {
		return nil, err
	}

	// Unrecognized type values pass through untouched; the validator only
	// rejects a missing type.
	typ, _, err := rawString(raw, "type", field+".type")
	if err != nil {
		return nil, err
	}
	tag.Type = TagType(typ)

	if tag.Args, err = decodeArgs(raw, field); err != nil {
		return nil, err
	}

	intermediates, err := rawMapSlice(raw, "intermediates", field+".intermediates")
	if err != nil {
		return nil, err
	}
	tag.Intermediates = make([]IntermediateTag, 0, len(intermediates))
	for i, rawIt := range intermediates {
		it, err := decodeIntermediate(rawIt, fmt.Sprintf("%s.intermediates[%d]", field, i))
		if err != nil {
			return nil, err
		}
		tag.Intermediates = append(tag.Intermediates, *it)
	}

	rawEnd, err := rawMap(raw, "end", field+".end")
	if err != nil {
		return nil, err
	}
	if rawEnd != nil {
		if tag.End, err = decodeEndTag(rawEnd, field+".end"); err != nil {
			return nil, err
		}
	}

	extra, err := rawMap(raw, "extra", field+".extra")
	if err != nil {
		return nil, err
	}
	tag.Extra = cloneMap(extra)

	return tag, nil
}

func decodeEndTag(raw map[string]any, field string) (*EndTag, error) {
	end := &EndTag{}
	var err error

	if end.Name, _, err = rawString(raw, "name", field+".name"); err != nil {
		return nil, err
	}
	if end.Args, err = decodeArgs(raw, field); err != nil {
		return nil, err
	}

	required, present, err := rawBool(raw, "required", field+".required")
	if err != nil {
		return nil, err
	}
	if !present {
		required = true
	}
	end.Required = required

	extra, err := rawMap(raw, "extra", field+".extra")
	if err != nil {
		return nil, err
	}
	end.Extra = cloneMap(extra)

	return end, nil
}

func decodeIntermediate(raw map[string]any, field string) (*IntermediateTag, error) {
	it := &IntermediateTag{}
	var err error

	if it.Name, _, err = rawString(raw, "name", field+".name"); err != nil {
		return nil, err
	}
	if it.Args, err = decodeArgs(raw, field); err != nil {
		return nil, err
	}
	if it.Min, err = rawIntPtr(raw, "min", field+".min"); err != nil {
		return nil, err
	}
	if it.Max, err = rawIntPtr(raw, "max", field+".max"); err != nil {
		return nil, err
	}

	position, present, err := rawString(raw, "position", field+".position")
	if err != nil {
		return nil, err
	}
	if !present {
		position = string(PositionAny)
	}
	it.Position = Position(position)

	extra, err := rawMap(raw, "extra", field+".extra")
	if err != nil {
		return nil, err
	}
	it.Extra = cloneMap(extra)

	return it, nil
}

func decodeArgs(raw map[string]any, field string) ([]TagArg, error) {
	rawArgs, err := rawMapSlice(raw, "args", field+".args")
	if err != nil {
		return nil, err
	}
	args := make([]TagArg, 0, len(rawArgs))
	for i, rawArg := range rawArgs {
		arg, err := decodeArg(rawArg, fmt.Sprintf("%s.args[%d]", field, i))
		if err != nil {
			return nil, err
		}
		args = append(args, *arg)
	}
	return args, nil
}

func decodeArg(raw map[string]any, field string) (*TagArg, error) {
	arg := &TagArg{}
	var err error

	if arg.Name, _, err = rawString(raw, "name", field+".name"); err != nil {
		return nil, err
	}

	required, present, err := rawBool(raw, "required", field+".required")
	if err != nil {
		return nil, err
	}
	if !present {
		required = true
	}
	arg.Required = required

	typ, present, err := rawString(raw, "type", field+".type")
	if err != nil {
		return nil, err
	}
	if !present {
		typ = string(ArgTypeBoth)
	}
	arg.Type = ArgType(typ)

	// Kind hints are free-form for forward compatibility: unrecognized
	// values are preserved, never rejected.
	kind, _, err := rawString(raw, "kind", field+".kind")
	if err != nil {
		return nil, err
	}
	arg.Kind = ArgKind(kind)

	extra, err := rawMap(raw, "extra", field+".extra")
	if err != nil {
		return nil, err
	}
	arg.Extra = cloneMap(extra)

	return arg, nil
}
