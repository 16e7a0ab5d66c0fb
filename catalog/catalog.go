package catalog

// TagType classifies how a tag participates in template structure.
type TagType string

const (
	// TagTypeBlock is a tag with an opening and closing form that encloses
	// template content (e.g., {% if %}...{% endif %}).
	TagTypeBlock TagType = "block"
	// TagTypeLoader is a tag that loads libraries or template fragments.
	// A loader tag may declare intermediates, in which case it behaves
	// partially like a block tag.
	TagTypeLoader TagType = "loader"
	// TagTypeStandalone is a self-contained tag with no closing form.
	TagTypeStandalone TagType = "standalone"
)

// Position constrains where an intermediate tag may appear among its
// siblings inside a block.
type Position string

const (
	// PositionAny places no ordering constraint on the intermediate.
	PositionAny Position = "any"
	// PositionLast requires the intermediate to be the final one in the
	// block (e.g., {% else %}).
	PositionLast Position = "last"
)

// ArgType constrains how an argument may be passed.
type ArgType string

const (
	// ArgTypeBoth allows positional or keyword passing.
	ArgTypeBoth ArgType = "both"
	// ArgTypePositional allows positional passing only.
	ArgTypePositional ArgType = "positional"
	// ArgTypeKeyword allows keyword passing only.
	ArgTypeKeyword ArgType = "keyword"
)

// ArgKind is a hint describing what an argument's value is.
//
// Unrecognized kind values are preserved verbatim rather than rejected, so
// documents written against newer revisions of the TagSpec format remain
// loadable.
type ArgKind string

const (
	// ArgKindAny accepts any value.
	ArgKindAny ArgKind = "any"
	// ArgKindAssignment is a target of an assignment (e.g., "as varname").
	ArgKindAssignment ArgKind = "assignment"
	// ArgKindChoice is one of a fixed set of keywords.
	ArgKindChoice ArgKind = "choice"
	// ArgKindLiteral is a literal value.
	ArgKindLiteral ArgKind = "literal"
	// ArgKindModifier is a keyword that modifies tag behavior.
	ArgKindModifier ArgKind = "modifier"
	// ArgKindSyntax is fixed syntax such as "in" or "by".
	ArgKindSyntax ArgKind = "syntax"
	// ArgKindVariable is a template variable or expression.
	ArgKindVariable ArgKind = "variable"
)

// TagSpec is the root catalog document. It lists the tag libraries a
// template engine exposes, the documents it extends, and free-form extra
// metadata.
//
// Every nested entity is exclusively owned by its TagSpec; merging two
// documents always produces a new value.
type TagSpec struct {
	// Version is the TagSpec format version the document declares.
	// Defaults to the latest known version when absent.
	Version string `json:"version" yaml:"version" toml:"version"`
	// Engine is the template dialect the catalog targets.
	// Defaults to "django".
	Engine string `json:"engine" yaml:"engine" toml:"engine"`
	// RequiresEngine is an optional version-range constraint on the engine.
	RequiresEngine string `json:"requires_engine,omitempty" yaml:"requires_engine,omitempty" toml:"requires_engine,omitempty"`
	// Extends lists references to documents this catalog builds upon,
	// in application order.
	Extends []string `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty"`
	// Libraries holds the tag libraries, unique by Module.
	Libraries []TagLibrary `json:"libraries" yaml:"libraries" toml:"libraries"`
	// Extra carries opaque producer metadata. The engine never interprets
	// its contents beyond shallow-merging.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
	// Unknown preserves unrecognized top-level document keys verbatim for
	// round-tripping. It is re-emitted at the top level on marshal.
	Unknown map[string]any `json:"-" yaml:"-" toml:"-"`
}

// TagLibrary is one loadable tag library within a catalog.
type TagLibrary struct {
	// Module is the dotted import path identifying the library.
	Module string `json:"module" yaml:"module" toml:"module"`
	// RequiresEngine optionally overrides the document-level engine
	// constraint for this library.
	RequiresEngine string `json:"requires_engine,omitempty" yaml:"requires_engine,omitempty" toml:"requires_engine,omitempty"`
	// Tags holds the library's tags, unique by Name.
	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	// Extra carries opaque producer metadata.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// Tag describes one template tag's grammar.
//
// A tag's identity across overlaid documents is the tuple
// {engine, library module, tag name}.
type Tag struct {
	// Name is the tag name as written in templates.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Type classifies the tag as block, loader, or standalone.
	Type TagType `json:"type" yaml:"type" toml:"type"`
	// Args lists the opener's arguments in order.
	Args []TagArg `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	// Intermediates lists intermediate tags allowed inside the block.
	// Meaningful only for block tags and loaders with block behavior.
	Intermediates []IntermediateTag `json:"intermediates,omitempty" yaml:"intermediates,omitempty" toml:"intermediates,omitempty"`
	// End describes the closing tag. For block tags lacking one, the merger
	// synthesizes {Name: "end" + Name, Required: true} after the fold.
	End *EndTag `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	// Extra carries opaque producer metadata.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// EndTag describes a tag's closing form.
type EndTag struct {
	// Name is the closing tag name (e.g., "endif").
	Name string `json:"name" yaml:"name" toml:"name"`
	// Args lists the closing tag's arguments in order.
	Args []TagArg `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	// Required reports whether the closing tag must appear. Defaults to true.
	Required bool `json:"required" yaml:"required" toml:"required"`
	// Extra carries opaque producer metadata.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// IntermediateTag describes a tag that may appear between a block tag's
// opener and its end tag (e.g., "elif", "else", "empty").
type IntermediateTag struct {
	// Name is the intermediate tag name.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Args lists the intermediate's arguments in order.
	Args []TagArg `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	// Min is the minimum number of occurrences, when bounded.
	Min *int `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	// Max is the maximum number of occurrences, when bounded.
	// Max must be >= Min when both are present.
	Max *int `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	// Position constrains where the intermediate may appear. Defaults to any.
	Position Position `json:"position" yaml:"position" toml:"position"`
	// Extra carries opaque producer metadata.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// TagArg describes one argument accepted by a tag opener, intermediate, or
// end tag. Argument names are unique within their containing list; the
// opener, each intermediate, and the end tag have independent lists.
type TagArg struct {
	// Name is the argument name.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Required reports whether the argument must be supplied. Defaults to true.
	Required bool `json:"required" yaml:"required" toml:"required"`
	// Type constrains positional versus keyword passing. Defaults to both.
	Type ArgType `json:"type" yaml:"type" toml:"type"`
	// Kind hints at what the argument's value is.
	Kind ArgKind `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	// Extra carries opaque producer metadata.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// Library returns the library with the given module, or nil if absent.
func (s *TagSpec) Library(module string) *TagLibrary {
	for i := range s.Libraries {
		if s.Libraries[i].Module == module {
			return &s.Libraries[i]
		}
	}
	return nil
}

// RequiresEngineFor returns the effective engine constraint for a library:
// the library's own RequiresEngine, or the document's when the library does
// not declare one.
func (s *TagSpec) RequiresEngineFor(lib *TagLibrary) string {
	if lib != nil && lib.RequiresEngine != "" {
		return lib.RequiresEngine
	}
	return s.RequiresEngine
}

// Tag returns the tag with the given name, or nil if absent.
func (l *TagLibrary) Tag(name string) *Tag {
	for i := range l.Tags {
		if l.Tags[i].Name == name {
			return &l.Tags[i]
		}
	}
	return nil
}

// HasBlockBehavior reports whether the tag encloses content: block tags
// always do, and loader tags do when they declare intermediates.
func (t *Tag) HasBlockBehavior() bool {
	if t.Type == TagTypeBlock {
		return true
	}
	return t.Type == TagTypeLoader && len(t.Intermediates) > 0
}
