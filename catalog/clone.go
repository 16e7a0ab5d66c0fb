package catalog

// Clone returns a deep copy of the document. The merger relies on clones so
// that merged output never aliases an input document's nested slices or maps.
func (s *TagSpec) Clone() *TagSpec {
	if s == nil {
		return nil
	}
	out := &TagSpec{
		Version:        s.Version,
		Engine:         s.Engine,
		RequiresEngine: s.RequiresEngine,
		Extends:        cloneStrings(s.Extends),
		Extra:          cloneMap(s.Extra),
		Unknown:        cloneMap(s.Unknown),
	}
	if s.Libraries != nil {
		out.Libraries = make([]TagLibrary, len(s.Libraries))
		for i := range s.Libraries {
			out.Libraries[i] = *s.Libraries[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the library.
func (l *TagLibrary) Clone() *TagLibrary {
	if l == nil {
		return nil
	}
	out := &TagLibrary{
		Module:         l.Module,
		RequiresEngine: l.RequiresEngine,
		Extra:          cloneMap(l.Extra),
	}
	if l.Tags != nil {
		out.Tags = make([]Tag, len(l.Tags))
		for i := range l.Tags {
			out.Tags[i] = *l.Tags[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the tag.
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	out := &Tag{
		Name:  t.Name,
		Type:  t.Type,
		Args:  cloneArgs(t.Args),
		End:   t.End.Clone(),
		Extra: cloneMap(t.Extra),
	}
	if t.Intermediates != nil {
		out.Intermediates = make([]IntermediateTag, len(t.Intermediates))
		for i := range t.Intermediates {
			out.Intermediates[i] = *t.Intermediates[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the end tag.
func (e *EndTag) Clone() *EndTag {
	if e == nil {
		return nil
	}
	return &EndTag{
		Name:     e.Name,
		Args:     cloneArgs(e.Args),
		Required: e.Required,
		Extra:    cloneMap(e.Extra),
	}
}

// Clone returns a deep copy of the intermediate tag.
func (it *IntermediateTag) Clone() *IntermediateTag {
	if it == nil {
		return nil
	}
	return &IntermediateTag{
		Name:     it.Name,
		Args:     cloneArgs(it.Args),
		Min:      cloneIntPtr(it.Min),
		Max:      cloneIntPtr(it.Max),
		Position: it.Position,
		Extra:    cloneMap(it.Extra),
	}
}

// Clone returns a deep copy of the argument.
func (a *TagArg) Clone() *TagArg {
	if a == nil {
		return nil
	}
	return &TagArg{
		Name:     a.Name,
		Required: a.Required,
		Type:     a.Type,
		Kind:     a.Kind,
		Extra:    cloneMap(a.Extra),
	}
}

func cloneArgs(args []TagArg) []TagArg {
	if args == nil {
		return nil
	}
	out := make([]TagArg, len(args))
	for i := range args {
		out[i] = *args[i].Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneMap deep-copies nested maps and slices; scalar values are shared,
// which is safe because raw tree scalars are never mutated.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
