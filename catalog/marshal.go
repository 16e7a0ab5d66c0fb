package catalog

// Marshal serializes a canonical TagSpec in the requested format.
//
// The document is emitted through a generic tree rather than struct tags so
// unknown top-level keys captured at parse time round-trip verbatim at the
// top level, alongside the recognized fields.
func Marshal(spec *TagSpec, format Format) ([]byte, error) {
	return format.Encode(specPayload(spec))
}

func specPayload(s *TagSpec) map[string]any {
	payload := map[string]any{
		"version": s.Version,
		"engine":  s.Engine,
	}
	if s.RequiresEngine != "" {
		payload["requires_engine"] = s.RequiresEngine
	}
	if len(s.Extends) > 0 {
		payload["extends"] = s.Extends
	}
	libraries := make([]map[string]any, 0, len(s.Libraries))
	for i := range s.Libraries {
		libraries = append(libraries, libraryPayload(&s.Libraries[i]))
	}
	payload["libraries"] = libraries
	if len(s.Extra) > 0 {
		payload["extra"] = s.Extra
	}
	for k, v := range s.Unknown {
		if _, taken := payload[k]; !taken {
			payload[k] = v
		}
	}
	return payload
}

func libraryPayload(l *TagLibrary) map[string]any {
	payload := map[string]any{
		"module": l.Module,
	}
	if l.RequiresEngine != "" {
		payload["requires_engine"] = l.RequiresEngine
	}
	if len(l.Tags) > 0 {
		tags := make([]map[string]any, 0, len(l.Tags))
		for i := range l.Tags {
			tags = append(tags, tagPayload(&l.Tags[i]))
		}
		payload["tags"] = tags
	}
	if len(l.Extra) > 0 {
		payload["extra"] = l.Extra
	}
	return payload
}

func tagPayload(t *Tag) map[string]any {
	payload := map[string]any{
		"name": t.Name,
		"type": string(t.Type),
	}
	if len(t.Args) > 0 {
		payload["args"] = argsPayload(t.Args)
	}
	if len(t.Intermediates) > 0 {
		intermediates := make([]map[string]any, 0, len(t.Intermediates))
		for i := range t.Intermediates {
			intermediates = append(intermediates, intermediatePayload(&t.Intermediates[i]))
		}
		payload["intermediates"] = intermediates
	}
	if t.End != nil {
		payload["end"] = endPayload(t.End)
	}
	if len(t.Extra) > 0 {
		payload["extra"] = t.Extra
	}
	return payload
}

func endPayload(e *EndTag) map[string]any {
	payload := map[string]any{
		"name":     e.Name,
		"required": e.Required,
	}
	if len(e.Args) > 0 {
		payload["args"] = argsPayload(e.Args)
	}
	if len(e.Extra) > 0 {
		payload["extra"] = e.Extra
	}
	return payload
}

func intermediatePayload(it *IntermediateTag) map[string]any {
	payload := map[string]any{
		"name":     it.Name,
		"position": string(it.Position),
	}
	if len(it.Args) > 0 {
		payload["args"] = argsPayload(it.Args)
	}
	if it.Min != nil {
		payload["min"] = *it.Min
	}
	if it.Max != nil {
		payload["max"] = *it.Max
	}
	if len(it.Extra) > 0 {
		payload["extra"] = it.Extra
	}
	return payload
}

func argsPayload(args []TagArg) []map[string]any {
	out := make([]map[string]any, 0, len(args))
	for i := range args {
		a := &args[i]
		payload := map[string]any{
			"name":     a.Name,
			"required": a.Required,
			"type":     string(a.Type),
		}
		if a.Kind != "" {
			payload["kind"] = string(a.Kind)
		}
		if len(a.Extra) > 0 {
			payload["extra"] = a.Extra
		}
		out = append(out, payload)
	}
	return out
}
