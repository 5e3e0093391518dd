package metamodel

// PropertySummary is a read-only view of one effective property.
type PropertySummary struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Type     string `json:"type,omitempty"`
	Array    bool   `json:"array,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// TypeSummary describes a registered type for listings (CLI, HTTP, MCP).
type TypeSummary struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Abstract   bool              `json:"abstract,omitempty"`
	Supertype  string            `json:"supertype,omitempty"`
	Properties []PropertySummary `json:"properties"`
	// Error is set when the supertype chain cannot be resolved.
	Error string `json:"error,omitempty"`
}

// Summary lists the type's effective properties, own first.
func (t *TypeDefinition) Summary() TypeSummary {
	s := TypeSummary{
		Name:       t.qualified,
		Kind:       t.Kind().String(),
		Abstract:   t.IsAbstract(),
		Supertype:  t.supertype,
		Properties: []PropertySummary{},
	}
	props, err := t.Effective()
	if err != nil {
		s.Error = err.Error()
	}
	for _, p := range props.All() {
		ps := PropertySummary{
			Name:     p.Name,
			Kind:     p.Kind.String(),
			Array:    p.IsArray,
			Optional: p.IsOptional,
		}
		if p.Type != nil {
			ps.Type = p.Type.Name
		}
		if pat, ok := p.Pattern(); ok {
			ps.Pattern = pat.String()
		}
		s.Properties = append(s.Properties, ps)
	}
	return s
}

// Summaries describes every type, sorted by qualified name.
func (r *Registry) Summaries() []TypeSummary {
	names := r.Names()
	out := make([]TypeSummary, 0, len(names))
	for _, name := range names {
		out = append(out, r.types[name].Summary())
	}
	return out
}
