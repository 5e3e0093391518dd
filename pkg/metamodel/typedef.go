package metamodel

// PropertySet is an immutable, ordered set of properties with name lookup.
type PropertySet struct {
	ordered  []*Property
	byName   map[string]*Property
	required []*Property
}

func newPropertySet() *PropertySet {
	return &PropertySet{byName: make(map[string]*Property)}
}

// add keeps the first property registered under a name.
func (s *PropertySet) add(p *Property) {
	if _, ok := s.byName[p.Name]; ok {
		return
	}
	s.byName[p.Name] = p
	s.ordered = append(s.ordered, p)
	if !p.IsOptional {
		s.required = append(s.required, p)
	}
}

// Lookup finds a property by name.
func (s *PropertySet) Lookup(name string) (*Property, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// All returns the properties in declaration order.
func (s *PropertySet) All() []*Property { return s.ordered }

// Required returns the non-optional properties in declaration order.
func (s *PropertySet) Required() []*Property { return s.required }

func (s *PropertySet) Len() int { return len(s.ordered) }

// TypeDefinition wraps one declaration of the registry.
type TypeDefinition struct {
	decl      Declaration
	qualified string
	supertype string // qualified, "" when none
	own       *PropertySet

	// Filled by Registry resolution.
	ancestors  []*TypeDefinition
	resolveErr error
	full       *PropertySet
	direct     *PropertySet
}

func newTypeDefinition(namespace string, decl Declaration) *TypeDefinition {
	td := &TypeDefinition{
		decl:      decl,
		qualified: namespace + "." + decl.Name,
		own:       newPropertySet(),
	}
	if decl.SuperType != nil && decl.SuperType.Name != "" {
		ns := decl.SuperType.Namespace
		if ns == "" {
			ns = namespace
		}
		td.supertype = ns + "." + decl.SuperType.Name
	}
	for i := range td.decl.Properties {
		td.own.add(&td.decl.Properties[i])
	}
	return td
}

func (t *TypeDefinition) Name() string { return t.decl.Name }

// QualifiedName returns the registry key, "namespace.name".
func (t *TypeDefinition) QualifiedName() string { return t.qualified }

func (t *TypeDefinition) Kind() DeclarationKind { return t.decl.Kind }

// IsAbstract is informational; abstract types still validate.
func (t *TypeDefinition) IsAbstract() bool { return t.decl.IsAbstract }

func (t *TypeDefinition) Declaration() Declaration { return t.decl }

// ExpectedProperties returns the type's own properties by name.
func (t *TypeDefinition) ExpectedProperties() map[string]*Property {
	out := make(map[string]*Property, t.own.Len())
	for _, p := range t.own.All() {
		out[p.Name] = p
	}
	return out
}

// RequiredProperties returns the type's own non-optional properties by name.
func (t *TypeDefinition) RequiredProperties() map[string]*Property {
	out := make(map[string]*Property, len(t.own.Required()))
	for _, p := range t.own.Required() {
		out[p.Name] = p
	}
	return out
}

// Properties returns the type's own properties in declaration order.
func (t *TypeDefinition) Properties() []*Property { return t.own.All() }

func (t *TypeDefinition) HasSupertype() bool { return t.supertype != "" }

// Supertype returns the qualified name of the parent type. A parent without
// an explicit namespace lives in the metamodel's namespace.
func (t *TypeDefinition) Supertype() string { return t.supertype }

// StringValidatorPatterns lists the regexes of the type's own string properties.
func (t *TypeDefinition) StringValidatorPatterns() []Pattern {
	var out []Pattern
	for _, p := range t.own.All() {
		if pat, ok := p.Pattern(); ok {
			out = append(out, pat)
		}
	}
	return out
}

// Ancestors returns the resolved supertype chain, nearest first.
func (t *TypeDefinition) Ancestors() []*TypeDefinition { return t.ancestors }

// Effective returns the properties of the type merged with every ancestor's,
// the child winning on name collisions. The error is a *domain.ValidationError
// when a supertype is undeclared or the chain is cyclic.
func (t *TypeDefinition) Effective() (*PropertySet, error) {
	return t.full, t.resolveErr
}

// EffectiveSingleLevel merges the direct parent only.
func (t *TypeDefinition) EffectiveSingleLevel() (*PropertySet, error) {
	if t.HasSupertype() && len(t.ancestors) == 0 {
		return t.direct, t.resolveErr
	}
	return t.direct, nil
}
