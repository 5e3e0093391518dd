package metamodel

import (
	"sort"
	"strings"

	"github.com/aretw0/concerto/pkg/domain"
)

// Registry indexes type definitions by qualified name.
// It is immutable once built and safe for concurrent use.
type Registry struct {
	namespace  string
	types      map[string]*TypeDefinition
	order      []*TypeDefinition
	duplicates []string
	patterns   []Pattern
}

// Build compiles a metamodel document into a Registry.
// Every failure is a domain.MetamodelMalformed error.
func Build(data []byte) (*Registry, error) {
	model, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return NewRegistry(model)
}

// NewRegistry indexes an already decoded model.
func NewRegistry(model *Model) (*Registry, error) {
	if model == nil {
		return nil, domain.NewMetamodelMalformed(domain.Root, "nil model")
	}
	if model.Namespace == "" {
		return nil, domain.NewMetamodelMalformed(domain.Root.Key("namespace"), "namespace is required")
	}

	r := &Registry{
		namespace: model.Namespace,
		types:     make(map[string]*TypeDefinition, len(model.Declarations)),
	}
	for i, decl := range model.Declarations {
		path := domain.Root.Key("declarations").Index(i)
		if err := classify(&decl, path); err != nil {
			return nil, err
		}
		td := newTypeDefinition(r.namespace, decl)
		if prev, ok := r.types[td.qualified]; ok {
			r.duplicates = append(r.duplicates, td.qualified)
			r.replace(prev, td)
		} else {
			r.order = append(r.order, td)
		}
		r.types[td.qualified] = td
	}

	for _, td := range r.order {
		r.resolve(td)
	}
	r.patterns = collectPatterns(r.order)
	return r, nil
}

// classify validates names and derives the closed kinds from $class tags.
func classify(decl *Declaration, path domain.Path) error {
	if decl.Name == "" {
		return domain.NewMetamodelMalformed(path.Key("name"), "declaration name is required")
	}
	kind, err := ParseDeclarationKind(decl.Class)
	if err != nil {
		return domain.NewMetamodelMalformed(path.Key("$class"), "%v", err)
	}
	decl.Kind = kind

	props := make([]Property, len(decl.Properties))
	copy(props, decl.Properties)
	for j := range props {
		ppath := path.Key("properties").Index(j)
		if props[j].Name == "" {
			return domain.NewMetamodelMalformed(ppath.Key("name"), "property name is required")
		}
		pk, err := ParsePropertyKind(props[j].Class)
		if err != nil {
			return domain.NewMetamodelMalformed(ppath.Key("$class"), "%v", err)
		}
		props[j].Kind = pk
	}
	decl.Properties = props
	return nil
}

// replace keeps the original declaration position for an overwritten name.
func (r *Registry) replace(prev, next *TypeDefinition) {
	for i, td := range r.order {
		if td == prev {
			r.order[i] = next
			return
		}
	}
}

// resolve walks the supertype chain, recording the first failure instead of
// aborting the build; the failure surfaces when the type is validated.
func (r *Registry) resolve(td *TypeDefinition) {
	td.full = newPropertySet()
	td.direct = newPropertySet()
	for _, p := range td.own.All() {
		td.full.add(p)
		td.direct.add(p)
	}
	if !td.decl.Kind.IsClassLike() {
		return
	}

	seen := map[string]bool{td.qualified: true}
	cur := td
	for cur.HasSupertype() {
		parent, ok := r.types[cur.supertype]
		if !ok {
			td.resolveErr = domain.NewMissingSupertype(domain.Root, cur.qualified, cur.supertype)
			return
		}
		if seen[parent.qualified] {
			td.resolveErr = domain.NewMetamodelMalformed(domain.Root, "inheritance cycle through %s", parent.qualified)
			return
		}
		seen[parent.qualified] = true
		for _, p := range parent.own.All() {
			td.full.add(p)
			if len(td.ancestors) == 0 {
				td.direct.add(p)
			}
		}
		td.ancestors = append(td.ancestors, parent)
		cur = parent
	}
}

func collectPatterns(types []*TypeDefinition) []Pattern {
	seen := make(map[Pattern]bool)
	var out []Pattern
	for _, td := range types {
		for _, p := range td.StringValidatorPatterns() {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Namespace returns the metamodel namespace.
func (r *Registry) Namespace() string { return r.namespace }

// Lookup finds a type by qualified name.
func (r *Registry) Lookup(qualifiedName string) (*TypeDefinition, bool) {
	td, ok := r.types[qualifiedName]
	return td, ok
}

// Types returns every definition in declaration order.
func (r *Registry) Types() []*TypeDefinition { return r.order }

// Names returns the sorted qualified names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int { return len(r.types) }

// Duplicates lists qualified names declared more than once; the last declaration won.
func (r *Registry) Duplicates() []string { return r.duplicates }

// Patterns returns every string validator regex, de-duplicated, in declaration order.
func (r *Registry) Patterns() []Pattern { return r.patterns }

// Qualify resolves a bare name against the metamodel namespace.
func (r *Registry) Qualify(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return r.namespace + "." + name
}
