package runtime

import (
	"fmt"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/aretw0/concerto/pkg/schema"
)

// DefaultMaxDepth bounds how many resources may nest inside each other.
const DefaultMaxDepth = 256

const classKey = "$class"

// Engine is the recursive resource validator. It only reads the registry
// and the leaf rules built at construction, so one Engine serves any number
// of concurrent calls.
type Engine struct {
	registry    *metamodel.Registry
	leaves      map[*metamodel.Property]schema.Type
	maxDepth    int
	singleLevel bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxDepth sets the resource nesting limit.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithSingleLevelInheritance merges only the direct supertype's properties.
func WithSingleLevelInheritance() EngineOption {
	return func(e *Engine) {
		e.singleLevel = true
	}
}

// NewEngine derives a leaf rule for every declared property.
func NewEngine(registry *metamodel.Registry, matcher schema.Matcher, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		registry: registry,
		leaves:   make(map[*metamodel.Property]schema.Type),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, td := range registry.Types() {
		for _, p := range td.Properties() {
			leaf, err := schema.ForProperty(p, matcher)
			if err != nil {
				return nil, domain.NewMetamodelMalformed(domain.Root, "%s: %v", td.QualifiedName(), err)
			}
			e.leaves[p] = leaf
		}
	}
	return e, nil
}

// Registry returns the registry the engine validates against.
func (e *Engine) Registry() *metamodel.Registry { return e.registry }

// Validate checks an instance document and returns the first violation.
func (e *Engine) Validate(v domain.Value) error {
	return e.validateResource(domain.Root, v, 0)
}

// ClassOf reads the $class of a resource, applying the same checks as Validate.
func (e *Engine) ClassOf(v domain.Value) (*metamodel.TypeDefinition, error) {
	return e.resolveClass(domain.Root, v)
}

func (e *Engine) resolveClass(path domain.Path, v domain.Value) (*metamodel.TypeDefinition, error) {
	if v.Kind() != domain.KindObject {
		return nil, domain.NewTypeMismatch(path, "object", v.Kind().String())
	}
	raw, ok := v.Get(classKey)
	if !ok {
		return nil, domain.NewMissingRequired(path, "", classKey)
	}
	class, ok := raw.AsString()
	if !ok {
		return nil, domain.NewTypeMismatch(path.Key(classKey), "string", raw.Kind().String())
	}
	td, ok := e.registry.Lookup(class)
	if !ok {
		return nil, domain.NewUnknownClass(path, class)
	}
	if !td.Kind().IsClassLike() {
		return nil, domain.NewTypeMismatch(path, "class declaration", fmt.Sprintf("%s declaration %s", td.Kind(), class))
	}
	return td, nil
}

func (e *Engine) validateResource(path domain.Path, v domain.Value, depth int) error {
	if depth > e.maxDepth {
		return domain.NewNestingTooDeep(path, e.maxDepth)
	}
	td, err := e.resolveClass(path, v)
	if err != nil {
		return err
	}
	class := td.QualifiedName()

	props, err := e.effective(td)
	if err != nil {
		return relocate(err, path)
	}

	for _, m := range v.Members() {
		if m.Key == classKey {
			continue
		}
		if _, ok := props.Lookup(m.Key); !ok {
			return domain.NewUnknownProperty(path.Key(m.Key), class, m.Key)
		}
	}

	for _, p := range props.Required() {
		if !v.Has(p.Name) {
			return domain.NewMissingRequired(path, class, p.Name)
		}
	}

	for _, m := range v.Members() {
		if m.Key == classKey {
			continue
		}
		p, _ := props.Lookup(m.Key)
		if err := e.validateProperty(path.Key(m.Key), p, m.Value, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) effective(td *metamodel.TypeDefinition) (*metamodel.PropertySet, error) {
	if e.singleLevel {
		return td.EffectiveSingleLevel()
	}
	return td.Effective()
}

func (e *Engine) validateProperty(path domain.Path, p *metamodel.Property, v domain.Value, depth int) error {
	leaf, ok := e.leaves[p]
	if !ok {
		return domain.NewMetamodelMalformed(path, "no rule for property %q", p.Name)
	}

	if !p.IsArray {
		if v.Kind() == domain.KindArray {
			return domain.NewTypeMismatch(path, leaf.Name(), "array")
		}
		return e.validateLeaf(path, p, leaf, v, depth)
	}

	if v.Kind() != domain.KindArray {
		return domain.NewTypeMismatch(path, "array of "+leaf.Name(), v.Kind().String())
	}
	for i, elem := range v.Elems() {
		if err := e.validateLeaf(path.Index(i), p, leaf, elem, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validateLeaf(path domain.Path, p *metamodel.Property, leaf schema.Type, v domain.Value, depth int) error {
	if err := leaf.Validate(path, v); err != nil {
		return err
	}
	if p.Kind == metamodel.ObjectProperty {
		// The declared type is advisory: the nested $class decides.
		return e.validateResource(path, v, depth+1)
	}
	return nil
}

// relocate copies a registry resolution error to the instance path.
func relocate(err error, path domain.Path) error {
	ve, ok := err.(*domain.ValidationError)
	if !ok {
		return err
	}
	c := *ve
	c.Path = path
	return &c
}
