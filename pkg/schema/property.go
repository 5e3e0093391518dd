package schema

import (
	"fmt"

	"github.com/aretw0/concerto/pkg/metamodel"
)

// Matcher runs a pre-compiled string validator pattern.
type Matcher interface {
	Match(p metamodel.Pattern, s string) (bool, error)
}

// ForProperty converts a property declaration into its leaf rule.
// The switch is exhaustive over metamodel.PropertyKind.
func ForProperty(p *metamodel.Property, m Matcher) (Type, error) {
	switch p.Kind {
	case metamodel.StringProperty, metamodel.EnumProperty:
		var opts []StringOption
		if pat, ok := p.Pattern(); ok {
			if m == nil {
				return nil, fmt.Errorf("property %q: pattern %q needs a matcher", p.Name, pat.Source)
			}
			opts = append(opts, Pattern(pat.String(), func(s string) (bool, error) {
				return m.Match(pat, s)
			}))
		}
		if lv := p.LengthValidator; lv != nil {
			opts = append(opts, Length(lv.MinLength, lv.MaxLength))
		}
		return String(p.Name, opts...), nil
	case metamodel.BooleanProperty:
		return Bool(), nil
	case metamodel.IntegerProperty:
		return Int(rangeOf(p)), nil
	case metamodel.LongProperty:
		return Long(rangeOf(p)), nil
	case metamodel.DoubleProperty:
		return Float(rangeOf(p)), nil
	case metamodel.DateTimeProperty:
		return DateTime(), nil
	case metamodel.RelationshipProperty:
		return Relationship(), nil
	case metamodel.ObjectProperty:
		name := "Object"
		if p.Type != nil {
			name = p.Type.Name
		}
		return Object(name), nil
	}
	return nil, fmt.Errorf("property %q: unsupported kind %v", p.Name, p.Kind)
}

func rangeOf(p *metamodel.Property) Range {
	if p.Validator == nil {
		return Range{}
	}
	return Range{Lower: p.Validator.Lower, Upper: p.Validator.Upper}
}
