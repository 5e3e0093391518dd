// Package schema provides the leaf rules used to check individual property values.
//
// Each property kind of a metamodel (String, Boolean, Integer, Long, Double,
// DateTime, Relationship, Object) maps onto a Type that checks one JSON value
// and reports a *domain.ValidationError located at the given path.
//
// Basic usage:
//
//	typ := schema.Int(schema.Between(0, 150))
//	if err := typ.Validate(domain.Root.Key("age"), domain.Int(36)); err != nil {
//	    // Handle validation error
//	}
//
// Types are usually derived from property declarations with ForProperty,
// which wires string validators to a Matcher holding the compiled patterns:
//
//	typ, err := schema.ForProperty(prop, cache)
//
// Object only checks that the value is a JSON object. Recursing into the
// nested resource is the caller's job, since it needs the type registry.
package schema
