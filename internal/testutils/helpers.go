package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tag prefixes a metamodel type name with the Concerto metamodel namespace.
func Tag(name string) string { return "concerto.metamodel@1.0.0." + name }

// PropOpt customizes a property built with Prop.
type PropOpt func(map[string]any)

// Optional marks a property as not required.
func Optional() PropOpt { return func(p map[string]any) { p["isOptional"] = true } }

// Array marks a property as array-valued.
func Array() PropOpt { return func(p map[string]any) { p["isArray"] = true } }

// Typed sets the referenced type of an object property.
func Typed(name string) PropOpt {
	return func(p map[string]any) {
		p["type"] = map[string]any{"$class": Tag("TypeIdentifier"), "name": name}
	}
}

// Regex attaches a string validator.
func Regex(pattern, flags string) PropOpt {
	return func(p map[string]any) {
		p["validator"] = map[string]any{"$class": Tag("StringRegexValidator"), "pattern": pattern, "flags": flags}
	}
}

// Prop builds a property declaration; kind is "String", "Integer", "Object"...
func Prop(kind, name string, opts ...PropOpt) map[string]any {
	p := map[string]any{
		"$class":     Tag(kind + "Property"),
		"name":       name,
		"isArray":    false,
		"isOptional": false,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decl builds a declaration of the given kind ("Concept", "Asset"...).
func Decl(kind, name string, props ...map[string]any) map[string]any {
	if props == nil {
		props = []map[string]any{}
	}
	return map[string]any{
		"$class":     Tag(kind + "Declaration"),
		"name":       name,
		"isAbstract": false,
		"properties": props,
	}
}

// Concept is Decl for concept declarations.
func Concept(name string, props ...map[string]any) map[string]any {
	return Decl("Concept", name, props...)
}

// Extends sets the supertype of a declaration.
func Extends(decl map[string]any, super string) map[string]any {
	decl["superType"] = map[string]any{"$class": Tag("TypeIdentifier"), "name": super}
	return decl
}

// Metamodel encodes a metamodel document.
func Metamodel(t testing.TB, namespace string, decls ...map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"$class":       Tag("Model"),
		"namespace":    namespace,
		"declarations": decls,
	})
	require.NoError(t, err)
	return data
}

// Shop is the shared fixture: a small "ns" model with inheritance, arrays,
// patterns and a self-referencing type.
//
//	Person        firstName, lastName, age?
//	Customer      extends Person: email (pattern), address?, tags[]?
//	VipCustomer   extends Customer: level
//	Address       street, city, zip? (pattern)
//	Order         orderId, customer, lines[]?, total?, placedAt?, paid?
//	OrderLine     sku, quantity
//	Link          value, next?
func Shop(t testing.TB) []byte {
	t.Helper()
	return Metamodel(t, "ns",
		Concept("Person",
			Prop("String", "firstName"),
			Prop("String", "lastName"),
			Prop("Integer", "age", Optional()),
		),
		Extends(Concept("Customer",
			Prop("String", "email", Regex("^[^@]+@[^@]+$", "")),
			Prop("Object", "address", Optional(), Typed("Address")),
			Prop("String", "tags", Optional(), Array()),
		), "Person"),
		Extends(Concept("VipCustomer",
			Prop("Integer", "level"),
		), "Customer"),
		Concept("Address",
			Prop("String", "street"),
			Prop("String", "city"),
			Prop("String", "zip", Optional(), Regex("^[0-9]{5}$", "")),
		),
		Concept("Order",
			Prop("String", "orderId"),
			Prop("Object", "customer", Typed("Customer")),
			Prop("Object", "lines", Optional(), Array(), Typed("OrderLine")),
			Prop("Double", "total", Optional()),
			Prop("DateTime", "placedAt", Optional()),
			Prop("Boolean", "paid", Optional()),
		),
		Concept("OrderLine",
			Prop("String", "sku"),
			Prop("Integer", "quantity"),
		),
		Concept("Link",
			Prop("Integer", "value"),
			Prop("Object", "next", Optional(), Typed("Link")),
		),
	)
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
