package metamodel_test

import (
	"strings"
	"testing"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prefix = "concerto.metamodel@1.0.0."

func lookup(t *testing.T, reg *metamodel.Registry, name string) *metamodel.TypeDefinition {
	t.Helper()
	td, ok := reg.Lookup(name)
	require.True(t, ok, "type %s not registered", name)
	return td
}

// shapes is a small metamodel with a three level chain: Square -> Rectangle -> Shape.
const shapes = `{
  "namespace": "geo",
  "declarations": [
    {"$class": "` + prefix + `ConceptDeclaration", "name": "Shape", "isAbstract": true, "properties": [
      {"$class": "` + prefix + `StringProperty", "name": "id", "isArray": false, "isOptional": false,
       "validator": {"$class": "` + prefix + `StringRegexValidator", "pattern": "^[a-z]+$", "flags": ""}},
      {"$class": "` + prefix + `StringProperty", "name": "label", "isArray": false, "isOptional": true}
    ]},
    {"$class": "` + prefix + `ConceptDeclaration", "name": "Rectangle", "isAbstract": false,
     "superType": {"$class": "` + prefix + `TypeIdentifier", "name": "Shape"},
     "properties": [
      {"$class": "` + prefix + `DoubleProperty", "name": "width", "isArray": false, "isOptional": false},
      {"$class": "` + prefix + `DoubleProperty", "name": "height", "isArray": false, "isOptional": false}
    ]},
    {"$class": "` + prefix + `ConceptDeclaration", "name": "Square", "isAbstract": false,
     "superType": {"$class": "` + prefix + `TypeIdentifier", "name": "Rectangle", "namespace": "geo"},
     "properties": [
      {"$class": "` + prefix + `IntegerProperty", "name": "label", "isArray": false, "isOptional": false},
      {"$class": "` + prefix + `StringProperty", "name": "code", "isArray": false, "isOptional": true,
       "validator": {"$class": "` + prefix + `StringRegexValidator", "pattern": "^[a-z]+$", "flags": ""}}
    ]}
  ]
}`

func names(props []*metamodel.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name
	}
	return out
}

func TestBuild(t *testing.T) {
	reg, err := metamodel.Build([]byte(shapes))
	require.NoError(t, err)

	assert.Equal(t, "geo", reg.Namespace())
	assert.Equal(t, []string{"geo.Rectangle", "geo.Shape", "geo.Square"}, reg.Names())
	assert.Equal(t, 3, reg.Len())

	shape, ok := reg.Lookup("geo.Shape")
	require.True(t, ok)
	assert.True(t, shape.IsAbstract())
	assert.Equal(t, metamodel.ConceptDeclaration, shape.Kind())
	assert.False(t, shape.HasSupertype())
	assert.Len(t, shape.ExpectedProperties(), 2)
	assert.Len(t, shape.RequiredProperties(), 1)
	assert.Contains(t, shape.RequiredProperties(), "id")

	rect := lookup(t, reg, "geo.Rectangle")
	assert.True(t, rect.HasSupertype())
	assert.Equal(t, "geo.Shape", rect.Supertype())
	assert.Equal(t, metamodel.DoubleProperty, rect.Properties()[0].Kind)
}

func TestTypeDefinition_EffectiveFullChain(t *testing.T) {
	reg, err := metamodel.Build([]byte(shapes))
	require.NoError(t, err)

	square := lookup(t, reg, "geo.Square")
	set, err := square.Effective()
	require.NoError(t, err)

	assert.Equal(t, []string{"label", "code", "width", "height", "id"}, names(set.All()))
	assert.Equal(t, []string{"label", "width", "height", "id"}, names(set.Required()))

	label, ok := set.Lookup("label")
	require.True(t, ok)
	assert.Equal(t, metamodel.IntegerProperty, label.Kind, "child wins on collision")

	require.Len(t, square.Ancestors(), 2)
	assert.Equal(t, "geo.Rectangle", square.Ancestors()[0].QualifiedName())
	assert.Equal(t, "geo.Shape", square.Ancestors()[1].QualifiedName())
}

func TestTypeDefinition_EffectiveSingleLevel(t *testing.T) {
	reg, err := metamodel.Build([]byte(shapes))
	require.NoError(t, err)

	set, err := lookup(t, reg, "geo.Square").EffectiveSingleLevel()
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "code", "width", "height"}, names(set.All()))
}

func TestBuild_StringValidatorPatterns(t *testing.T) {
	reg, err := metamodel.Build([]byte(shapes))
	require.NoError(t, err)

	assert.Equal(t, []metamodel.Pattern{{Source: "^[a-z]+$"}}, lookup(t, reg, "geo.Shape").StringValidatorPatterns())
	assert.Equal(t, []metamodel.Pattern{{Source: "^[a-z]+$"}}, reg.Patterns(), "patterns are de-duplicated")
}

func TestBuild_MissingSupertypeIsDeferred(t *testing.T) {
	doc := `{"namespace": "ns", "declarations": [
	  {"$class": "` + prefix + `ConceptDeclaration", "name": "Child", "isAbstract": false, "properties": [],
	   "superType": {"$class": "` + prefix + `TypeIdentifier", "name": "Ghost"}}
	]}`
	reg, err := metamodel.Build([]byte(doc))
	require.NoError(t, err)

	_, err = lookup(t, reg, "ns.Child").Effective()
	assert.ErrorIs(t, err, domain.ErrMissingSupertype)
	assert.Contains(t, err.Error(), "ns.Ghost")
}

func TestBuild_InheritanceCycle(t *testing.T) {
	doc := `{"namespace": "ns", "declarations": [
	  {"$class": "` + prefix + `ConceptDeclaration", "name": "A", "isAbstract": false, "properties": [],
	   "superType": {"$class": "` + prefix + `TypeIdentifier", "name": "B"}},
	  {"$class": "` + prefix + `ConceptDeclaration", "name": "B", "isAbstract": false, "properties": [],
	   "superType": {"$class": "` + prefix + `TypeIdentifier", "name": "A"}}
	]}`
	reg, err := metamodel.Build([]byte(doc))
	require.NoError(t, err)

	_, err = lookup(t, reg, "ns.A").Effective()
	assert.ErrorIs(t, err, domain.ErrMetamodelMalformed)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_DuplicatesOverwrite(t *testing.T) {
	doc := `{"namespace": "ns", "declarations": [
	  {"$class": "` + prefix + `ConceptDeclaration", "name": "T", "isAbstract": false, "properties": [
	    {"$class": "` + prefix + `StringProperty", "name": "first", "isArray": false, "isOptional": false}]},
	  {"$class": "` + prefix + `ConceptDeclaration", "name": "T", "isAbstract": false, "properties": [
	    {"$class": "` + prefix + `StringProperty", "name": "second", "isArray": false, "isOptional": false}]}
	]}`
	reg, err := metamodel.Build([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"ns.T"}, reg.Duplicates())
	assert.Contains(t, lookup(t, reg, "ns.T").ExpectedProperties(), "second")
	assert.Len(t, reg.Types(), 1)
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{`, "invalid JSON"},
		{"missing namespace", `{"declarations": []}`, ""},
		{"namespace not string", `{"namespace": 1, "declarations": []}`, ""},
		{"missing declarations", `{"namespace": "ns"}`, ""},
		{"declarations not array", `{"namespace": "ns", "declarations": {}}`, ""},
		{"declaration without name", `{"namespace": "ns", "declarations": [{"$class": "` + prefix + `ConceptDeclaration"}]}`, ""},
		{"unknown declaration kind", `{"namespace": "ns", "declarations": [{"$class": "x.Widget", "name": "W"}]}`, "$.declarations[0]"},
		{"unknown property kind", `{"namespace": "ns", "declarations": [{"$class": "` + prefix + `ConceptDeclaration", "name": "W",
			"properties": [{"$class": "x.MagicProperty", "name": "p"}]}]}`, "$.declarations[0].properties[0]"},
		{"wrong property field type", `{"namespace": "ns", "declarations": [{"$class": "` + prefix + `ConceptDeclaration", "name": "W",
			"properties": [{"$class": "` + prefix + `StringProperty", "name": "p", "isArray": "yes"}]}]}`, "$.declarations[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metamodel.Build([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMetamodelMalformed)
			if tt.want != "" {
				assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestNewRegistry_FromModel(t *testing.T) {
	model := &metamodel.Model{
		Namespace: "ns",
		Declarations: []metamodel.Declaration{{
			Class: prefix + "AssetDeclaration",
			Name:  "Car",
			Properties: []metamodel.Property{
				{Class: prefix + "RelationshipProperty", Name: "owner"},
			},
		}},
	}
	reg, err := metamodel.NewRegistry(model)
	require.NoError(t, err)

	car := lookup(t, reg, "ns.Car")
	assert.Equal(t, metamodel.AssetDeclaration, car.Kind())
	assert.Equal(t, metamodel.RelationshipProperty, car.Properties()[0].Kind)

	_, err = metamodel.NewRegistry(&metamodel.Model{})
	assert.ErrorIs(t, err, domain.ErrMetamodelMalformed)
}

func TestSystem(t *testing.T) {
	reg, err := metamodel.Build(metamodel.System())
	require.NoError(t, err)

	assert.Equal(t, metamodel.SystemNamespace, reg.Namespace())
	for _, name := range []string{"Model", "ConceptDeclaration", "StringProperty", "TypeIdentifier"} {
		_, ok := reg.Lookup(reg.Qualify(name))
		assert.True(t, ok, name)
	}

	asset := lookup(t, reg, reg.Qualify("AssetDeclaration"))
	set, err := asset.Effective()
	require.NoError(t, err)
	_, ok := set.Lookup("name")
	assert.True(t, ok, "AssetDeclaration inherits name from Declaration through ConceptDeclaration")
}
