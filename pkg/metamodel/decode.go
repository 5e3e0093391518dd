package metamodel

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/buger/jsonparser"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed envelope.schema.json
var envelopeSchema []byte

const envelopeURL = "concerto-envelope.schema.json"

var compileEnvelope = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(envelopeSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(envelopeURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(envelopeURL)
})

// Decode parses a metamodel document into a Model.
// The namespace/declarations envelope is checked first; then every
// declaration is decoded, and the first one that does not fit aborts.
func Decode(data []byte) (*Model, error) {
	if err := checkEnvelope(data); err != nil {
		return nil, err
	}

	namespace, err := jsonparser.GetString(data, "namespace")
	if err != nil {
		return nil, malformed(domain.Root.Key("namespace"), err)
	}
	class, _ := jsonparser.GetString(data, "$class")

	var raws [][]byte
	_, err = jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		raws = append(raws, value)
	}, "declarations")
	if err != nil {
		return nil, malformed(domain.Root.Key("declarations"), err)
	}

	model := &Model{Class: class, Namespace: namespace, Declarations: make([]Declaration, 0, len(raws))}
	for i, raw := range raws {
		decl, err := decodeDeclaration(raw)
		if err != nil {
			return nil, malformed(domain.Root.Key("declarations").Index(i), err)
		}
		model.Declarations = append(model.Declarations, decl)
	}
	return model, nil
}

func checkEnvelope(data []byte) error {
	schema, err := compileEnvelope()
	if err != nil {
		return fmt.Errorf("compile envelope schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return malformed(domain.Root, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := schema.Validate(inst); err != nil {
		return malformed(domain.Root, err)
	}
	return nil
}

func decodeDeclaration(raw []byte) (Declaration, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Declaration{}, err
	}

	var decl Declaration
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &decl,
		TagName: "mapstructure",
	})
	if err != nil {
		return Declaration{}, err
	}
	if err := md.Decode(m); err != nil {
		return Declaration{}, err
	}
	return decl, nil
}

func malformed(path domain.Path, err error) error {
	return &domain.ValidationError{Kind: domain.MetamodelMalformed, Path: path, Err: err}
}
