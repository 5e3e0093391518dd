package concerto

import (
	"fmt"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
)

// NewResource parses and validates a resource of any declared type.
func (v *Validator) NewResource(data []byte) (domain.Value, error) {
	value, err := v.parser.Parse(data)
	if err != nil {
		return domain.Value{}, err
	}
	if err := v.ValidateValue(value); err != nil {
		return domain.Value{}, err
	}
	return value, nil
}

// NewConcept parses data as an instance of the concept namespace.name.
func (v *Validator) NewConcept(namespace, name string, data []byte) (domain.Value, error) {
	return v.newTyped(metamodel.ConceptDeclaration, namespace, name, data)
}

// NewAsset parses data as an instance of the asset namespace.name.
func (v *Validator) NewAsset(namespace, name string, data []byte) (domain.Value, error) {
	return v.newTyped(metamodel.AssetDeclaration, namespace, name, data)
}

// NewParticipant parses data as an instance of the participant namespace.name.
func (v *Validator) NewParticipant(namespace, name string, data []byte) (domain.Value, error) {
	return v.newTyped(metamodel.ParticipantDeclaration, namespace, name, data)
}

// NewTransaction parses data as an instance of the transaction namespace.name.
func (v *Validator) NewTransaction(namespace, name string, data []byte) (domain.Value, error) {
	return v.newTyped(metamodel.TransactionDeclaration, namespace, name, data)
}

// NewEvent parses data as an instance of the event namespace.name.
func (v *Validator) NewEvent(namespace, name string, data []byte) (domain.Value, error) {
	return v.newTyped(metamodel.EventDeclaration, namespace, name, data)
}

func (v *Validator) newTyped(kind metamodel.DeclarationKind, namespace, name string, data []byte) (domain.Value, error) {
	qualified := namespace + "." + name
	td, ok := v.registry.Lookup(qualified)
	if !ok {
		return domain.Value{}, domain.NewUnknownClass(domain.Root, qualified)
	}
	if td.Kind() != kind {
		return domain.Value{}, domain.NewTypeMismatch(domain.Root,
			fmt.Sprintf("%s declaration", kind), fmt.Sprintf("%s declaration %s", td.Kind(), qualified))
	}

	value, err := v.parser.Parse(data)
	if err != nil {
		return domain.Value{}, err
	}
	if err := v.validateAs(value, qualified); err != nil {
		return domain.Value{}, err
	}
	return value, nil
}
