package metamodel

import (
	"fmt"
	"strings"
)

// PropertyKind is the closed set of property declaration kinds.
type PropertyKind uint8

const (
	StringProperty PropertyKind = iota + 1
	BooleanProperty
	IntegerProperty
	LongProperty
	DoubleProperty
	DateTimeProperty
	ObjectProperty
	RelationshipProperty
	EnumProperty
)

var propertyKinds = map[string]PropertyKind{
	"StringProperty":       StringProperty,
	"BooleanProperty":      BooleanProperty,
	"IntegerProperty":      IntegerProperty,
	"LongProperty":         LongProperty,
	"DoubleProperty":       DoubleProperty,
	"DateTimeProperty":     DateTimeProperty,
	"ObjectProperty":       ObjectProperty,
	"RelationshipProperty": RelationshipProperty,
	"EnumProperty":         EnumProperty,
}

func (k PropertyKind) String() string {
	switch k {
	case StringProperty:
		return "String"
	case BooleanProperty:
		return "Boolean"
	case IntegerProperty:
		return "Integer"
	case LongProperty:
		return "Long"
	case DoubleProperty:
		return "Double"
	case DateTimeProperty:
		return "DateTime"
	case ObjectProperty:
		return "Object"
	case RelationshipProperty:
		return "Relationship"
	case EnumProperty:
		return "Enum"
	}
	return fmt.Sprintf("PropertyKind(%d)", uint8(k))
}

// ParsePropertyKind maps a property $class tag such as
// "concerto.metamodel@1.0.0.StringProperty" onto its kind.
func ParsePropertyKind(class string) (PropertyKind, error) {
	if k, ok := propertyKinds[localName(class)]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unsupported property kind %q", class)
}

// DeclarationKind is the closed set of type declaration kinds.
type DeclarationKind uint8

const (
	ConceptDeclaration DeclarationKind = iota + 1
	AssetDeclaration
	ParticipantDeclaration
	TransactionDeclaration
	EventDeclaration
	EnumDeclaration
	ScalarDeclaration
	MapDeclaration
)

var declarationKinds = map[string]DeclarationKind{
	"ConceptDeclaration":     ConceptDeclaration,
	"AssetDeclaration":       AssetDeclaration,
	"ParticipantDeclaration": ParticipantDeclaration,
	"TransactionDeclaration": TransactionDeclaration,
	"EventDeclaration":       EventDeclaration,
	"EnumDeclaration":        EnumDeclaration,
	"ScalarDeclaration":      ScalarDeclaration,
	"MapDeclaration":         MapDeclaration,
	"StringScalar":           ScalarDeclaration,
	"BooleanScalar":          ScalarDeclaration,
	"IntegerScalar":          ScalarDeclaration,
	"LongScalar":             ScalarDeclaration,
	"DoubleScalar":           ScalarDeclaration,
	"DateTimeScalar":         ScalarDeclaration,
}

func (k DeclarationKind) String() string {
	switch k {
	case ConceptDeclaration:
		return "Concept"
	case AssetDeclaration:
		return "Asset"
	case ParticipantDeclaration:
		return "Participant"
	case TransactionDeclaration:
		return "Transaction"
	case EventDeclaration:
		return "Event"
	case EnumDeclaration:
		return "Enum"
	case ScalarDeclaration:
		return "Scalar"
	case MapDeclaration:
		return "Map"
	}
	return fmt.Sprintf("DeclarationKind(%d)", uint8(k))
}

// IsClassLike reports whether instances of the declaration are resources:
// objects with a $class, properties and an optional supertype.
func (k DeclarationKind) IsClassLike() bool {
	switch k {
	case ConceptDeclaration, AssetDeclaration, ParticipantDeclaration, TransactionDeclaration, EventDeclaration:
		return true
	case EnumDeclaration, ScalarDeclaration, MapDeclaration:
		return false
	}
	return false
}

// ParseDeclarationKind maps a declaration $class tag onto its kind.
func ParseDeclarationKind(class string) (DeclarationKind, error) {
	if k, ok := declarationKinds[localName(class)]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unsupported declaration kind %q", class)
}

// localName strips the namespace prefix of a qualified tag.
// Versioned namespaces contain dots ("concerto.metamodel@1.0.0"), so the
// last dot always separates the type name.
func localName(class string) string {
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		return class[i+1:]
	}
	return class
}
