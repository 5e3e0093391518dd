package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a validation or construction failure.
type ErrorKind uint8

const (
	// InputMalformed means the instance text is not valid JSON (or YAML).
	InputMalformed ErrorKind = iota + 1
	// MetamodelMalformed is a construction-time failure; it is never returned per call
	// except for inheritance cycles recorded on a type.
	MetamodelMalformed
	UnknownClass
	MissingRequiredProperty
	UnknownProperty
	TypeMismatch
	StringValidation
	MissingSupertype
	NestingTooDeep
)

var (
	ErrInputMalformed          = errors.New("input malformed")
	ErrMetamodelMalformed      = errors.New("metamodel malformed")
	ErrUnknownClass            = errors.New("unknown class")
	ErrMissingRequiredProperty = errors.New("missing required property")
	ErrUnknownProperty         = errors.New("unknown property")
	ErrTypeMismatch            = errors.New("type mismatch")
	ErrStringValidation        = errors.New("string validation failed")
	ErrMissingSupertype        = errors.New("missing supertype")
	ErrNestingTooDeep          = errors.New("nesting too deep")
)

// Sentinel returns the errors.Is target for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case InputMalformed:
		return ErrInputMalformed
	case MetamodelMalformed:
		return ErrMetamodelMalformed
	case UnknownClass:
		return ErrUnknownClass
	case MissingRequiredProperty:
		return ErrMissingRequiredProperty
	case UnknownProperty:
		return ErrUnknownProperty
	case TypeMismatch:
		return ErrTypeMismatch
	case StringValidation:
		return ErrStringValidation
	case MissingSupertype:
		return ErrMissingSupertype
	case NestingTooDeep:
		return ErrNestingTooDeep
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.Sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Code is the stable machine-readable name used in JSON reports.
func (k ErrorKind) Code() string {
	return strings.ReplaceAll(k.String(), " ", "_")
}

// ValidationError describes the first violation found in an instance,
// or why a metamodel could not be compiled.
type ValidationError struct {
	Kind     ErrorKind
	Path     Path   // location in the instance (or metamodel) document
	Class    string // resolved $class, when known
	Property string // offending property name, when relevant
	Expected string
	Found    string
	Msg      string
	Err      error // underlying cause (parser or regex errors)
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Path != "" {
		b.WriteString(" (at ")
		b.WriteString(string(e.Path))
		b.WriteString(")")
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *ValidationError) Is(target error) bool {
	return target != nil && target == e.Kind.Sentinel()
}

// KindOf returns the ErrorKind of err, or 0 when err is not a *ValidationError.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return 0
}

// NewInputMalformed wraps a parser error. offset is the byte offset of the failure, or -1.
func NewInputMalformed(err error, offset int64) *ValidationError {
	msg := "invalid JSON syntax"
	if offset >= 0 {
		msg = fmt.Sprintf("invalid syntax at offset %d", offset)
	}
	return &ValidationError{Kind: InputMalformed, Msg: msg, Err: err}
}

// NewMetamodelMalformed reports a construction failure at a location of the metamodel document.
func NewMetamodelMalformed(path Path, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: MetamodelMalformed, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func NewUnknownClass(path Path, class string) *ValidationError {
	return &ValidationError{Kind: UnknownClass, Path: path, Class: class, Msg: fmt.Sprintf("%q is not declared", class)}
}

func NewMissingRequired(path Path, class, property string) *ValidationError {
	msg := fmt.Sprintf("%q", property)
	if class != "" {
		msg += " for type " + class
	}
	return &ValidationError{Kind: MissingRequiredProperty, Path: path, Class: class, Property: property, Msg: msg}
}

func NewUnknownProperty(path Path, class, property string) *ValidationError {
	return &ValidationError{
		Kind:     UnknownProperty,
		Path:     path,
		Class:    class,
		Property: property,
		Msg:      fmt.Sprintf("%q for type %s", property, class),
	}
}

func NewTypeMismatch(path Path, expected string, found string) *ValidationError {
	return &ValidationError{
		Kind:     TypeMismatch,
		Path:     path,
		Expected: expected,
		Found:    found,
		Msg:      fmt.Sprintf("expected %s, found %s", expected, found),
	}
}

func NewStringValidation(path Path, property, reason string) *ValidationError {
	return &ValidationError{Kind: StringValidation, Path: path, Property: property, Msg: fmt.Sprintf("%q %s", property, reason)}
}

func NewMissingSupertype(path Path, class, supertype string) *ValidationError {
	return &ValidationError{
		Kind:  MissingSupertype,
		Path:  path,
		Class: class,
		Msg:   fmt.Sprintf("%s extends undeclared type %s", class, supertype),
	}
}

func NewNestingTooDeep(path Path, limit int) *ValidationError {
	return &ValidationError{Kind: NestingTooDeep, Path: path, Msg: fmt.Sprintf("exceeds %d levels", limit)}
}

// ErrMetamodelNotFound is returned by metamodel sources and stores that hold no document.
var ErrMetamodelNotFound = errors.New("metamodel not found")
