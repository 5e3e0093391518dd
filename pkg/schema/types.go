package schema

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/aretw0/concerto/pkg/domain"
)

// Type defines the contract for leaf validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "String", "Integer").
	Name() string
	// Validate checks a single value; path locates it in the instance document.
	Validate(path domain.Path, value domain.Value) error
}

// Range holds optional inclusive numeric bounds.
type Range struct {
	Lower *float64
	Upper *float64
}

// Between builds a Range with both bounds set.
func Between(lower, upper float64) Range {
	return Range{Lower: &lower, Upper: &upper}
}

func (r Range) contains(f float64) bool {
	if r.Lower != nil && f < *r.Lower {
		return false
	}
	if r.Upper != nil && f > *r.Upper {
		return false
	}
	return true
}

func (r Range) String() string {
	lo, hi := "-inf", "+inf"
	if r.Lower != nil {
		lo = strconv.FormatFloat(*r.Lower, 'g', -1, 64)
	}
	if r.Upper != nil {
		hi = strconv.FormatFloat(*r.Upper, 'g', -1, 64)
	}
	return "[" + lo + ", " + hi + "]"
}

func (r Range) isSet() bool { return r.Lower != nil || r.Upper != nil }

// describe names what was found, including number literals.
func describe(v domain.Value) string {
	if v.Kind() == domain.KindNumber {
		return "number " + v.Literal()
	}
	return v.Kind().String()
}

// --- Built-in Type Implementations ---

// StringType validates strings, optionally against a pattern and a length range.
type StringType struct {
	property string
	pattern  string
	match    func(string) (bool, error)
	minLen   *int
	maxLen   *int
}

func (t *StringType) Name() string { return "String" }

func (t *StringType) Validate(path domain.Path, value domain.Value) error {
	s, ok := value.AsString()
	if !ok {
		return domain.NewTypeMismatch(path, "string", describe(value))
	}
	if t.match != nil {
		matched, err := t.match(s)
		if err != nil {
			e := domain.NewStringValidation(path, t.property, "could not be checked against "+t.pattern)
			e.Err = err
			return e
		}
		if !matched {
			return domain.NewStringValidation(path, t.property, "does not match "+t.pattern)
		}
	}
	n := utf8.RuneCountInString(s)
	if t.minLen != nil && n < *t.minLen {
		return domain.NewStringValidation(path, t.property, fmt.Sprintf("is shorter than %d characters", *t.minLen))
	}
	if t.maxLen != nil && n > *t.maxLen {
		return domain.NewStringValidation(path, t.property, fmt.Sprintf("is longer than %d characters", *t.maxLen))
	}
	return nil
}

// BoolType validates booleans.
type BoolType struct{}

func (t *BoolType) Name() string { return "Boolean" }

func (t *BoolType) Validate(path domain.Path, value domain.Value) error {
	if _, ok := value.AsBool(); !ok {
		return domain.NewTypeMismatch(path, "boolean", describe(value))
	}
	return nil
}

// IntType validates numbers that fit a signed 64-bit integer.
type IntType struct {
	name  string
	bound Range
}

func (t *IntType) Name() string { return t.name }

func (t *IntType) Validate(path domain.Path, value domain.Value) error {
	n, ok := value.Int64()
	if !ok {
		return domain.NewTypeMismatch(path, "64-bit integer", describe(value))
	}
	if t.bound.isSet() && !t.bound.contains(float64(n)) {
		return domain.NewTypeMismatch(path, "integer in "+t.bound.String(), describe(value))
	}
	return nil
}

// FloatType validates numbers representable as a finite 64-bit float.
// Integers are accepted.
type FloatType struct {
	bound Range
}

func (t *FloatType) Name() string { return "Double" }

func (t *FloatType) Validate(path domain.Path, value domain.Value) error {
	f, ok := value.Float64()
	if !ok {
		return domain.NewTypeMismatch(path, "double", describe(value))
	}
	if t.bound.isSet() && !t.bound.contains(f) {
		return domain.NewTypeMismatch(path, "double in "+t.bound.String(), describe(value))
	}
	return nil
}

// DateTimeType validates RFC 3339 timestamps.
type DateTimeType struct{}

func (t *DateTimeType) Name() string { return "DateTime" }

func (t *DateTimeType) Validate(path domain.Path, value domain.Value) error {
	s, ok := value.AsString()
	if !ok {
		return domain.NewTypeMismatch(path, "DateTime string", describe(value))
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return domain.NewTypeMismatch(path, "RFC 3339 DateTime", fmt.Sprintf("%q", s))
	}
	return nil
}

// RelationshipType validates references to other resources by identifier.
type RelationshipType struct{}

func (t *RelationshipType) Name() string { return "Relationship" }

func (t *RelationshipType) Validate(path domain.Path, value domain.Value) error {
	s, ok := value.AsString()
	if !ok || s == "" {
		return domain.NewTypeMismatch(path, "relationship identifier", describe(value))
	}
	return nil
}

// ObjectType checks that a value is an object. Nested validation is up to the caller.
type ObjectType struct {
	typeName string
}

func (t *ObjectType) Name() string { return t.typeName }

func (t *ObjectType) Validate(path domain.Path, value domain.Value) error {
	if value.Kind() != domain.KindObject {
		return domain.NewTypeMismatch(path, "object", describe(value))
	}
	return nil
}

// --- Factory Functions ---

// StringOption configures a String type.
type StringOption func(*StringType)

// Pattern attaches a matcher; pattern is only used in error messages.
func Pattern(pattern string, match func(string) (bool, error)) StringOption {
	return func(t *StringType) {
		t.pattern = pattern
		t.match = match
	}
}

// Length bounds the rune length; nil means unbounded.
func Length(minLen, maxLen *int) StringOption {
	return func(t *StringType) {
		t.minLen = minLen
		t.maxLen = maxLen
	}
}

// String creates a string type validator for the named property.
func String(property string, opts ...StringOption) Type {
	t := &StringType{property: property}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Int creates an integer type validator.
func Int(bound ...Range) Type {
	t := &IntType{name: "Integer"}
	if len(bound) > 0 {
		t.bound = bound[0]
	}
	return t
}

// Long is Int under the Long name.
func Long(bound ...Range) Type {
	t := Int(bound...).(*IntType)
	t.name = "Long"
	return t
}

// Float creates a double type validator.
func Float(bound ...Range) Type {
	t := &FloatType{}
	if len(bound) > 0 {
		t.bound = bound[0]
	}
	return t
}

// DateTime creates an RFC 3339 timestamp validator.
func DateTime() Type { return &DateTimeType{} }

// Relationship creates a relationship identifier validator.
func Relationship() Type { return &RelationshipType{} }

// Object creates an object shape validator for the named type.
func Object(typeName string) Type { return &ObjectType{typeName: typeName} }
