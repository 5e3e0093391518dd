package metamodel

// Model is a decoded metamodel document.
type Model struct {
	Class        string        `mapstructure:"$class"`
	Namespace    string        `mapstructure:"namespace"`
	Declarations []Declaration `mapstructure:"declarations"`
}

// Declaration is one type declaration.
// Kind is derived from Class when the registry is built.
type Declaration struct {
	Class      string          `mapstructure:"$class"`
	Name       string          `mapstructure:"name"`
	IsAbstract bool            `mapstructure:"isAbstract"`
	Properties []Property      `mapstructure:"properties"`
	SuperType  *TypeIdentifier `mapstructure:"superType"`

	Kind DeclarationKind `mapstructure:"-"`
}

// Property is one property declaration.
// Validator carries a regex for strings or a range for numbers, depending on Kind.
type Property struct {
	Class           string           `mapstructure:"$class"`
	Name            string           `mapstructure:"name"`
	IsArray         bool             `mapstructure:"isArray"`
	IsOptional      bool             `mapstructure:"isOptional"`
	Type            *TypeIdentifier  `mapstructure:"type"`
	Validator       *Validator       `mapstructure:"validator"`
	LengthValidator *LengthValidator `mapstructure:"lengthValidator"`

	Kind PropertyKind `mapstructure:"-"`
}

// TypeIdentifier references a declaration by name and optional namespace.
type TypeIdentifier struct {
	Class     string `mapstructure:"$class"`
	Name      string `mapstructure:"name"`
	Namespace string `mapstructure:"namespace"`
}

// Validator is a StringRegexValidator or a numeric domain validator.
type Validator struct {
	Class   string   `mapstructure:"$class"`
	Pattern string   `mapstructure:"pattern"`
	Flags   string   `mapstructure:"flags"`
	Lower   *float64 `mapstructure:"lower"`
	Upper   *float64 `mapstructure:"upper"`
}

// LengthValidator bounds the rune length of a string.
type LengthValidator struct {
	MinLength *int `mapstructure:"minLength"`
	MaxLength *int `mapstructure:"maxLength"`
}

// Pattern identifies one compiled regular expression.
type Pattern struct {
	Source string
	Flags  string
}

// String renders the pattern the way it is written in JavaScript: /source/flags.
func (p Pattern) String() string { return "/" + p.Source + "/" + p.Flags }

// Pattern returns the regex of a string property, if it has one.
func (p *Property) Pattern() (Pattern, bool) {
	if p.Kind != StringProperty || p.Validator == nil || p.Validator.Pattern == "" {
		return Pattern{}, false
	}
	return Pattern{Source: p.Validator.Pattern, Flags: p.Validator.Flags}, true
}
