package domain

import "strconv"

// Path locates a value inside an instance document, e.g. "$.customer.address[1]".
type Path string

// Root is the path of the document itself.
const Root Path = "$"

// Key returns the path of an object member.
func (p Path) Key(key string) Path {
	if isIdentifier(key) {
		return p + "." + Path(key)
	}
	return p + "[" + Path(strconv.Quote(key)) + "]"
}

// Index returns the path of an array element.
func (p Path) Index(i int) Path {
	return p + "[" + Path(strconv.Itoa(i)) + "]"
}

func (p Path) String() string { return string(p) }

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
