// Package regexcache pre-compiles the string validator patterns of a registry.
//
// Patterns are JavaScript regular expressions, so they are compiled with
// regexp2 in ECMAScript mode rather than with the RE2 engine of the standard library.
package regexcache

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/aretw0/concerto/pkg/schema"
	"github.com/dlclark/regexp2"
)

// DefaultTimeout bounds a single match.
const DefaultTimeout = 2 * time.Second

// ErrNotCached is returned by Match for a pattern that was never compiled.
var ErrNotCached = errors.New("pattern not compiled")

// Cache maps each (pattern, flags) pair to its compiled matcher.
// It is read-only after Build and safe for concurrent use.
type Cache struct {
	entries map[metamodel.Pattern]*regexp2.Regexp
}

// Build compiles every pattern once. Invalid patterns are collected and
// returned together as a single domain.MetamodelMalformed error.
func Build(patterns []metamodel.Pattern, timeout time.Duration) (*Cache, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Cache{entries: make(map[metamodel.Pattern]*regexp2.Regexp, len(patterns))}

	var errs []error
	for _, p := range patterns {
		if _, ok := c.entries[p]; ok {
			continue
		}
		re, err := compile(p)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: p.Source, Reason: err.Error()})
			continue
		}
		re.MatchTimeout = timeout
		c.entries[p] = re
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{
			Kind: domain.MetamodelMalformed,
			Msg:  fmt.Sprintf("%d invalid string validator pattern(s)", len(errs)),
			Err:  &schema.AggregateError{Errors: errs},
		}
	}
	return c, nil
}

func compile(p metamodel.Pattern) (*regexp2.Regexp, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range p.Flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u', 'g':
		default:
			return nil, fmt.Errorf("unsupported flag %q", f)
		}
	}
	return regexp2.Compile(p.Source, opts)
}

// Match runs a cached pattern against s.
func (c *Cache) Match(p metamodel.Pattern, s string) (bool, error) {
	re, ok := c.entries[p]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotCached, p)
	}
	return re.MatchString(s)
}

func (c *Cache) Len() int { return len(c.entries) }
