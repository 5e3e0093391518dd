package concerto

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/concerto/internal/compiler"
	"github.com/aretw0/concerto/internal/regexcache"
	"github.com/aretw0/concerto/internal/runtime"
	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
)

// Validator checks instance documents against a compiled metamodel.
// It is immutable after New and safe for concurrent use.
type Validator struct {
	runtime      *runtime.Engine
	registry     *metamodel.Registry
	parser       *compiler.Parser
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	maxDepth     int
	singleLevel  bool
	regexTimeout time.Duration
}

// Option defines a functional option for configuring the Validator.
type Option func(*Validator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(v *Validator) {
		v.hooks = hooks
	}
}

// WithMaxDepth bounds how deeply resources may nest (default 256).
func WithMaxDepth(depth int) Option {
	return func(v *Validator) {
		v.maxDepth = depth
	}
}

// WithSingleLevelInheritance only merges the direct supertype's properties,
// ignoring grandparents.
func WithSingleLevelInheritance() Option {
	return func(v *Validator) {
		v.singleLevel = true
	}
}

// WithRegexTimeout bounds a single string validator match (default 2s).
func WithRegexTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.regexTimeout = d
	}
}

// New compiles the metamodel document and returns a Validator for it.
// Any problem with the document is reported here, as a domain.MetamodelMalformed error.
func New(metamodelDoc []byte, opts ...Option) (*Validator, error) {
	reg, err := metamodel.Build(metamodelDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}
	return NewFromRegistry(reg, opts...)
}

// NewSystem returns a Validator for the embedded Concerto metamodel,
// which validates metamodel documents themselves.
func NewSystem(opts ...Option) (*Validator, error) {
	return New(metamodel.System(), opts...)
}

// NewFromRegistry uses an already built registry.
func NewFromRegistry(reg *metamodel.Registry, opts ...Option) (*Validator, error) {
	if reg == nil {
		return nil, domain.NewMetamodelMalformed(domain.Root, "registry is required")
	}
	v := &Validator{
		registry: reg,
		parser:   compiler.NewParser(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	v.logger = v.logger.With("namespace", reg.Namespace())

	for _, name := range reg.Duplicates() {
		v.logger.Warn("duplicate declaration overwritten", "type", name)
	}

	cache, err := regexcache.Build(reg.Patterns(), v.regexTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to compile string validators: %w", err)
	}

	runtimeOpts := []runtime.EngineOption{runtime.WithMaxDepth(v.maxDepth)}
	if v.singleLevel {
		runtimeOpts = append(runtimeOpts, runtime.WithSingleLevelInheritance())
	}
	v.runtime, err = runtime.NewEngine(reg, cache, runtimeOpts...)
	if err != nil {
		return nil, err
	}

	v.logger.Debug("validator ready", "types", reg.Len(), "patterns", cache.Len())
	return v, nil
}

// Registry exposes the compiled type registry.
func (v *Validator) Registry() *metamodel.Registry { return v.registry }

// Validate parses JSON text and checks it. Malformed JSON is a
// domain.InputMalformed error; otherwise the first violation is returned.
func (v *Validator) Validate(data []byte) error {
	return v.ValidateContext(context.Background(), "", data)
}

// ValidateContext is Validate with a context and a source label for hooks and logs.
func (v *Validator) ValidateContext(ctx context.Context, source string, data []byte) error {
	return v.observe(ctx, source, func() (string, error) {
		value, err := v.parser.Parse(data)
		if err != nil {
			return "", err
		}
		return classOf(value), v.runtime.Validate(value)
	})
}

// ValidateYAML parses a YAML document and checks it like Validate.
func (v *Validator) ValidateYAML(data []byte) error {
	return v.validateYAMLContext(context.Background(), "", data)
}

func (v *Validator) validateYAMLContext(ctx context.Context, source string, data []byte) error {
	return v.observe(ctx, source, func() (string, error) {
		value, err := v.parser.ParseYAML(data)
		if err != nil {
			return "", err
		}
		return classOf(value), v.runtime.Validate(value)
	})
}

// ValidateValue checks an already parsed value.
func (v *Validator) ValidateValue(value domain.Value) error {
	return v.observe(context.Background(), "", func() (string, error) {
		return classOf(value), v.runtime.Validate(value)
	})
}

// ValidateAs checks that the document is an instance of qualifiedName
// (its $class must name that type exactly) and validates it.
func (v *Validator) ValidateAs(data []byte, qualifiedName string) error {
	value, err := v.parser.Parse(data)
	if err != nil {
		return err
	}
	return v.validateAs(value, qualifiedName)
}

func (v *Validator) validateAs(value domain.Value, qualifiedName string) error {
	td, err := v.runtime.ClassOf(value)
	if err != nil {
		return err
	}
	if td.QualifiedName() != qualifiedName {
		return domain.NewTypeMismatch(domain.Root.Key("$class"), qualifiedName, td.QualifiedName())
	}
	return v.ValidateValue(value)
}

func (v *Validator) observe(ctx context.Context, source string, run func() (string, error)) error {
	start := time.Now()
	if v.hooks.OnValidationStart != nil {
		v.hooks.OnValidationStart(ctx, &domain.ValidationEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventValidationStart},
			Source:    source,
		})
	}

	class, err := run()

	if err != nil {
		v.logger.Debug("validation failed", "source", source, "class", class, "error", err)
	}
	if v.hooks.OnValidationEnd != nil {
		v.hooks.OnValidationEnd(ctx, &domain.ValidationEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventValidationEnd},
			Source:    source,
			Class:     class,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	return err
}

func classOf(value domain.Value) string {
	raw, ok := value.Get("$class")
	if !ok {
		return ""
	}
	s, _ := raw.AsString()
	return s
}
