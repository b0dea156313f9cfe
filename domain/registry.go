package domain

import (
	"log/slog"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect/sqlschema"
	"github.com/secret-point/sql-aide/schema/field"
)

// Builder completes a Domain for one base type. The registry fills in the
// identity, layers, nullability and annotations before calling it.
type Builder func(r *Registry, d *Domain) error

// Registry resolves descriptors into domains.
type Registry struct {
	builders map[field.Type]Builder
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithBuilder registers or replaces the builder of a base type.
func WithBuilder(t field.Type, b Builder) Option {
	return func(r *Registry) {
		r.builders[t] = b
	}
}

// NewRegistry returns a registry with a builder for every supported type.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		builders: defaultBuilders(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the registry used by the package level helpers.
var Default = NewRegistry()

type initConfig struct {
	identity    Identity
	optional    *bool
	parents     []*field.Descriptor
	forceCreate bool
}

// InitOption configures a single resolution.
type InitOption func(*initConfig)

// WithIdentity names the resolved domain.
func WithIdentity(name string) InitOption {
	return func(c *initConfig) {
		c.identity = Named(name)
	}
}

// WithOptional overrides the nullability derived from the layers.
func WithOptional(optional bool) InitOption {
	return func(c *initConfig) {
		c.optional = &optional
	}
}

// WithParents records layers peeled by the caller before resolution.
func WithParents(parents ...*field.Descriptor) InitOption {
	return func(c *initConfig) {
		c.parents = append(c.parents, parents...)
	}
}

// WithForceCreate discards any attached domain and builds a new one.
func WithForceCreate() InitOption {
	return func(c *initConfig) {
		c.forceCreate = true
	}
}

func newInitConfig(opts []InitOption) *initConfig {
	c := &initConfig{identity: Unassigned}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve builds a new domain for desc. Nothing is attached to desc.
func (r *Registry) Resolve(desc *field.Descriptor, opts ...InitOption) (*Domain, error) {
	return r.resolve(desc, newInitConfig(opts))
}

func (r *Registry) resolve(desc *field.Descriptor, cfg *initConfig) (*Domain, error) {
	d := &Domain{
		identity: cfg.identity,
		desc:     desc,
		parents:  append([]*field.Descriptor(nil), cfg.parents...),
	}
	var path []string
	n := desc
	for n.Layer() != field.LayerBase {
		path = append(path, n.Layer().String())
		switch n.Layer() {
		case field.LayerOptional, field.LayerNullable:
			d.nullable = true
		}
		d.parents = append(d.parents, n)
		n = n.Inner()
	}
	d.base = n
	if cfg.optional != nil {
		d.nullable = *cfg.optional
	}
	d.defValue, d.hasDefault = desc.DefaultValue()
	d.ann = sqlschema.From(desc.AllAnnotations())
	build, ok := r.builders[n.Type()]
	if !ok || build == nil {
		return nil, sqla.NewUnsupportedTypeError(n.Type().String(), path...)
	}
	if err := build(r, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ResolveCached returns the domain attached to desc, building and attaching
// one on first use. An attached domain with a sentinel identity is upgraded
// to the requested name; a domain that already has a different name is left
// attached and a new, unattached domain is returned for the new name on every
// such call. Only WithForceCreate replaces the attached domain.
func (r *Registry) ResolveCached(desc *field.Descriptor, opts ...InitOption) (*Domain, error) {
	cfg := newInitConfig(opts)
	if cfg.forceCreate {
		r.logger.Debug("domain rebuilt", "descriptor", desc.String(), "identity", cfg.identity.String())
		r.Detach(desc)
	}
	if d, ok := desc.Attachment().(*Domain); ok {
		want := cfg.identity
		if want == Unassigned {
			want = NoIdentityFromShape
		}
		if d.upgrade(want) {
			r.logger.Debug("domain identity upgraded", "descriptor", desc.String(), "identity", want.String())
			return d, nil
		}
		if name, ok := want.Name(); ok && name != d.Name() {
			r.logger.Debug("domain shared under a new name", "descriptor", desc.String(), "from", d.Name(), "to", name)
			return r.resolve(desc, cfg)
		}
		return d, nil
	}
	if cfg.identity == Unassigned {
		cfg.identity = NoIdentityFromShape
	}
	d, err := r.resolve(desc, cfg)
	if err != nil {
		return nil, err
	}
	desc.Attach(d)
	return d, nil
}

// Detach clears the domains attached to desc and to every inner layer.
func (r *Registry) Detach(desc *field.Descriptor) {
	desc.Detach()
}

// Resolve builds a domain with the default registry.
func Resolve(desc *field.Descriptor, opts ...InitOption) (*Domain, error) {
	return Default.Resolve(desc, opts...)
}

// ResolveCached resolves through the default registry's cache.
func ResolveCached(desc *field.Descriptor, opts ...InitOption) (*Domain, error) {
	return Default.ResolveCached(desc, opts...)
}

// MustResolve is like Resolve but panics on error.
func MustResolve(desc *field.Descriptor, opts ...InitOption) *Domain {
	d, err := Resolve(desc, opts...)
	if err != nil {
		panic(err)
	}
	return d
}
