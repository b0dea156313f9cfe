// Package postgres adds PostgreSQL server-side domains, composite types and
// SQL functions to the PostgreSQL dialect.
//
//	pg := postgres.New()
//	def, err := pg.DomainDefinition(field.Text(), "email_address", postgres.Idempotent())
//	sql, err := emit.Render(emit.NewContext(pg.Dialect), def)
//	// BEGIN CREATE DOMAIN "email_address" AS TEXT; EXCEPTION WHEN DUPLICATE_OBJECT THEN /* ignore error without warning */ END
package postgres

import (
	"fmt"
	"strings"

	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/dialect/sqlschema"
	"github.com/secret-point/sql-aide/domain"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/lint"
	"github.com/secret-point/sql-aide/schema/field"
)

// DomainExtensions is the capability of dialects that define named
// server-side domains.
type DomainExtensions interface {
	DomainDefinition(desc *field.Descriptor, name string, opts ...Option) (*DomainDefinition, error)
}

// Dialect is the PostgreSQL dialect with its domain extensions.
type Dialect struct {
	*dialect.Dialect
	registry *domain.Registry
}

var _ DomainExtensions = (*Dialect)(nil)

// New returns the PostgreSQL dialect resolving domains with reg, or with
// domain.Default when reg is nil.
func New(reg ...*domain.Registry) *Dialect {
	d := &Dialect{Dialect: dialect.NewPostgres(), registry: domain.Default}
	if len(reg) > 0 && reg[0] != nil {
		d.registry = reg[0]
	}
	return d
}

// WarnFunc returns the notice raised when the named domain already exists.
type WarnFunc func(name string, ctx *emit.Context) string

type config struct {
	idempotent bool
	warn       WarnFunc
	indent     string
}

// Option configures a domain definition.
type Option func(*config)

// Idempotent wraps CREATE DOMAIN in a block that ignores duplicate_object.
func Idempotent() Option {
	return func(c *config) {
		c.idempotent = true
	}
}

// WarnOnDuplicate raises a notice from fn when the domain already exists.
// It implies Idempotent.
func WarnOnDuplicate(fn WarnFunc) Option {
	return func(c *config) {
		c.idempotent = true
		c.warn = fn
	}
}

// Indent formats idempotent blocks over several lines, indenting nested
// statements with indent.
func Indent(indent string) Option {
	return func(c *config) {
		c.indent = indent
	}
}

// DomainDefinition is a CREATE DOMAIN statement.
type DomainDefinition struct {
	name string
	dom  *domain.Domain
	cfg  config
}

// DomainDefinition resolves desc as the domain named name.
func (d *Dialect) DomainDefinition(desc *field.Descriptor, name string, opts ...Option) (*DomainDefinition, error) {
	dom, err := d.registry.ResolveCached(desc, domain.WithIdentity(name))
	if err != nil {
		return nil, fmt.Errorf("postgres: domain %s: %w", name, err)
	}
	def := &DomainDefinition{name: name, dom: dom}
	for _, opt := range opts {
		opt(&def.cfg)
	}
	return def, nil
}

// Name returns the domain name.
func (def *DomainDefinition) Name() string { return def.name }

// Domain returns the resolved domain.
func (def *DomainDefinition) Domain() *domain.Domain { return def.dom }

// IsIdempotent reports if the statement tolerates an existing domain.
func (def *DomainDefinition) IsIdempotent() bool { return def.cfg.idempotent }

// SQL implements emit.Supplier.
func (def *DomainDefinition) SQL(ctx *emit.Context) (string, error) {
	ident := ctx.Identifier(dialect.KindDomain, def.name)
	typ, err := def.dom.SQLType(ctx, domain.PurposeServerDomain)
	if err != nil {
		return "", err
	}
	return def.cfg.wrap(ctx, def.name, fmt.Sprintf("CREATE DOMAIN %s AS %s", ident, typ))
}

// wrap returns create, or the block tolerating an existing object named
// name when the definition is idempotent.
func (c config) wrap(ctx *emit.Context, name, create string) (string, error) {
	if !c.idempotent {
		return create, nil
	}
	var handler string
	if c.warn != nil {
		notice, err := ctx.Literal(c.warn(name, ctx))
		if err != nil {
			return "", err
		}
		handler = "RAISE NOTICE " + notice + ";"
	}
	hffi := c.indent
	if hffi == "" {
		if handler == "" {
			handler = "/* ignore error without warning */"
		}
		return fmt.Sprintf("BEGIN %s; EXCEPTION WHEN DUPLICATE_OBJECT THEN %s END", create, handler), nil
	}
	lines := []string{"BEGIN", hffi + create + ";", "EXCEPTION"}
	if handler == "" {
		lines = append(lines, hffi+"WHEN DUPLICATE_OBJECT THEN -- ignore error without warning")
	} else {
		lines = append(lines, hffi+"WHEN DUPLICATE_OBJECT THEN", hffi+hffi+handler)
	}
	return strings.Join(append(lines, "END"), "\n"), nil
}

// DeclareSymbols implements emit.Declarer.
func (def *DomainDefinition) DeclareSymbols(ctx *emit.Context) error {
	def.cfg.declare(ctx, def.name)
	return nil
}

// declare records name in the domain namespace, which PostgreSQL shares
// between domains and composite types.
func (c config) declare(ctx *emit.Context, name string) {
	if !ctx.DeclareDomain(name) && !c.idempotent {
		ctx.Report(lint.Diagnostic{
			Code:    lint.CodeDuplicateDomain,
			Message: "domain is created more than once without an idempotent definition",
			Origin:  lint.OriginTemplateEngine,
			Subject: name,
		})
	}
}

// Serial returns a required SERIAL column.
func Serial() *field.Descriptor {
	return field.Integer().Annotations(sqlschema.ColumnType("SERIAL"))
}

// SerialNullable returns a nullable SERIAL column.
func SerialNullable() *field.Descriptor {
	return Serial().Nullable()
}
