// Package domain turns typed field descriptors into SQL domains.
//
// A Domain knows, for one column-like value, its nullability, its SQL type
// for every rendering purpose, its default, how to transform values before
// they are inserted, and what it contributes to the structure of a CREATE
// TABLE statement. Domains are built by a Registry, which dispatches on the
// base type of a descriptor to one builder per type.
//
//	reg := domain.NewRegistry()
//	d, err := reg.ResolveCached(field.Text().Optional(), domain.WithIdentity("host_identity"))
//	typ, err := d.SQLType(ctx, domain.PurposeCreateTableColumn) // TEXT
package domain

import (
	"fmt"
	"strings"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/dialect/sqlschema"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/schema/field"
)

// InsertTransform rewrites a value before it is rendered in an INSERT.
// present is false when the caller supplied no value; returning
// include=false drops the column.
type InsertTransform func(v any, present bool) (out any, include bool, err error)

// Domain is the SQL view of a field descriptor.
type Domain struct {
	identity   Identity
	desc       *field.Descriptor
	base       *field.Descriptor
	parents    []*field.Descriptor
	nullable   bool
	sqlType    string
	ann        sqlschema.Annotation
	defValue   any
	hasDefault bool
	transform  InsertTransform
}

// Identity returns the current identity.
func (d *Domain) Identity() Identity { return d.identity }

// Name returns the assigned name, or "" while the identity is a sentinel.
func (d *Domain) Name() string {
	name, _ := d.identity.Name()
	return name
}

// Descriptor returns the descriptor the domain was resolved from.
func (d *Domain) Descriptor() *field.Descriptor { return d.desc }

// Parents returns the wrapper layers peeled during resolution, outermost first.
func (d *Domain) Parents() []*field.Descriptor { return d.parents }

// Type returns the base type.
func (d *Domain) Type() field.Type { return d.base.Type() }

// Annotation returns the merged SQL annotation.
func (d *Domain) Annotation() sqlschema.Annotation { return d.ann }

// IsNullable reports if the column accepts NULL.
func (d *Domain) IsNullable() bool { return d.nullable }

// IsPrimaryKey reports if the domain is a primary key.
func (d *Domain) IsPrimaryKey() bool { return d.ann.PrimaryKey }

// IsAutoIncrement reports if the domain is an auto-increment key.
func (d *Domain) IsAutoIncrement() bool { return d.ann.IsIncremental() }

// IsUnique reports if the domain carries a unique constraint.
func (d *Domain) IsUnique() bool { return d.ann.Unique }

// OmitFromInsert reports if a missing value drops the column from INSERTs.
func (d *Domain) OmitFromInsert() bool { return d.ann.OmitFromInsert }

// HasDefault reports if the domain renders a DEFAULT clause.
func (d *Domain) HasDefault() bool {
	return d.hasDefault || d.ann.Default != "" || d.ann.DefaultExpr != ""
}

// SQLType returns the SQL type for a rendering purpose.
func (d *Domain) SQLType(ctx *emit.Context, p Purpose) (string, error) {
	dl := ctx.Dialect()
	if d.ann.ColumnType != "" && p != PurposeForeignKeyRef {
		return d.ann.ColumnType, nil
	}
	if p == PurposeCreateTableColumn && d.IsAutoIncrement() && dl.AutoIncrementType != "" {
		return dl.AutoIncrementType, nil
	}
	if t, ok := dl.TypeOverride(d.Type()); ok {
		if d.Type() == field.TypeVarChar {
			return fmt.Sprintf("%s(%d)", t, d.size()), nil
		}
		return t, nil
	}
	if d.Type() == field.TypeVarChar {
		return fmt.Sprintf("VARCHAR(%d)", d.size()), nil
	}
	return d.sqlType, nil
}

func (d *Domain) size() int {
	if d.ann.Size > 0 {
		return int(d.ann.Size)
	}
	return d.base.Size()
}

// SQLDefault returns the rendered DEFAULT value, if any.
func (d *Domain) SQLDefault(ctx *emit.Context, _ Purpose) (string, bool, error) {
	switch {
	case d.ann.DefaultExpr != "":
		return d.ann.DefaultExpr, true, nil
	case d.ann.Default != "":
		lit, err := ctx.Literal(d.ann.Default)
		return lit, err == nil, err
	case d.hasDefault:
		lit, err := ctx.Literal(d.defValue)
		if err != nil {
			return "", false, sqla.NewConstructionError("", d.Name(), "render default", err)
		}
		return lit, true, nil
	default:
		return "", false, nil
	}
}

// TransformInsertValue prepares a value for an INSERT statement.
func (d *Domain) TransformInsertValue(v any, present bool) (any, bool, error) {
	if d.transform == nil {
		return v, present, nil
	}
	return d.transform(v, present)
}

// Decorations returns what the domain contributes at a structural site.
func (d *Domain) Decorations(ctx *emit.Context, site Site) ([]string, error) {
	switch site {
	case SiteFullColumnDefinition:
		if d.ann.Definition != "" {
			return []string{d.ann.Definition}, nil
		}
	case SiteColumnDecorators:
		var out []string
		if d.ann.PrimaryKey {
			pk := "PRIMARY KEY"
			if kw := ctx.Dialect().AutoIncrementKeyword; d.IsAutoIncrement() && kw != "" {
				pk += " " + kw
			}
			out = append(out, pk)
		}
		if d.ann.Unique {
			out = append(out, "/* UNIQUE COLUMN */")
		}
		return out, nil
	case SiteAfterAllColumns:
		name, err := d.columnName()
		if err != nil {
			return nil, err
		}
		var out []string
		if d.ann.Unique {
			out = append(out, "UNIQUE("+ctx.Identifier(dialect.KindColumn, name)+")")
		}
		if d.ann.Check != "" {
			out = append(out, "CHECK("+d.ann.Check+")")
		}
		return out, nil
	}
	return nil, nil
}

// ColumnDefinition renders the column for CREATE TABLE:
// name, type, inline decorators, NOT NULL, DEFAULT.
func (d *Domain) ColumnDefinition(ctx *emit.Context) (string, error) {
	name, err := d.columnName()
	if err != nil {
		return "", err
	}
	full, err := d.Decorations(ctx, SiteFullColumnDefinition)
	if err != nil {
		return "", err
	}
	if len(full) > 0 {
		return full[0], nil
	}
	typ, err := d.SQLType(ctx, PurposeCreateTableColumn)
	if err != nil {
		return "", err
	}
	parts := []string{ctx.Identifier(dialect.KindColumn, name), typ}
	decorators, err := d.Decorations(ctx, SiteColumnDecorators)
	if err != nil {
		return "", err
	}
	parts = append(parts, decorators...)
	if !d.nullable {
		parts = append(parts, "NOT NULL")
	}
	def, ok, err := d.SQLDefault(ctx, PurposeCreateTableColumn)
	if err != nil {
		return "", err
	}
	if ok {
		parts = append(parts, "DEFAULT "+def)
	}
	return strings.Join(parts, " "), nil
}

func (d *Domain) columnName() (string, error) {
	name, ok := d.identity.Name()
	if !ok {
		return "", sqla.NewUnresolvedIdentityError(d.identity.String(), d.Type().String())
	}
	return name, nil
}

// upgrade moves a sentinel identity forward. Names are never replaced.
func (d *Domain) upgrade(to Identity) bool {
	switch {
	case !d.identity.IsSentinel():
		return false
	case to.state == stateNamed:
		d.identity = to
		return true
	case to.state == stateNoIdentityFromShape && d.identity.state == stateUnassigned:
		d.identity = to
		return true
	default:
		return false
	}
}
