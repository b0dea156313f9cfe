package postgres

import (
	"fmt"
	"strings"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/domain"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/schema/field"
)

// Param is a named routine argument, composite type field or returned
// column.
type Param struct {
	Name string
	Desc *field.Descriptor
}

// Arg returns a Param.
func Arg(name string, desc *field.Descriptor) Param {
	return Param{Name: name, Desc: desc}
}

type param struct {
	name string
	dom  *domain.Domain
}

// params resolves ps without attaching them to their descriptors, so a
// descriptor shared with a table column keeps its column domain.
func (d *Dialect) params(owner string, ps []Param) ([]param, error) {
	out := make([]param, 0, len(ps))
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		switch {
		case p.Name == "":
			return nil, sqla.NewConstructionError(owner, "", "parameter name cannot be empty", nil)
		case p.Desc == nil:
			return nil, sqla.NewConstructionError(owner, p.Name, "missing parameter descriptor", nil)
		case seen[p.Name]:
			return nil, sqla.NewConstructionError(owner, p.Name, "duplicate parameter", nil)
		}
		seen[p.Name] = true
		dom, err := d.registry.Resolve(p.Desc, domain.WithIdentity(p.Name))
		if err != nil {
			return nil, sqla.NewConstructionError(owner, p.Name, "resolve domain", err)
		}
		out = append(out, param{name: p.Name, dom: dom})
	}
	return out, nil
}

func paramList(ctx *emit.Context, ps []param, purpose domain.Purpose) (string, error) {
	defs := make([]string, len(ps))
	for i, p := range ps {
		typ, err := p.dom.SQLType(ctx, purpose)
		if err != nil {
			return "", err
		}
		defs[i] = ctx.Identifier(dialect.KindColumn, p.name) + " " + typ
	}
	return strings.Join(defs, ", "), nil
}

// CompositeType is a CREATE TYPE ... AS (...) statement.
type CompositeType struct {
	name   string
	fields []param
	cfg    config
}

// CompositeType returns a composite type with the given fields. Idempotent,
// WarnOnDuplicate and Indent apply as for domains.
func (d *Dialect) CompositeType(name string, fields []Param, opts ...Option) (*CompositeType, error) {
	if name == "" {
		return nil, sqla.NewConstructionError("", "", "type name cannot be empty", nil)
	}
	if len(fields) == 0 {
		return nil, sqla.NewConstructionError(name, "", "composite type needs at least one field", nil)
	}
	ps, err := d.params(name, fields)
	if err != nil {
		return nil, err
	}
	ct := &CompositeType{name: name, fields: ps}
	for _, opt := range opts {
		opt(&ct.cfg)
	}
	return ct, nil
}

// Name returns the type name.
func (ct *CompositeType) Name() string { return ct.name }

// SQL implements emit.Supplier.
func (ct *CompositeType) SQL(ctx *emit.Context) (string, error) {
	list, err := paramList(ctx, ct.fields, domain.PurposeTypeField)
	if err != nil {
		return "", sqla.NewConstructionError(ct.name, "", "render type fields", err)
	}
	create := fmt.Sprintf("CREATE TYPE %s AS (%s)", ctx.Identifier(dialect.KindDomain, ct.name), list)
	return ct.cfg.wrap(ctx, ct.name, create)
}

// DeclareSymbols implements emit.Declarer.
func (ct *CompositeType) DeclareSymbols(ctx *emit.Context) error {
	ct.cfg.declare(ctx, ct.name)
	return nil
}

// Returns is the result of a function: a scalar type or a table of
// columns. Exactly one must be set.
type Returns struct {
	Scalar *field.Descriptor
	Table  []Param
}

// Function is a CREATE OR REPLACE FUNCTION statement with a SQL body.
type Function struct {
	name    string
	args    []param
	scalar  *domain.Domain
	columns []param
	body    any
}

// Function returns a SQL-language function. body is a string or an
// emit.Supplier.
func (d *Dialect) Function(name string, args []Param, returns Returns, body any) (*Function, error) {
	if name == "" {
		return nil, sqla.NewConstructionError("", "", "function name cannot be empty", nil)
	}
	switch body.(type) {
	case string, emit.Supplier:
	default:
		return nil, sqla.NewConstructionError(name, "", fmt.Sprintf("unsupported function body of type %T", body), nil)
	}
	if (returns.Scalar == nil) == (len(returns.Table) == 0) {
		return nil, sqla.NewConstructionError(name, "", "function returns either a scalar or a table", nil)
	}
	fn := &Function{name: name, body: body}
	var err error
	if fn.args, err = d.params(name, args); err != nil {
		return nil, err
	}
	if returns.Scalar != nil {
		if fn.scalar, err = d.registry.Resolve(returns.Scalar, domain.WithIdentity(name)); err != nil {
			return nil, sqla.NewConstructionError(name, "", "resolve return type", err)
		}
		return fn, nil
	}
	if fn.columns, err = d.params(name, returns.Table); err != nil {
		return nil, err
	}
	return fn, nil
}

// Name returns the function name.
func (fn *Function) Name() string { return fn.name }

// SQL implements emit.Supplier.
func (fn *Function) SQL(ctx *emit.Context) (string, error) {
	args, err := paramList(ctx, fn.args, domain.PurposeStoredRoutineArg)
	if err != nil {
		return "", sqla.NewConstructionError(fn.name, "", "render arguments", err)
	}
	var returns string
	if fn.scalar != nil {
		if returns, err = fn.scalar.SQLType(ctx, domain.PurposeStoredFunctionReturnsScalar); err != nil {
			return "", sqla.NewConstructionError(fn.name, "", "render return type", err)
		}
	} else {
		cols, err := paramList(ctx, fn.columns, domain.PurposeStoredFunctionReturnsTableColumn)
		if err != nil {
			return "", sqla.NewConstructionError(fn.name, "", "render returned columns", err)
		}
		returns = "TABLE(" + cols + ")"
	}
	var body string
	switch b := fn.body.(type) {
	case string:
		body = b
	case emit.Supplier:
		if body, err = emit.Render(ctx, b); err != nil {
			return "", sqla.NewConstructionError(fn.name, "", "render function body", err)
		}
	}
	return fmt.Sprintf("CREATE OR REPLACE FUNCTION %s(%s)\nRETURNS %s\nLANGUAGE sql\nAS $$\n%s\n$$",
		ctx.Identifier(dialect.KindRoutine, fn.name), args, returns, strings.TrimSpace(body)), nil
}
