package table

import (
	"fmt"
	"slices"
	"strings"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/emit"
)

// Row maps column names to values.
type Row = map[string]any

// InsertDML returns an INSERT statement for one row. Columns follow the
// table order. A missing column is skipped when it is omitted from inserts
// or has a default, rendered as NULL when nullable, and fails otherwise.
// Values that are suppliers render as parenthesized sub-expressions.
func (t *Table) InsertDML(row Row) emit.Supplier {
	return &insertDML{t: t, row: row}
}

type insertDML struct {
	t   *Table
	row Row
}

func (s *insertDML) SQL(ctx *emit.Context) (string, error) {
	if err := s.t.checkKeys(s.row); err != nil {
		return "", err
	}
	var names, values []string
	for _, c := range s.t.columns {
		v, present := s.row[c.name]
		v, include, err := c.dom.TransformInsertValue(v, present)
		if err != nil {
			return "", sqla.NewConstructionError(s.t.name, c.name, "transform insert value", err)
		}
		if !include {
			switch {
			case c.dom.OmitFromInsert(), !c.dom.IsNullable() && c.dom.HasDefault():
				continue
			case c.dom.IsNullable():
				v = nil
			default:
				return "", sqla.NewConstructionError(s.t.name, c.name, "missing value for required column", nil)
			}
		}
		lit, err := valueSQL(ctx, v)
		if err != nil {
			return "", sqla.NewConstructionError(s.t.name, c.name, "render insert value", err)
		}
		names = append(names, c.name)
		values = append(values, lit)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		ctx.Identifier(s.t.identKind(), s.t.name),
		identList(ctx, names),
		strings.Join(values, ", "),
	), nil
}

// Select returns a statement selecting the primary key of the rows matching
// every criterion. Criteria follow the table order; nil matches NULL.
func (t *Table) Select(criteria Row) emit.Supplier {
	return emit.SupplierFunc(func(ctx *emit.Context) (string, error) {
		if err := t.checkKeys(criteria); err != nil {
			return "", err
		}
		projection := identList(ctx, t.ColumnNames())
		if t.pk != nil {
			projection = ctx.Identifier(dialect.KindColumn, t.pk.name)
		}
		var where []string
		for _, c := range t.columns {
			v, ok := criteria[c.name]
			if !ok {
				continue
			}
			ident := ctx.Identifier(dialect.KindColumn, c.name)
			if v == nil {
				where = append(where, ident+" IS NULL")
				continue
			}
			lit, err := valueSQL(ctx, v)
			if err != nil {
				return "", sqla.NewConstructionError(t.name, c.name, "render criterion", err)
			}
			where = append(where, ident+" = "+lit)
		}
		stmt := fmt.Sprintf("SELECT %s FROM %s", projection, ctx.Identifier(t.identKind(), t.name))
		if len(where) > 0 {
			stmt += " WHERE " + strings.Join(where, " AND ")
		}
		return stmt + ";", nil
	})
}

func (t *Table) checkKeys(row Row) error {
	var unknown []string
	for k := range row {
		if _, ok := t.byName[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return sqla.NewConstructionError(t.name, unknown[0], "unknown column", nil)
}

func valueSQL(ctx *emit.Context, v any) (string, error) {
	if s, ok := v.(emit.Supplier); ok {
		text, err := emit.Render(ctx, s)
		if err != nil {
			return "", err
		}
		return "(" + strings.TrimSuffix(text, ";") + ")", nil
	}
	return ctx.Literal(v)
}
