package erd

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/schema/field"
)

// Atlas projects the tables and foreign keys declared in ctx into an atlas
// schema, for use with atlas based inspection and diffing tools. Views are
// not projected.
func Atlas(ctx *emit.Context, name string) (*schema.Schema, error) {
	s := schema.New(name)
	tables := make(map[string]*schema.Table)
	for _, t := range ctx.Tables() {
		at := schema.NewTable(t.Name)
		var pk []*schema.Column
		for _, c := range t.Columns {
			ac := &schema.Column{
				Name: c.Name,
				Type: &schema.ColumnType{
					Type: atlasType(c),
					Raw:  c.SQLType,
					Null: c.Nullable,
				},
			}
			if c.AutoIncrement {
				ac.AddAttrs(&sqlite.AutoIncrement{})
			}
			if c.Comment != "" {
				ac.AddAttrs(&schema.Comment{Text: c.Comment})
			}
			at.AddColumns(ac)
			if c.PrimaryKey {
				pk = append(pk, ac)
			}
			if c.Unique {
				at.AddIndexes(schema.NewUniqueIndex(fmt.Sprintf("%s_%s_key", t.Name, c.Name)).AddColumns(ac))
			}
		}
		if len(pk) > 0 {
			at.SetPrimaryKey(schema.NewPrimaryKey(pk...))
		}
		s.AddTables(at)
		tables[t.Name] = at
	}
	for _, fk := range ctx.ForeignKeys() {
		src, ok := tables[fk.Table]
		if !ok {
			return nil, fmt.Errorf("erd: foreign key on undeclared table %s", fk.Table)
		}
		ref, ok := tables[fk.RefTable]
		if !ok {
			return nil, fmt.Errorf("erd: %s.%s references undeclared table %s", fk.Table, fk.Column, fk.RefTable)
		}
		col, ok := src.Column(fk.Column)
		if !ok {
			return nil, fmt.Errorf("erd: unknown column %s.%s", fk.Table, fk.Column)
		}
		refCol, ok := ref.Column(fk.RefColumn)
		if !ok {
			return nil, fmt.Errorf("erd: unknown column %s.%s", fk.RefTable, fk.RefColumn)
		}
		afk := schema.NewForeignKey(fmt.Sprintf("%s_%s_fkey", fk.Table, fk.Column)).
			AddColumns(col).
			SetRefTable(ref).
			AddRefColumns(refCol)
		if fk.OnDelete != "" {
			afk.SetOnDelete(schema.ReferenceOption(fk.OnDelete))
		}
		if fk.OnUpdate != "" {
			afk.SetOnUpdate(schema.ReferenceOption(fk.OnUpdate))
		}
		src.AddForeignKeys(afk)
	}
	return s, nil
}

func atlasType(c emit.ColumnSymbol) schema.Type {
	raw := strings.ToLower(c.SQLType)
	switch c.Type {
	case field.TypeText, field.TypeVarChar:
		return &schema.StringType{T: raw}
	case field.TypeInteger, field.TypeBigInt:
		return &schema.IntegerType{T: raw}
	case field.TypeFloat, field.TypeBigFloat:
		return &schema.FloatType{T: raw}
	case field.TypeBoolean:
		return &schema.BoolType{T: raw}
	case field.TypeDate, field.TypeDateTime:
		return &schema.TimeType{T: raw}
	case field.TypeJSONText, field.TypeJSONB:
		return &schema.JSONType{T: raw}
	case field.TypeUUID:
		return &schema.UUIDType{T: raw}
	default:
		return &schema.UnsupportedType{T: raw}
	}
}
