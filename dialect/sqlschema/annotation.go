// Package sqlschema provides SQL-specific annotations for field descriptors.
//
// Import this package as:
//
//	import "github.com/secret-point/sql-aide/dialect/sqlschema"
//
// # API Styles
//
// Functional style:
//
//	sqlschema.Unique()
//	sqlschema.ColumnType("JSONB")
//	sqlschema.DefaultExpr("CURRENT_TIMESTAMP")
//
// Struct literal style:
//
//	sqlschema.Annotation{
//	    PrimaryKey: true,
//	    ColumnType: "SERIAL",
//	}
//
// Annotations attached to several layers of one descriptor are merged;
// outer layers win for scalar settings.
//
// # Cascade Actions
//
// Available constants for OnDelete and OnUpdate:
//
//	sqlschema.Cascade    - Delete/update related rows
//	sqlschema.SetNull    - Set foreign key to NULL
//	sqlschema.Restrict   - Prevent delete/update if related rows exist
//	sqlschema.SetDefault - Set foreign key to default value
//	sqlschema.NoAction   - No action (database default)
package sqlschema

import (
	"github.com/secret-point/sql-aide/schema"
)

// AnnotationName is the name used for SQL annotations.
const AnnotationName = "sql"

// CascadeAction defines cascade behavior for foreign key constraints.
type CascadeAction string

const (
	Cascade    CascadeAction = "CASCADE"
	SetNull    CascadeAction = "SET NULL"
	Restrict   CascadeAction = "RESTRICT"
	SetDefault CascadeAction = "SET DEFAULT"
	NoAction   CascadeAction = "NO ACTION"
)

// Annotation holds SQL-specific settings for a column.
type Annotation struct {
	// PrimaryKey marks the column as the primary key of its table.
	PrimaryKey bool

	// Incremental indicates whether the column has auto-increment behavior.
	Incremental *bool

	// Unique adds an inline marker and a table level UNIQUE constraint.
	Unique bool

	// OmitFromInsert drops the column from generated INSERT statements when
	// no value is supplied for it.
	OmitFromInsert bool

	// Size overrides the column size (e.g., VARCHAR(Size)).
	Size int64

	// ColumnType sets a custom database column type.
	ColumnType string

	// Check adds a CHECK constraint expression after the column definitions.
	Check string

	// Default is a SQL literal default value, quoted by the dialect.
	Default string

	// DefaultExpr is a SQL expression for the default value, used verbatim.
	DefaultExpr string

	// Definition replaces the whole column definition.
	Definition string

	// OnDelete sets the ON DELETE cascade action of a foreign key column.
	OnDelete CascadeAction

	// OnUpdate sets the ON UPDATE cascade action of a foreign key column.
	OnUpdate CascadeAction

	// Comment is attached to the column in diagram and schema exports.
	Comment string
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements the schema.Merger interface.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	var ant Annotation
	switch other := other.(type) {
	case Annotation:
		ant = other
	case *Annotation:
		if other != nil {
			ant = *other
		}
	default:
		return a
	}
	a.PrimaryKey = a.PrimaryKey || ant.PrimaryKey
	a.Unique = a.Unique || ant.Unique
	a.OmitFromInsert = a.OmitFromInsert || ant.OmitFromInsert
	if ant.Incremental != nil {
		a.Incremental = ant.Incremental
	}
	if ant.Size != 0 {
		a.Size = ant.Size
	}
	if ant.ColumnType != "" {
		a.ColumnType = ant.ColumnType
	}
	if ant.Check != "" {
		a.Check = ant.Check
	}
	if ant.Default != "" {
		a.Default = ant.Default
	}
	if ant.DefaultExpr != "" {
		a.DefaultExpr = ant.DefaultExpr
	}
	if ant.Definition != "" {
		a.Definition = ant.Definition
	}
	if ant.OnDelete != "" {
		a.OnDelete = ant.OnDelete
	}
	if ant.OnUpdate != "" {
		a.OnUpdate = ant.OnUpdate
	}
	if ant.Comment != "" {
		a.Comment = ant.Comment
	}
	return a
}

// IsIncremental reports if the column auto-increments.
func (a Annotation) IsIncremental() bool {
	return a.Incremental != nil && *a.Incremental
}

// Ensure Annotation implements schema.Annotation and schema.Merger.
var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = Annotation{}
)

// From merges every sqlschema annotation found in annotations.
func From(annotations []schema.Annotation) Annotation {
	var a Annotation
	for _, ant := range annotations {
		if ant == nil || ant.Name() != AnnotationName {
			continue
		}
		a = a.Merge(ant).(Annotation)
	}
	return a
}

// PrimaryKey marks the column as the primary key.
func PrimaryKey() Annotation {
	return Annotation{PrimaryKey: true}
}

// AutoIncrement marks the column as an auto-incrementing primary key.
//
//	field.Integer().Optional().Annotations(sqlschema.AutoIncrement())
func AutoIncrement() Annotation {
	incremental := true
	return Annotation{PrimaryKey: true, Incremental: &incremental, OmitFromInsert: true}
}

// Unique marks the column as unique.
func Unique() Annotation {
	return Annotation{Unique: true}
}

// OmitFromInsert drops the column from INSERT statements when no value is given.
func OmitFromInsert() Annotation {
	return Annotation{OmitFromInsert: true}
}

// Size sets the column size override.
//
//	field.VarChar(10).Annotations(sqlschema.Size(32))
func Size(size int64) Annotation {
	return Annotation{Size: size}
}

// ColumnType sets a custom column type.
//
//	field.JSONText().Annotations(sqlschema.ColumnType("JSONB"))
func ColumnType(t string) Annotation {
	return Annotation{ColumnType: t}
}

// Check adds a CHECK constraint.
//
//	field.Integer().Annotations(sqlschema.Check("listen_port > 0"))
func Check(expr string) Annotation {
	return Annotation{Check: expr}
}

// Default sets a literal default value.
func Default(value string) Annotation {
	return Annotation{Default: value}
}

// DefaultExpr sets a default expression rendered verbatim.
//
//	field.DateTime().Optional().Annotations(sqlschema.DefaultExpr("CURRENT_TIMESTAMP"))
func DefaultExpr(expr string) Annotation {
	return Annotation{DefaultExpr: expr}
}

// Definition replaces the whole column definition.
func Definition(sql string) Annotation {
	return Annotation{Definition: sql}
}

// OnDelete sets the ON DELETE action of a foreign key column.
func OnDelete(action CascadeAction) Annotation {
	return Annotation{OnDelete: action}
}

// OnUpdate sets the ON UPDATE action of a foreign key column.
func OnUpdate(action CascadeAction) Annotation {
	return Annotation{OnUpdate: action}
}

// Comment sets the column comment.
func Comment(text string) Annotation {
	return Annotation{Comment: text}
}
