package table

import (
	"github.com/secret-point/sql-aide/schema"
	"github.com/secret-point/sql-aide/schema/field"
)

// ForeignKey is the annotation of a column that references another table.
// Column defaults to the primary key of Target.
type ForeignKey struct {
	Target *Table
	Column string

	self       bool
	selfTarget *field.Descriptor
}

// Name implements schema.Annotation.
func (ForeignKey) Name() string { return "ForeignKey" }

var _ schema.Annotation = ForeignKey{}

func foreignKeyOf(desc *field.Descriptor) (ForeignKey, bool) {
	var (
		fk    ForeignKey
		found bool
	)
	for _, a := range desc.AllAnnotations() {
		switch a := a.(type) {
		case ForeignKey:
			fk, found = a, true
		case *ForeignKey:
			if a != nil {
				fk, found = *a, true
			}
		}
	}
	return fk, found
}

// References returns a descriptor for a column referencing the given column
// of t, or its primary key when column is empty. The descriptor copies the
// base type of the target, not its annotations, so the referencing column is
// required unless wrapped with Optional.
func (t *Table) References(column string) *field.Descriptor {
	if column == "" && t.pk != nil {
		column = t.pk.name
	}
	typ, size := field.TypeText, 0
	if c, ok := t.byName[column]; ok {
		typ, size = c.desc.Type(), c.desc.Size()
	}
	return baseOf(typ, size).Annotations(ForeignKey{Target: t, Column: column})
}

// SelfRef returns a descriptor for a column referencing another column of
// the table being defined, identified by its descriptor. When target is not
// a column of the table the primary key is used.
func SelfRef(target *field.Descriptor) *field.Descriptor {
	return baseOf(target.Type(), target.Size()).Annotations(ForeignKey{self: true, selfTarget: target})
}

func baseOf(t field.Type, size int) *field.Descriptor {
	if t == field.TypeVarChar {
		return field.VarChar(size)
	}
	return field.Of(t)
}
