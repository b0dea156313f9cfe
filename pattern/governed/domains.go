package governed

import (
	"github.com/secret-point/sql-aide/schema/field"
	"github.com/secret-point/sql-aide/table"
)

// Domains is the column vocabulary of governed tables. Every call returns a
// fresh descriptor; the Nullable variants accept NULL.
type Domains struct{}

// Text returns a required text column.
func (Domains) Text() *field.Descriptor { return field.Text() }

// TextNullable returns a text column that accepts NULL.
func (Domains) TextNullable() *field.Descriptor { return field.Text().Nullable() }

// VarChar returns a required VARCHAR(n) column.
func (Domains) VarChar(n int) *field.Descriptor { return field.VarChar(n) }

// VarCharNullable returns a VARCHAR(n) column that accepts NULL.
func (Domains) VarCharNullable(n int) *field.Descriptor { return field.VarChar(n).Nullable() }

// Integer returns a required integer column.
func (Domains) Integer() *field.Descriptor { return field.Integer() }

// IntegerNullable returns an integer column that accepts NULL.
func (Domains) IntegerNullable() *field.Descriptor { return field.Integer().Nullable() }

// BigInt returns a required 64-bit integer column.
func (Domains) BigInt() *field.Descriptor { return field.BigInt() }

// Float returns a required floating point column.
func (Domains) Float() *field.Descriptor { return field.Float() }

// FloatNullable returns a floating point column that accepts NULL.
func (Domains) FloatNullable() *field.Descriptor { return field.Float().Nullable() }

// BigFloat returns a required arbitrary precision number column.
func (Domains) BigFloat() *field.Descriptor { return field.BigFloat() }

// FloatArray returns a required array of floating point numbers.
func (Domains) FloatArray() *field.Descriptor { return field.FloatArray() }

// FloatArrayNullable returns an array of floating point numbers that accepts NULL.
func (Domains) FloatArrayNullable() *field.Descriptor { return field.FloatArray().Nullable() }

// Boolean returns a required boolean column.
func (Domains) Boolean() *field.Descriptor { return field.Boolean() }

// Date returns a required date column.
func (Domains) Date() *field.Descriptor { return field.Date() }

// DateTime returns a required timestamp column.
func (Domains) DateTime() *field.Descriptor { return field.DateTime() }

// DateTimeNullable returns a timestamp column that accepts NULL.
func (Domains) DateTimeNullable() *field.Descriptor { return field.DateTime().Nullable() }

// JSONText returns a required JSON column stored as text.
func (Domains) JSONText() *field.Descriptor { return field.JSONText() }

// JSONTextNullable returns a JSON text column that accepts NULL.
func (Domains) JSONTextNullable() *field.Descriptor { return field.JSONText().Nullable() }

// JSONB returns a required binary JSON column. Dialects without JSONB store text.
func (Domains) JSONB() *field.Descriptor { return field.JSONB() }

// JSONBNullable returns a binary JSON column that accepts NULL.
func (Domains) JSONBNullable() *field.Descriptor { return field.JSONB().Nullable() }

// UUID returns a required UUID column.
func (Domains) UUID() *field.Descriptor { return field.UUID() }

// UUIDNullable returns a UUID column that accepts NULL.
func (Domains) UUIDNullable() *field.Descriptor { return field.UUID().Nullable() }

// Unique adds a unique constraint to desc and returns it.
func (Domains) Unique(desc *field.Descriptor) *field.Descriptor {
	return desc.Annotations(table.Unique())
}

// SelfRef returns a column referencing target within the same table.
func (Domains) SelfRef(target *field.Descriptor) *field.Descriptor {
	return table.SelfRef(target)
}

// Keys are the primary keys allowed in governed tables.
type Keys struct{}

// TextPrimaryKey returns a required text primary key.
func (Keys) TextPrimaryKey() *field.Descriptor {
	return field.Text().Annotations(table.PrimaryKey())
}

// AutoIncPrimaryKey returns an auto-increment integer key. The key is
// optional: the database assigns it and inserts leave it out.
func (Keys) AutoIncPrimaryKey() *field.Descriptor {
	return field.Integer().Optional().Annotations(table.AutoIncrement())
}

// UUIDPrimaryKey returns a required UUID key. Inserts must supply it.
func (Keys) UUIDPrimaryKey() *field.Descriptor {
	return field.UUID().Annotations(table.PrimaryKey())
}

// Housekeeping is the bundle of columns appended to every governed table.
type Housekeeping struct {
	auditable bool
}

// Auditable reports if the bundle records updates and deletes.
func (h Housekeeping) Auditable() bool { return h.auditable }

// Columns returns fresh housekeeping columns.
func (h Housekeeping) Columns() []table.ColumnSpec {
	cols := []table.ColumnSpec{
		table.Column("created_at", table.CreatedAt()),
		table.Column("created_by", field.Text().Default("UNKNOWN").Optional()),
	}
	if !h.auditable {
		return cols
	}
	return append(cols,
		table.Column("updated_at", field.DateTime().Optional()),
		table.Column("updated_by", field.Text().Optional()),
		table.Column("deleted_at", field.DateTime().Optional()),
		table.Column("deleted_by", field.Text().Optional()),
		table.Column("activity_log", field.JSONText().Optional()),
	)
}

// With appends the housekeeping columns to columns.
func (h Housekeeping) With(columns ...table.ColumnSpec) []table.ColumnSpec {
	return append(columns, h.Columns()...)
}
