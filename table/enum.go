package table

import (
	"fmt"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/schema/field"
)

// Enum table column names.
const (
	EnumCodeColumn  = "code"
	EnumValueColumn = "value"
)

// EnumEntry is one row of an enumeration table.
type EnumEntry struct {
	Name  string // entry name used by Code
	Code  any    // int for ordinal enums, string for text enums
	Value string
}

// TextEntry returns a text enumeration entry whose code is its name.
func TextEntry(code, value string) EnumEntry {
	return EnumEntry{Name: code, Code: code, Value: value}
}

// EnumTable is a table seeded from a fixed list of entries.
type EnumTable struct {
	*Table
	entries []EnumEntry
	byName  map[string]EnumEntry
}

// NewOrdinalEnum returns an enumeration table with INTEGER codes assigned
// from the position of each name, starting at 0. Each name is stored as the
// value of its row.
func NewOrdinalEnum(name string, names []string, opts ...Option) (*EnumTable, error) {
	entries := make([]EnumEntry, len(names))
	for i, n := range names {
		entries[i] = EnumEntry{Name: n, Code: i, Value: n}
	}
	return newEnum(name, kindOrdinalEnum, field.Integer(), entries, opts)
}

// NewTextEnum returns an enumeration table with TEXT codes.
func NewTextEnum(name string, entries []EnumEntry, opts ...Option) (*EnumTable, error) {
	return newEnum(name, kindTextEnum, field.Text(), entries, opts)
}

func newEnum(name string, k kind, code *field.Descriptor, entries []EnumEntry, opts []Option) (*EnumTable, error) {
	if len(entries) == 0 {
		return nil, sqla.NewConstructionError(name, "", "enumeration has no entries", nil)
	}
	t, err := newTable(name, k, []ColumnSpec{
		Column(EnumCodeColumn, code.Annotations(PrimaryKey())),
		Column(EnumValueColumn, field.Text()),
		Column("created_at", CreatedAt()),
	}, opts)
	if err != nil {
		return nil, err
	}
	e := &EnumTable{Table: t, byName: make(map[string]EnumEntry, len(entries))}
	for _, entry := range entries {
		if _, ok := e.byName[entry.Name]; ok {
			return nil, sqla.NewConstructionError(name, "", fmt.Sprintf("duplicate entry %q", entry.Name), nil)
		}
		e.byName[entry.Name] = entry
		e.entries = append(e.entries, entry)
	}
	return e, nil
}

// Entries returns the entries in declaration order.
func (e *EnumTable) Entries() []EnumEntry {
	return append([]EnumEntry(nil), e.entries...)
}

// Ordinal reports if the codes are integers.
func (e *EnumTable) Ordinal() bool { return e.kind == kindOrdinalEnum }

// Code returns the code of a named entry.
func (e *EnumTable) Code(name string) (any, error) {
	entry, ok := e.byName[name]
	if !ok {
		return nil, sqla.NewConstructionError(e.name, EnumCodeColumn, fmt.Sprintf("unknown entry %q", name), nil)
	}
	return entry.Code, nil
}

// MustCode is like Code but panics on error.
func (e *EnumTable) MustCode(name string) any {
	code, err := e.Code(name)
	if err != nil {
		panic(err)
	}
	return code
}

// SeedDML returns one INSERT statement per entry, one per line.
func (e *EnumTable) SeedDML() emit.Supplier {
	lines := emit.Lines()
	for _, entry := range e.entries {
		lines.Append(e.InsertDML(Row{
			EnumCodeColumn:  entry.Code,
			EnumValueColumn: entry.Value,
		}))
	}
	return lines
}

// CreatedAt returns the descriptor of a creation timestamp column that
// defaults to CURRENT_TIMESTAMP and is left out of generated inserts.
func CreatedAt() *field.Descriptor {
	return field.DateTime().Default(dialect.Raw("CURRENT_TIMESTAMP")).Optional().Annotations(OmitFromInsert())
}
