package emit

import "github.com/secret-point/sql-aide/schema/field"

// ColumnSymbol is what the symbol table knows about a declared column.
type ColumnSymbol struct {
	Name          string
	Type          field.Type
	SQLType       string // type as emitted in CREATE TABLE
	DiagramType   string // type as shown in diagrams
	Nullable      bool
	Required      bool // emitted with NOT NULL
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Comment       string
}

// TableSymbol is a declared table.
type TableSymbol struct {
	Name    string
	Columns []ColumnSymbol
	Enum    bool
}

// Column returns the named column.
func (t TableSymbol) Column(name string) (ColumnSymbol, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSymbol{}, false
}

// PrimaryKey returns the primary key columns in declaration order.
func (t TableSymbol) PrimaryKey() []ColumnSymbol {
	var pk []ColumnSymbol
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// ViewSymbol is a declared view.
type ViewSymbol struct {
	Name    string
	Columns []string
}

// ForeignKey is an edge of the reference graph.
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
	OnUpdate  string
	// Lookup marks references to ordinal enumeration tables. Diagrams leave
	// them out by default.
	Lookup bool
}

// SelfReference reports if the key points back at its own table.
func (fk ForeignKey) SelfReference() bool {
	return fk.Table == fk.RefTable
}

// PersistRequest records a fragment handed to the persistence hook.
type PersistRequest struct {
	Index      int
	Tag        string
	IndexedTag string
	Fragment   string
}
