// Package table builds typed entities (tables, enumeration tables and views)
// that render their own DDL and DML, declare themselves in the emission
// context and lint their output.
//
//	host, err := table.New("publ_host", []table.ColumnSpec{
//	    table.Column("publ_host_id", field.Text().Annotations(table.PrimaryKey())),
//	    table.Column("host", field.Text().Annotations(table.Unique())),
//	    table.Column("host_type_code", hostType.References("code")),
//	})
package table

import (
	"fmt"
	"log/slog"
	"strings"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/dialect/sqlschema"
	"github.com/secret-point/sql-aide/domain"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/lint"
	"github.com/secret-point/sql-aide/schema/field"
)

type kind uint8

const (
	kindPlain kind = iota
	kindOrdinalEnum
	kindTextEnum
)

// ColumnSpec pairs a column name with its descriptor.
type ColumnSpec struct {
	Name string
	Desc *field.Descriptor
}

// Column pairs a column name with its descriptor.
func Column(name string, desc *field.Descriptor) ColumnSpec {
	return ColumnSpec{Name: name, Desc: desc}
}

type column struct {
	name string
	desc *field.Descriptor
	dom  *domain.Domain
	ref  *reference
}

// reference is a resolved foreign key.
type reference struct {
	target *Table
	table  string
	kind   dialect.Kind
	column string
	lookup bool
	self   bool
}

type config struct {
	registry  *domain.Registry
	logger    *slog.Logger
	mutable   bool
	deletable bool
}

// Option configures a table.
type Option func(*config) error

// WithRegistry sets the domain registry used to resolve columns.
func WithRegistry(r *domain.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return sqla.NewConfigError("Registry", nil, "registry cannot be nil")
		}
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return sqla.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// Mutable marks the rows of the table as updatable.
func Mutable() Option {
	return func(c *config) error {
		c.mutable = true
		return nil
	}
}

// Deletable marks the rows of the table as soft deletable.
func Deletable() Option {
	return func(c *config) error {
		c.deletable = true
		return nil
	}
}

// Table is a typed table definition.
type Table struct {
	name    string
	kind    kind
	columns []*column
	byName  map[string]*column
	pk      *column
	cfg     config
}

// New returns a table with the given columns in order.
func New(name string, columns []ColumnSpec, opts ...Option) (*Table, error) {
	return newTable(name, kindPlain, columns, opts)
}

// MustNew is like New but panics on error.
func MustNew(name string, columns []ColumnSpec, opts ...Option) *Table {
	t, err := New(name, columns, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func newTable(name string, k kind, columns []ColumnSpec, opts []Option) (*Table, error) {
	if name == "" {
		return nil, sqla.NewConstructionError("", "", "table name cannot be empty", nil)
	}
	cfg := config{registry: domain.Default, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	t := &Table{
		name:   name,
		kind:   k,
		byName: make(map[string]*column, len(columns)),
		cfg:    cfg,
	}
	for _, spec := range columns {
		if spec.Name == "" {
			return nil, sqla.NewConstructionError(name, "", "column name cannot be empty", nil)
		}
		if spec.Desc == nil {
			return nil, sqla.NewConstructionError(name, spec.Name, "missing column descriptor", nil)
		}
		if _, ok := t.byName[spec.Name]; ok {
			return nil, sqla.NewConstructionError(name, spec.Name, "duplicate column", nil)
		}
		dom, err := cfg.registry.ResolveCached(spec.Desc, domain.WithIdentity(spec.Name))
		if err != nil {
			return nil, sqla.NewConstructionError(name, spec.Name, "resolve domain", err)
		}
		c := &column{name: spec.Name, desc: spec.Desc, dom: dom}
		if dom.IsPrimaryKey() {
			if t.pk != nil {
				return nil, sqla.NewConstructionError(name, spec.Name, fmt.Sprintf("second primary key (already %s)", t.pk.name), nil)
			}
			t.pk = c
		}
		t.columns = append(t.columns, c)
		t.byName[c.name] = c
	}
	for _, c := range t.columns {
		ref, err := t.resolveReference(c)
		if err != nil {
			return nil, err
		}
		c.ref = ref
	}
	cfg.logger.Debug("table defined", "table", name, "columns", len(t.columns))
	return t, nil
}

func (t *Table) resolveReference(c *column) (*reference, error) {
	fk, ok := foreignKeyOf(c.desc)
	if !ok {
		return nil, nil
	}
	if fk.self {
		target := t.pk
		for _, other := range t.columns {
			if other.desc == fk.selfTarget {
				target = other
				break
			}
		}
		if target == nil || target == c {
			return nil, sqla.NewReferenceError(t.name, c.name, t.name, "", "self reference has no target column")
		}
		if !target.dom.IsPrimaryKey() && !target.dom.IsUnique() {
			return nil, sqla.NewReferenceError(t.name, c.name, t.name, target.name, "target is neither primary key nor unique")
		}
		return &reference{table: t.name, kind: t.identKind(), column: target.name, self: true}, nil
	}
	if fk.Target == nil {
		return nil, sqla.NewReferenceError(t.name, c.name, "", fk.Column, "missing target table")
	}
	col := fk.Column
	if col == "" {
		if fk.Target.pk == nil {
			return nil, sqla.NewReferenceError(t.name, c.name, fk.Target.name, "", "target table has no primary key")
		}
		col = fk.Target.pk.name
	}
	target, ok := fk.Target.byName[col]
	if !ok {
		return nil, sqla.NewReferenceError(t.name, c.name, fk.Target.name, col, "unknown target column")
	}
	if !target.dom.IsPrimaryKey() && !target.dom.IsUnique() {
		return nil, sqla.NewReferenceError(t.name, c.name, fk.Target.name, col, "target is neither primary key nor unique")
	}
	return &reference{
		target: fk.Target,
		table:  fk.Target.name,
		kind:   fk.Target.identKind(),
		column: col,
		lookup: fk.Target.kind == kindOrdinalEnum,
	}, nil
}

// Name returns the logical table name.
func (t *Table) Name() string { return t.name }

// identKind is the identifier kind of the table name: enumeration tables
// are named with dialect.KindEnum.
func (t *Table) identKind() dialect.Kind {
	if t.kind == kindPlain {
		return dialect.KindTable
	}
	return dialect.KindEnum
}

// Ident renders the table identifier.
func (t *Table) Ident() emit.Supplier {
	return emit.Ident(t.identKind(), t.name)
}

// ColumnIdent renders the identifier of a column.
func (t *Table) ColumnIdent(name string) emit.Supplier {
	return emit.Ident(dialect.KindColumn, name)
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// ColumnList renders the comma separated identifiers of every column.
func (t *Table) ColumnList() emit.Supplier {
	return emit.SupplierFunc(func(ctx *emit.Context) (string, error) {
		return identList(ctx, t.ColumnNames()), nil
	})
}

// Domain returns the domain of a column.
func (t *Table) Domain(name string) (*domain.Domain, bool) {
	c, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return c.dom, true
}

// PrimaryKey returns the primary key column name.
func (t *Table) PrimaryKey() (string, bool) {
	if t.pk == nil {
		return "", false
	}
	return t.pk.name, true
}

// IsEnum reports if the table is an enumeration table.
func (t *Table) IsEnum() bool { return t.kind != kindPlain }

// SQL implements emit.Supplier.
func (t *Table) SQL(ctx *emit.Context) (string, error) {
	lines := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		def, err := c.dom.ColumnDefinition(ctx)
		if err != nil {
			return "", sqla.NewConstructionError(t.name, c.name, "render column", err)
		}
		lines = append(lines, def)
	}
	for _, c := range t.columns {
		if c.ref == nil {
			continue
		}
		fk := fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s)",
			ctx.Identifier(dialect.KindColumn, c.name),
			ctx.Identifier(c.ref.kind, c.ref.table),
			ctx.Identifier(dialect.KindColumn, c.ref.column),
		)
		ann := c.dom.Annotation()
		if ann.OnDelete != "" {
			fk += " ON DELETE " + string(ann.OnDelete)
		}
		if ann.OnUpdate != "" {
			fk += " ON UPDATE " + string(ann.OnUpdate)
		}
		lines = append(lines, fk)
	}
	for _, c := range t.columns {
		deco, err := c.dom.Decorations(ctx, domain.SiteAfterAllColumns)
		if err != nil {
			return "", sqla.NewConstructionError(t.name, c.name, "render constraints", err)
		}
		lines = append(lines, deco...)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n);",
		ctx.Identifier(t.identKind(), t.name),
		strings.Join(lines, ",\n    "),
	), nil
}

// DeclareSymbols implements emit.Declarer.
func (t *Table) DeclareSymbols(ctx *emit.Context) error {
	sym := emit.TableSymbol{Name: t.name, Enum: t.IsEnum()}
	for _, c := range t.columns {
		cs, err := columnSymbol(ctx, c)
		if err != nil {
			return sqla.NewConstructionError(t.name, c.name, "declare column", err)
		}
		sym.Columns = append(sym.Columns, cs)
	}
	ctx.DeclareTable(sym)
	for _, c := range t.columns {
		if c.ref == nil {
			continue
		}
		ann := c.dom.Annotation()
		ctx.DeclareForeignKey(emit.ForeignKey{
			Table:     t.name,
			Column:    c.name,
			RefTable:  c.ref.table,
			RefColumn: c.ref.column,
			OnDelete:  string(ann.OnDelete),
			OnUpdate:  string(ann.OnUpdate),
			Lookup:    c.ref.lookup,
		})
	}
	return nil
}

func columnSymbol(ctx *emit.Context, c *column) (emit.ColumnSymbol, error) {
	sqlType, err := c.dom.SQLType(ctx, domain.PurposeCreateTableColumn)
	if err != nil {
		return emit.ColumnSymbol{}, err
	}
	diagramType, err := c.dom.SQLType(ctx, domain.PurposeDiagram)
	if err != nil {
		return emit.ColumnSymbol{}, err
	}
	return emit.ColumnSymbol{
		Name:          c.name,
		Type:          c.dom.Type(),
		SQLType:       sqlType,
		DiagramType:   diagramType,
		Nullable:      c.dom.IsNullable(),
		Required:      !c.dom.IsNullable(),
		PrimaryKey:    c.dom.IsPrimaryKey(),
		AutoIncrement: c.dom.IsAutoIncrement(),
		Unique:        c.dom.IsUnique(),
		Comment:       c.dom.Annotation().Comment,
	}, nil
}

// ReportIssues implements emit.IssueReporter.
func (t *Table) ReportIssues(ctx *emit.Context, rendered string) {
	ctx.Lint(rendered, t.metadata())
	for _, c := range t.columns {
		if c.ref == nil || c.ref.self {
			continue
		}
		if _, ok := ctx.Table(c.ref.table); ok {
			continue
		}
		ctx.Report(lint.Diagnostic{
			Code:    lint.CodeUndeclaredReference,
			Message: fmt.Sprintf("column %s references %s.%s before it is declared", c.name, c.ref.table, c.ref.column),
			Origin:  lint.OriginTemplateEngine,
			Subject: t.name,
		})
	}
}

func (t *Table) metadata() lint.Metadata {
	meta := lint.Metadata{
		Kind:      lint.KindTable,
		Name:      t.name,
		Columns:   t.ColumnNames(),
		Mutable:   t.cfg.mutable,
		Deletable: t.cfg.deletable,
	}
	if t.pk != nil {
		meta.PrimaryKeys = []string{t.pk.name}
	}
	return meta
}

func identList(ctx *emit.Context, names []string) string {
	idents := make([]string, len(names))
	for i, n := range names {
		idents[i] = ctx.Identifier(dialect.KindColumn, n)
	}
	return strings.Join(idents, ", ")
}

// Column traits, re-exported for table definitions.
var (
	PrimaryKey     = sqlschema.PrimaryKey
	AutoIncrement  = sqlschema.AutoIncrement
	Unique         = sqlschema.Unique
	OmitFromInsert = sqlschema.OmitFromInsert
)
