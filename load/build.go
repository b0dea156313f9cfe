package load

import (
	"fmt"
	"strings"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/dialect/postgres"
	"github.com/secret-point/sql-aide/dialect/sqlschema"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/pattern/governed"
	"github.com/secret-point/sql-aide/schema"
	"github.com/secret-point/sql-aide/schema/field"
	"github.com/secret-point/sql-aide/table"
)

// Schema is a built schema document.
type Schema struct {
	Spec       *Spec
	Model      *governed.Model
	Domains    []*postgres.DomainDefinition
	Enums      []*table.EnumTable
	Tables     []*table.Table
	Views      []*table.View
	Validation *table.ValidationResult

	// Script renders domains, enumerations, tables and views in
	// declaration order, then the seed rows, between the two lint summaries.
	Script *emit.Template
}

// Build constructs the governed model and entities of s. Options are
// applied after the dialect and housekeeping of the document.
func (s *Spec) Build(opts ...governed.Option) (*Schema, error) {
	d, err := dialect.For(s.Dialect)
	if err != nil {
		return nil, err
	}
	if len(s.Domains) > 0 && d.Name != dialect.Postgres {
		return nil, sqla.NewConfigError("domains", d.Name, "server-side domains require the postgres dialect")
	}
	opts = append([]governed.Option{governed.WithDialect(d)}, opts...)
	ctor := governed.Typical
	if s.Housekeeping == HousekeepingAuditable {
		ctor = governed.Auditable
	}
	gm, err := ctor(opts...)
	if err != nil {
		return nil, err
	}
	b := &builder{
		spec:   s,
		out:    &Schema{Spec: s, Model: gm},
		tables: make(map[string]*table.Table),
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	all := make([]*table.Table, 0, len(b.out.Enums)+len(b.out.Tables))
	for _, e := range b.out.Enums {
		all = append(all, e.Table)
	}
	b.out.Validation = table.ValidateSchema(append(all, b.out.Tables...))
	if err := b.out.Validation.Err(); err != nil {
		return nil, fmt.Errorf("load: schema %s: %w", s.Name, err)
	}
	b.out.Script = b.script()
	return b.out, nil
}

type builder struct {
	spec   *Spec
	out    *Schema
	tables map[string]*table.Table
}

func (b *builder) build() error {
	gm := b.out.Model
	if len(b.spec.Domains) > 0 {
		pg := postgres.New(gm.Registry())
		for _, ds := range b.spec.Domains {
			desc, err := baseDescriptor(ds.Type, ds.Size)
			if err != nil {
				return fmt.Errorf("domain %s: %w", ds.Name, err)
			}
			var opts []postgres.Option
			if ds.Idempotent {
				opts = append(opts, postgres.Idempotent())
			}
			def, err := pg.DomainDefinition(desc, ds.Name, opts...)
			if err != nil {
				return err
			}
			b.out.Domains = append(b.out.Domains, def)
		}
	}
	for _, es := range b.spec.Enums {
		var (
			e   *table.EnumTable
			err error
		)
		if len(es.Values) > 0 {
			e, err = gm.OrdinalEnumTable(es.Name, es.Values)
		} else {
			entries := make([]table.EnumEntry, len(es.Entries))
			for i, en := range es.Entries {
				entries[i] = table.TextEntry(en.Code, en.Value)
			}
			e, err = gm.TextEnumTable(es.Name, entries)
		}
		if err != nil {
			return err
		}
		b.out.Enums = append(b.out.Enums, e)
		b.tables[es.Name] = e.Table
	}
	for _, ts := range b.spec.Tables {
		t, err := b.table(ts)
		if err != nil {
			return err
		}
		b.out.Tables = append(b.out.Tables, t)
		b.tables[ts.Name] = t
	}
	for _, vs := range b.spec.Views {
		v, err := gm.SafeView(vs.Name, vs.Columns, strings.TrimSpace(vs.Body))
		if err != nil {
			return err
		}
		b.out.Views = append(b.out.Views, v)
	}
	return nil
}

func (b *builder) table(ts TableSpec) (*table.Table, error) {
	gm := b.out.Model
	var (
		columns = make([]table.ColumnSpec, 0, len(ts.Columns))
		local   = make(map[string]*field.Descriptor, len(ts.Columns))
		factory func(string, []table.ColumnSpec, ...table.Option) (*table.Table, error)
	)
	for _, cs := range ts.Columns {
		desc, err := b.column(cs, local)
		if err != nil {
			return nil, fmt.Errorf("table %s: column %s: %w", ts.Name, cs.Name, err)
		}
		local[cs.Name] = desc
		columns = append(columns, table.Column(cs.Name, desc))
		switch {
		case cs.AutoIncrement:
			factory = gm.AutoIncPkTable
		case cs.PrimaryKey && desc.Type() == field.TypeUUID:
			factory = gm.UUIDPkTable
		case cs.PrimaryKey:
			factory = gm.TextPkTable
		}
	}
	if factory == nil {
		return nil, sqla.NewConfigError("table", ts.Name, "governed tables require a primary key column")
	}
	var opts []table.Option
	if ts.Mutable {
		opts = append(opts, table.Mutable())
	}
	if ts.Deletable {
		opts = append(opts, table.Deletable())
	}
	return factory(ts.Name, gm.Housekeeping.With(columns...), opts...)
}

func (b *builder) column(cs ColumnSpec, local map[string]*field.Descriptor) (*field.Descriptor, error) {
	var (
		desc *field.Descriptor
		err  error
	)
	switch {
	case cs.References != "":
		name, column, _ := strings.Cut(cs.References, ".")
		target, ok := b.tables[name]
		if !ok {
			return nil, sqla.NewConfigError("references", cs.References, "unknown table; declare it before the tables referencing it")
		}
		desc = target.References(column)
	case cs.SelfRef != "":
		target, ok := local[cs.SelfRef]
		if !ok {
			return nil, sqla.NewConfigError("self_ref", cs.SelfRef, "unknown column; declare it first")
		}
		desc = table.SelfRef(target)
	default:
		if desc, err = baseDescriptor(cs.Type, cs.Size); err != nil {
			return nil, err
		}
	}
	var anns []schema.Annotation
	switch {
	case cs.AutoIncrement:
		anns = append(anns, sqlschema.AutoIncrement())
	case cs.PrimaryKey:
		anns = append(anns, sqlschema.PrimaryKey())
	}
	if cs.Unique {
		anns = append(anns, sqlschema.Unique())
	}
	if cs.Check != "" {
		anns = append(anns, sqlschema.Check(cs.Check))
	}
	if cs.Comment != "" {
		anns = append(anns, sqlschema.Comment(cs.Comment))
	}
	if cs.DefaultExpr != "" {
		anns = append(anns, sqlschema.DefaultExpr(cs.DefaultExpr))
	}
	for _, ca := range []struct {
		option, value string
		annotate      func(sqlschema.CascadeAction) sqlschema.Annotation
	}{
		{"on_delete", cs.OnDelete, sqlschema.OnDelete},
		{"on_update", cs.OnUpdate, sqlschema.OnUpdate},
	} {
		if ca.value == "" {
			continue
		}
		action, err := cascade(ca.option, ca.value)
		if err != nil {
			return nil, err
		}
		anns = append(anns, ca.annotate(action))
	}
	if len(anns) > 0 {
		desc = desc.Annotations(anns...)
	}
	if cs.Default != nil {
		desc = desc.Default(cs.Default)
	}
	if cs.Optional || cs.AutoIncrement {
		desc = desc.Optional()
	}
	return desc, nil
}

func baseDescriptor(name string, size int) (*field.Descriptor, error) {
	typ, ok := field.ParseType(strings.ToLower(name))
	if !ok {
		return nil, sqla.NewConfigError("type", name, "unknown column type")
	}
	if typ == field.TypeVarChar {
		if size <= 0 {
			return nil, sqla.NewConfigError("size", size, "varchar columns need a positive size")
		}
		return field.VarChar(size), nil
	}
	return field.Of(typ), nil
}

func cascade(option, value string) (sqlschema.CascadeAction, error) {
	action := sqlschema.CascadeAction(strings.ToUpper(strings.ReplaceAll(value, "_", " ")))
	switch action {
	case sqlschema.Cascade, sqlschema.SetNull, sqlschema.Restrict, sqlschema.SetDefault, sqlschema.NoAction:
		return action, nil
	default:
		return "", sqla.NewConfigError(option, value, "use cascade, set_null, restrict, set_default or no_action")
	}
}

func (b *builder) script() *emit.Template {
	state := b.out.Model.State()
	script := emit.Statements(
		fmt.Sprintf("-- %s: generated by sqlaide. DO NOT EDIT.", b.spec.Name),
		state.SQLTextLintSummary(),
	)
	for _, d := range b.out.Domains {
		script.Append(emit.Concat(d, ";"))
	}
	for _, e := range b.out.Enums {
		script.Append(e)
	}
	for i, t := range b.out.Tables {
		if tag := b.spec.Tables[i].Persist; tag != "" {
			script.Append(emit.Lines(t, state.PersistSQL(t, tag)))
			continue
		}
		script.Append(t)
	}
	for _, v := range b.out.Views {
		script.Append(v)
	}
	for _, e := range b.out.Enums {
		script.Append(e.SeedDML())
	}
	for i, t := range b.out.Tables {
		for _, row := range b.spec.Tables[i].Rows {
			script.Append(t.InsertDML(row))
		}
	}
	return script.Append(state.TemplateEngineLintSummary())
}
