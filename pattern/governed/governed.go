// Package governed is an opinionated information model: a domain façade,
// standard primary keys, housekeeping columns and table factories that
// enforce the governance rules below, plus the state needed to render and
// diagram a script built from them.
//
//   - tables are in third normal form and named with singular nouns
//   - each table has a <table>_id primary key
//   - each table has created_at and created_by housekeeping columns
//   - mutable tables have updated_at, deletable tables have deleted_at
//   - views wrap business logic and list their columns explicitly
package governed

import (
	"fmt"
	"log/slog"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/domain"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/schema/field"
	"github.com/secret-point/sql-aide/table"
)

// Model is a governed information model.
type Model struct {
	Domains      Domains
	Keys         Keys
	Housekeeping Housekeeping

	registry *domain.Registry
	logger   *slog.Logger
	state    *State
}

type config struct {
	dialect   *dialect.Dialect
	registry  *domain.Registry
	logger    *slog.Logger
	persister emit.Persister
	ctxOpts   []emit.Option
}

// Option configures a Model.
type Option func(*config) error

// WithDialect sets the dialect of the contexts created by the model state.
func WithDialect(d *dialect.Dialect) Option {
	return func(c *config) error {
		if d == nil {
			return sqla.NewConfigError("Dialect", nil, "dialect cannot be nil")
		}
		c.dialect = d
		return nil
	}
}

// WithRegistry sets the domain registry.
func WithRegistry(r *domain.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return sqla.NewConfigError("Registry", nil, "registry cannot be nil")
		}
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return sqla.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// WithPersister sets the persistence hook of the contexts created by the
// model state.
func WithPersister(p emit.Persister) Option {
	return func(c *config) error {
		c.persister = p
		return nil
	}
}

// WithContextOptions adds options to every context created by the model
// state.
func WithContextOptions(opts ...emit.Option) Option {
	return func(c *config) error {
		c.ctxOpts = append(c.ctxOpts, opts...)
		return nil
	}
}

// Typical returns a model whose housekeeping columns record creation only.
func Typical(opts ...Option) (*Model, error) {
	return newModel(false, opts)
}

// Auditable returns a model whose housekeeping columns also record updates,
// soft deletes and an activity log.
func Auditable(opts ...Option) (*Model, error) {
	return newModel(true, opts)
}

func newModel(auditable bool, opts []Option) (*Model, error) {
	cfg := &config{dialect: dialect.NewSQLite(), logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.registry == nil {
		cfg.registry = domain.NewRegistry(domain.WithLogger(cfg.logger))
	}
	m := &Model{
		Housekeeping: Housekeeping{auditable: auditable},
		registry:     cfg.registry,
		logger:       cfg.logger,
	}
	m.state = newState(m, cfg)
	return m, nil
}

// State returns the template state of the model.
func (m *Model) State() *State { return m.state }

// Registry returns the domain registry of the model.
func (m *Model) Registry() *domain.Registry { return m.registry }

func (m *Model) tableOptions(opts []table.Option) []table.Option {
	return append([]table.Option{table.WithRegistry(m.registry), table.WithLogger(m.logger)}, opts...)
}

// TextPkTable returns a table whose primary key is a text column.
func (m *Model) TextPkTable(name string, columns []table.ColumnSpec, opts ...table.Option) (*table.Table, error) {
	t, err := table.New(name, columns, m.tableOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return t, m.checkKey(t, func(d *domain.Domain) bool { return d.Type() == field.TypeText || d.Type() == field.TypeVarChar })
}

// AutoIncPkTable returns a table whose primary key is an auto-increment
// integer.
func (m *Model) AutoIncPkTable(name string, columns []table.ColumnSpec, opts ...table.Option) (*table.Table, error) {
	t, err := table.New(name, columns, m.tableOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return t, m.checkKey(t, (*domain.Domain).IsAutoIncrement)
}

// UUIDPkTable returns a table whose primary key is a UUID.
func (m *Model) UUIDPkTable(name string, columns []table.ColumnSpec, opts ...table.Option) (*table.Table, error) {
	t, err := table.New(name, columns, m.tableOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return t, m.checkKey(t, func(d *domain.Domain) bool { return d.Type() == field.TypeUUID })
}

func (m *Model) checkKey(t *table.Table, ok func(*domain.Domain) bool) error {
	pk, found := t.PrimaryKey()
	if !found {
		return sqla.NewConstructionError(t.Name(), "", "governed tables require a primary key", nil)
	}
	d, _ := t.Domain(pk)
	if !ok(d) {
		return sqla.NewConstructionError(t.Name(), pk, fmt.Sprintf("unexpected primary key domain %s", d.Descriptor()), nil)
	}
	return nil
}

// OrdinalEnumTable returns an enumeration table with INTEGER codes.
func (m *Model) OrdinalEnumTable(name string, names []string, opts ...table.Option) (*table.EnumTable, error) {
	return table.NewOrdinalEnum(name, names, m.tableOptions(opts)...)
}

// TextEnumTable returns an enumeration table with TEXT codes.
func (m *Model) TextEnumTable(name string, entries []table.EnumEntry, opts ...table.Option) (*table.EnumTable, error) {
	return table.NewTextEnum(name, entries, m.tableOptions(opts)...)
}

// SafeView returns a view with an explicit column list.
func (m *Model) SafeView(name string, columns []string, body any) (*table.View, error) {
	return table.NewView(name, columns, body)
}
