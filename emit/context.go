package emit

import (
	"log/slog"
	"slices"

	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/lint"
)

// Context carries everything a render needs and everything it learns.
// One Context serves one top-level render and is not safe for concurrent use.
type Context struct {
	dialect   *dialect.Dialect
	quote     dialect.QuoteOptions
	naming    dialect.Naming
	rules     []lint.Rule
	persister Persister
	logger    *slog.Logger

	diags     lint.Accumulator
	tables    []TableSymbol
	tableIdx  map[string]int
	views     []ViewSymbol
	viewIdx   map[string]int
	domains   []string
	fks       []ForeignKey
	persisted []PersistRequest
}

// Option configures a Context.
type Option func(*Context)

// WithNaming overrides the naming strategy of the dialect.
func WithNaming(n dialect.Naming) Option {
	return func(c *Context) {
		c.naming = n
	}
}

// WithQuoteMode sets the identifier quoting mode.
func WithQuoteMode(m dialect.QuoteMode) Option {
	return func(c *Context) {
		c.quote.Mode = m
	}
}

// WithLintRules replaces the lint rules. Without arguments linting is off.
func WithLintRules(rules ...lint.Rule) Option {
	return func(c *Context) {
		c.rules = rules
	}
}

// WithPersister sets the persistence hook.
func WithPersister(p Persister) Option {
	return func(c *Context) {
		c.persister = p
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewContext returns a context for d, or for SQLite when d is nil.
func NewContext(d *dialect.Dialect, opts ...Option) *Context {
	if d == nil {
		d = dialect.NewSQLite()
	}
	c := &Context{
		dialect:  d,
		quote:    dialect.QuoteOptions{Mode: d.QuoteMode},
		rules:    lint.Defaults(),
		logger:   slog.Default(),
		tableIdx: make(map[string]int),
		viewIdx:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the target dialect.
func (c *Context) Dialect() *dialect.Dialect { return c.dialect }

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Identifier returns the emitted identifier for a logical name.
func (c *Context) Identifier(kind dialect.Kind, name string) string {
	if c.naming != nil {
		return c.naming.Identifier(kind, name, c.quote)
	}
	return c.dialect.IdentifierWith(kind, name, c.quote)
}

// Literal renders v as a SQL literal.
func (c *Context) Literal(v any) (string, error) {
	return c.dialect.Literal(v)
}

// Lint runs the lint rules over a fragment and records their diagnostics.
func (c *Context) Lint(fragment string, meta lint.Metadata) {
	diags := lint.Run(c.rules, fragment, meta)
	for i := range diags {
		diags[i].Origin = lint.OriginSQLText
	}
	c.Report(diags...)
}

// Report records diagnostics.
func (c *Context) Report(diags ...lint.Diagnostic) {
	for _, d := range diags {
		c.logger.Debug("lint issue", "code", d.Code, "subject", d.Subject, "origin", d.Origin.String())
	}
	c.diags.Add(diags...)
}

// Diagnostics returns every recorded diagnostic in order.
func (c *Context) Diagnostics() []lint.Diagnostic {
	return c.diags.Diagnostics()
}

// Issues returns the diagnostics raised by one origin.
func (c *Context) Issues(o lint.Origin) []lint.Diagnostic {
	return c.diags.ByOrigin(o)
}

// DeclareTable adds a table to the symbol table. Redeclaring a table
// replaces its columns but keeps its position.
func (c *Context) DeclareTable(t TableSymbol) {
	if i, ok := c.tableIdx[t.Name]; ok {
		c.tables[i] = t
		return
	}
	c.tableIdx[t.Name] = len(c.tables)
	c.tables = append(c.tables, t)
}

// Table returns a declared table.
func (c *Context) Table(name string) (TableSymbol, bool) {
	i, ok := c.tableIdx[name]
	if !ok {
		return TableSymbol{}, false
	}
	return c.tables[i], true
}

// Tables returns the declared tables in declaration order.
func (c *Context) Tables() []TableSymbol {
	return slices.Clone(c.tables)
}

// DeclareView adds a view to the symbol table.
func (c *Context) DeclareView(v ViewSymbol) {
	if i, ok := c.viewIdx[v.Name]; ok {
		c.views[i] = v
		return
	}
	c.viewIdx[v.Name] = len(c.views)
	c.views = append(c.views, v)
}

// Views returns the declared views in declaration order.
func (c *Context) Views() []ViewSymbol {
	return slices.Clone(c.views)
}

// DeclareDomain records a server-side domain. It returns false when the
// domain was already declared.
func (c *Context) DeclareDomain(name string) bool {
	if slices.Contains(c.domains, name) {
		return false
	}
	c.domains = append(c.domains, name)
	return true
}

// Domains returns the declared server-side domains.
func (c *Context) Domains() []string {
	return slices.Clone(c.domains)
}

// DeclareForeignKey adds an edge to the reference graph. Duplicate edges
// are ignored.
func (c *Context) DeclareForeignKey(fk ForeignKey) {
	if slices.Contains(c.fks, fk) {
		return
	}
	c.fks = append(c.fks, fk)
}

// ForeignKeys returns the reference graph edges in declaration order.
func (c *Context) ForeignKeys() []ForeignKey {
	return slices.Clone(c.fks)
}

// Persisted returns the persistence requests made so far.
func (c *Context) Persisted() []PersistRequest {
	return slices.Clone(c.persisted)
}
