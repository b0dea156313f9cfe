package governed

import (
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/erd"
	"github.com/secret-point/sql-aide/lint"
)

// Lint summary labels.
const (
	SQLTextLintLabel        = "SQL lint issues"
	TemplateEngineLintLabel = "template engine lint issues"
)

// State creates emission contexts for a model and remembers the last one,
// so that the tables and views a render declared can be inspected after it.
type State struct {
	model     *Model
	dialect   *dialect.Dialect
	persister emit.Persister
	ctxOpts   []emit.Option
	last      *emit.Context
}

func newState(m *Model, cfg *config) *State {
	return &State{
		model:     m,
		dialect:   cfg.dialect,
		persister: cfg.persister,
		ctxOpts:   cfg.ctxOpts,
	}
}

// Context returns a new emission context.
func (s *State) Context(opts ...emit.Option) *emit.Context {
	all := []emit.Option{emit.WithLogger(s.model.logger)}
	if s.persister != nil {
		all = append(all, emit.WithPersister(s.persister))
	}
	all = append(all, s.ctxOpts...)
	s.last = emit.NewContext(s.dialect, append(all, opts...)...)
	return s.last
}

// Render renders a script in a new context.
func (s *State) Render(script emit.Supplier, opts ...emit.Option) (string, *emit.Context, error) {
	ctx := s.Context(opts...)
	out, err := emit.Render(ctx, script)
	return out, ctx, err
}

// TablesDeclared returns the tables declared in the last context.
func (s *State) TablesDeclared() []emit.TableSymbol {
	if s.last == nil {
		return nil
	}
	return s.last.Tables()
}

// ViewsDeclared returns the views declared in the last context.
func (s *State) ViewsDeclared() []emit.ViewSymbol {
	if s.last == nil {
		return nil
	}
	return s.last.Views()
}

// PersistSQL requests that the rendered fragment of sup is persisted under tag.
func (s *State) PersistSQL(sup emit.Supplier, tag string) emit.Supplier {
	return emit.Persist(sup, tag)
}

// SQLTextLintSummary summarizes the issues found in generated SQL text.
func (s *State) SQLTextLintSummary() emit.Supplier {
	return emit.LintSummary(lint.OriginSQLText, SQLTextLintLabel)
}

// TemplateEngineLintSummary summarizes the issues found while composing
// templates.
func (s *State) TemplateEngineLintSummary() emit.Supplier {
	return emit.LintSummary(lint.OriginTemplateEngine, TemplateEngineLintLabel)
}

// PumlERD returns the PlantUML diagram of what ctx declared.
func (s *State) PumlERD(ctx *emit.Context, opts ...erd.Option) (string, error) {
	return erd.PlantUML(ctx, opts...)
}
