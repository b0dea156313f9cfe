// Package emit is the template emission engine.
//
// A script is a tree of Suppliers. Rendering walks the tree depth-first,
// left to right, in a single pass. After each supplier renders, the symbols
// it declares (tables, views, foreign keys) and the issues it reports are
// merged into the Context before its siblings render, so later parts can
// see what earlier parts declared.
//
//	ctx := emit.NewContext(dialect.NewSQLite())
//	sql, err := emit.Render(ctx, emit.Statements(
//	    emit.LintSummary(lint.OriginSQLText, "SQL lint issues"),
//	    hostType,
//	    publHost,
//	))
//
// Parts that implement Deferrer render after their non-deferred siblings
// but keep their position, which lets a lint summary sit at the top of a
// script and still see every issue below it.
package emit

import "github.com/secret-point/sql-aide/dialect"

// Supplier renders a SQL fragment.
type Supplier interface {
	SQL(*Context) (string, error)
}

// SupplierFunc adapts a function to the Supplier interface.
type SupplierFunc func(*Context) (string, error)

// SQL calls f(ctx).
func (f SupplierFunc) SQL(ctx *Context) (string, error) {
	return f(ctx)
}

// Declarer is implemented by suppliers that add symbols to the context
// after they render.
type Declarer interface {
	DeclareSymbols(*Context) error
}

// IssueReporter is implemented by suppliers that lint their own output.
// It runs after DeclareSymbols.
type IssueReporter interface {
	ReportIssues(ctx *Context, rendered string)
}

// Deferrer is implemented by parts that render after their siblings.
type Deferrer interface {
	Deferred() bool
}

// Persister receives fragments for which a persistence request was made.
type Persister interface {
	Persist(fragment, tag string) error
}

// Render renders s and runs its declaration and issue hooks.
func Render(ctx *Context, s Supplier) (string, error) {
	text, err := s.SQL(ctx)
	if err != nil {
		return "", err
	}
	if d, ok := s.(Declarer); ok {
		if err := d.DeclareSymbols(ctx); err != nil {
			return "", err
		}
	}
	if r, ok := s.(IssueReporter); ok {
		r.ReportIssues(ctx, text)
	}
	return text, nil
}

// Ident renders the identifier of a logical name.
func Ident(kind dialect.Kind, name string) Supplier {
	return SupplierFunc(func(ctx *Context) (string, error) {
		return ctx.Identifier(kind, name), nil
	})
}

// Literal renders a value as a SQL literal.
func Literal(v any) Supplier {
	return SupplierFunc(func(ctx *Context) (string, error) {
		return ctx.Literal(v)
	})
}
