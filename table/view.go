package table

import (
	"fmt"
	"strings"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/lint"
)

// View is a named query with an explicit column list.
type View struct {
	name    string
	columns []string
	body    any
}

// NewView returns a view. body is a string or an emit.Supplier.
func NewView(name string, columns []string, body any) (*View, error) {
	if name == "" {
		return nil, sqla.NewConstructionError("", "", "view name cannot be empty", nil)
	}
	if len(columns) == 0 {
		return nil, sqla.NewConstructionError(name, "", "view requires an explicit column list", nil)
	}
	switch body.(type) {
	case string, emit.Supplier:
	default:
		return nil, sqla.NewConstructionError(name, "", fmt.Sprintf("unsupported view body of type %T", body), nil)
	}
	return &View{name: name, columns: append([]string(nil), columns...), body: body}, nil
}

// Name returns the logical view name.
func (v *View) Name() string { return v.name }

// Columns returns the declared columns.
func (v *View) Columns() []string { return append([]string(nil), v.columns...) }

// SQL implements emit.Supplier.
func (v *View) SQL(ctx *emit.Context) (string, error) {
	var body string
	switch b := v.body.(type) {
	case string:
		body = b
	case emit.Supplier:
		text, err := emit.Render(ctx, b)
		if err != nil {
			return "", sqla.NewConstructionError(v.name, "", "render view body", err)
		}
		body = text
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	return fmt.Sprintf("%s %s(%s) AS\n    %s;",
		ctx.Dialect().CreateView,
		ctx.Identifier(dialect.KindView, v.name),
		identList(ctx, v.columns),
		strings.ReplaceAll(body, "\n", "\n    "),
	), nil
}

// DeclareSymbols implements emit.Declarer.
func (v *View) DeclareSymbols(ctx *emit.Context) error {
	ctx.DeclareView(emit.ViewSymbol{Name: v.name, Columns: v.Columns()})
	return nil
}

// ReportIssues implements emit.IssueReporter.
func (v *View) ReportIssues(ctx *emit.Context, rendered string) {
	ctx.Lint(rendered, lint.Metadata{Kind: lint.KindView, Name: v.name, Columns: v.Columns()})
}
