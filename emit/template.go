package emit

import (
	"fmt"
	"strings"

	"github.com/secret-point/sql-aide/lint"
)

// Template is an ordered list of parts joined by a separator. Parts are
// strings, Suppliers (including nested Templates) or nil, which is skipped.
type Template struct {
	sep   string
	parts []any
}

// New returns a template joining parts with sep.
func New(sep string, parts ...any) *Template {
	return &Template{sep: sep, parts: parts}
}

// Statements joins parts with a blank line.
func Statements(parts ...any) *Template {
	return New("\n\n", parts...)
}

// Lines joins parts with a newline.
func Lines(parts ...any) *Template {
	return New("\n", parts...)
}

// Concat joins parts without a separator.
func Concat(parts ...any) *Template {
	return New("", parts...)
}

// Append adds parts and returns t.
func (t *Template) Append(parts ...any) *Template {
	t.parts = append(t.parts, parts...)
	return t
}

// Len returns the number of parts.
func (t *Template) Len() int {
	return len(t.parts)
}

// SQL implements Supplier.
func (t *Template) SQL(ctx *Context) (string, error) {
	var (
		out      = make([]string, 0, len(t.parts))
		deferred = make(map[int]Supplier)
	)
	for _, p := range t.parts {
		if p == nil {
			continue
		}
		if d, ok := p.(Deferrer); ok && d.Deferred() {
			if s, ok := p.(Supplier); ok {
				deferred[len(out)] = s
				out = append(out, "")
				continue
			}
		}
		text, err := renderPart(ctx, p)
		if err != nil {
			return "", err
		}
		out = append(out, text)
	}
	for i := range out {
		s, ok := deferred[i]
		if !ok {
			continue
		}
		text, err := Render(ctx, s)
		if err != nil {
			return "", err
		}
		out[i] = text
	}
	return strings.Join(out, t.sep), nil
}

func renderPart(ctx *Context, p any) (string, error) {
	switch p := p.(type) {
	case string:
		return p, nil
	case Supplier:
		return Render(ctx, p)
	default:
		ctx.Report(lint.Diagnostic{
			Code:    lint.CodeUnsupportedPart,
			Message: fmt.Sprintf("template part of type %T is not a SQL supplier", p),
			Origin:  lint.OriginTemplateEngine,
		})
		return fmt.Sprint(p), nil
	}
}
