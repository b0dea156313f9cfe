// Package erd derives entity relationship diagrams from the symbol table of
// a rendered emission context.
package erd

import (
	"fmt"
	"strings"

	"github.com/secret-point/sql-aide/emit"
)

const pumlHeader = `@startuml IE
  hide circle
  skinparam linetype ortho
  skinparam roundcorner 20
  skinparam class {
    BackgroundColor White
    ArrowColor Silver
    BorderColor Silver
    FontColor Black
    FontSize 12
  }`

type config struct {
	lookups bool
	enums   bool
	hidden  map[string]bool
}

// Option configures diagram derivation.
type Option func(*config)

// WithLookupRelations draws references to ordinal enumeration tables,
// which are left out by default.
func WithLookupRelations() Option {
	return func(c *config) {
		c.lookups = true
	}
}

// WithoutEnums leaves enumeration tables and every relation to them out.
func WithoutEnums() Option {
	return func(c *config) {
		c.enums = false
	}
}

// WithHiddenColumns leaves the named columns out of every entity.
func WithHiddenColumns(names ...string) Option {
	return func(c *config) {
		for _, n := range names {
			c.hidden[n] = true
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{enums: true, hidden: make(map[string]bool)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlantUML returns an Information Engineering diagram of the tables and
// foreign keys declared in ctx, in declaration order.
func PlantUML(ctx *emit.Context, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	parts := []string{pumlHeader}
	skipped := make(map[string]bool)
	for _, t := range ctx.Tables() {
		if t.Enum && !cfg.enums {
			skipped[t.Name] = true
			continue
		}
		parts = append(parts, entity(t, cfg))
	}
	var relations []string
	for _, fk := range ctx.ForeignKeys() {
		if fk.Lookup && !cfg.lookups || skipped[fk.Table] || skipped[fk.RefTable] {
			continue
		}
		if _, ok := ctx.Table(fk.RefTable); !ok {
			return "", fmt.Errorf("erd: %s.%s references undeclared table %s", fk.Table, fk.Column, fk.RefTable)
		}
		relations = append(relations, fmt.Sprintf("  %s |o..o{ %s", fk.RefTable, fk.Table))
	}
	if len(relations) > 0 {
		parts = append(parts, strings.Join(relations, "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n@enduml", nil
}

func entity(t emit.TableSymbol, cfg *config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  entity %q as %s {\n", t.Name, t.Name)
	pk := t.PrimaryKey()
	for _, c := range pk {
		fmt.Fprintf(&b, "    %s**%s**: %s\n", requiredMark(c), c.Name, c.DiagramType)
	}
	if len(pk) > 0 {
		b.WriteString("    --\n")
	}
	for _, c := range t.Columns {
		if c.PrimaryKey || cfg.hidden[c.Name] {
			continue
		}
		fmt.Fprintf(&b, "    %s%s: %s\n", requiredMark(c), c.Name, c.DiagramType)
	}
	b.WriteString("  }")
	return b.String()
}

func requiredMark(c emit.ColumnSymbol) string {
	if c.Required {
		return "* "
	}
	return "  "
}
