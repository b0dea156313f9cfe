// Package lint implements the quality pass over generated SQL.
//
// Rules inspect a rendered fragment together with metadata about the entity
// that produced it and return diagnostics. Diagnostics never abort
// rendering; the emission context collects them in an Accumulator so that a
// summary can be placed anywhere in a script.
package lint

import (
	"fmt"
	"slices"
)

// Severity of a diagnostic.
type Severity uint8

// Severities.
const (
	Warning Severity = iota
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Origin tells which part of the pipeline raised a diagnostic.
type Origin uint8

// Origins.
const (
	// OriginSQLText marks problems found in generated SQL text.
	OriginSQLText Origin = iota
	// OriginTemplateEngine marks problems found while composing templates.
	OriginTemplateEngine
)

// String returns the origin name.
func (o Origin) String() string {
	if o == OriginTemplateEngine {
		return "template engine"
	}
	return "SQL"
}

// Diagnostic codes raised by sql-aide.
const (
	CodeWildcardSelect      = "wildcard-select"
	CodeMissingPrimaryKey   = "missing-primary-key"
	CodeMissingAuditColumns = "missing-audit-columns"
	CodePluralTableName     = "plural-table-name"
	CodeUndeclaredReference = "undeclared-reference"
	CodeUnsupportedPart     = "unsupported-template-part"
	CodeDuplicateDomain     = "duplicate-domain"
)

// Diagnostic is a non-fatal quality finding.
type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	Origin   Origin
	Subject  string // Entity the diagnostic is about
}

// String returns "[code] subject: message".
func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Subject, d.Message)
}

// EntityKind is the kind of entity a fragment was rendered from.
type EntityKind uint8

// Entity kinds.
const (
	KindStatement EntityKind = iota
	KindTable
	KindView
)

// Metadata describes the entity behind a fragment.
type Metadata struct {
	Kind        EntityKind
	Name        string
	Columns     []string
	PrimaryKeys []string
	Mutable     bool // rows may be updated
	Deletable   bool // rows may be soft deleted
}

// HasColumn reports if the entity declares the column.
func (m Metadata) HasColumn(name string) bool {
	return slices.Contains(m.Columns, name)
}

// Rule checks a rendered fragment.
type Rule interface {
	Check(fragment string, meta Metadata) []Diagnostic
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(fragment string, meta Metadata) []Diagnostic

// Check calls f(fragment, meta).
func (f RuleFunc) Check(fragment string, meta Metadata) []Diagnostic {
	return f(fragment, meta)
}

// Run applies rules in order and concatenates their diagnostics.
func Run(rules []Rule, fragment string, meta Metadata) []Diagnostic {
	var out []Diagnostic
	for _, r := range rules {
		out = append(out, r.Check(fragment, meta)...)
	}
	return out
}

// Accumulator collects diagnostics in the order they were raised.
type Accumulator struct {
	items []Diagnostic
}

// Add appends diagnostics.
func (a *Accumulator) Add(diags ...Diagnostic) {
	a.items = append(a.items, diags...)
}

// Len returns the number of collected diagnostics.
func (a *Accumulator) Len() int {
	return len(a.items)
}

// Diagnostics returns a copy of every collected diagnostic.
func (a *Accumulator) Diagnostics() []Diagnostic {
	return slices.Clone(a.items)
}

// ByOrigin returns the diagnostics raised by one origin.
func (a *Accumulator) ByOrigin(o Origin) []Diagnostic {
	var out []Diagnostic
	for _, d := range a.items {
		if d.Origin == o {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics raised by one origin.
func (a *Accumulator) Count(o Origin) int {
	n := 0
	for _, d := range a.items {
		if d.Origin == o {
			n++
		}
	}
	return n
}
