package dialect

import (
	"regexp"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
)

// Kind is the kind of object an identifier names.
type Kind uint8

// Identifier kinds.
const (
	KindTable Kind = iota
	KindView
	KindColumn
	KindDomain
	KindEnum
	KindRoutine
)

var kindNames = [...]string{
	KindTable:   "table",
	KindView:    "view",
	KindColumn:  "column",
	KindDomain:  "domain",
	KindEnum:    "enum",
	KindRoutine: "routine",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// QuoteMode controls when identifiers are quoted.
type QuoteMode uint8

// Quote modes.
const (
	QuoteAlways QuoteMode = iota
	QuoteIfNeeded
	QuoteNever
)

// QuoteOptions are passed to a Naming strategy.
type QuoteOptions struct {
	Mode QuoteMode
}

// Naming maps a logical name to an emitted identifier. Implementations must
// be deterministic and total over non-empty names.
type Naming interface {
	Identifier(kind Kind, logical string, opts QuoteOptions) string
}

// NamingFunc adapts a function to the Naming interface.
type NamingFunc func(kind Kind, logical string, opts QuoteOptions) string

// Identifier calls f(kind, logical, opts).
func (f NamingFunc) Identifier(kind Kind, logical string, opts QuoteOptions) string {
	return f(kind, logical, opts)
}

// plainIdentRe matches identifiers that never need quoting.
var plainIdentRe = regexp.MustCompile(`^[a-z_][a-z0-9_$]*$`)

// StandardNaming keeps logical names as they are, optionally transformed,
// and quotes them according to the quote mode.
type StandardNaming struct {
	Quoter    Quoter
	Keywords  map[string]bool
	Transform func(kind Kind, logical string) string
}

// Identifier implements Naming.
func (n StandardNaming) Identifier(kind Kind, logical string, opts QuoteOptions) string {
	name := logical
	if n.Transform != nil {
		name = n.Transform(kind, name)
	}
	switch opts.Mode {
	case QuoteNever:
		return name
	case QuoteIfNeeded:
		if !n.NeedsQuote(name) {
			return name
		}
	}
	q := n.Quoter
	if q == nil {
		q = ANSIQuoter{}
	}
	return q.QuoteIdentifier(name)
}

// NeedsQuote reports if name is a keyword, contains characters outside the
// plain identifier set, or would be case-folded by the engine.
func (n StandardNaming) NeedsQuote(name string) bool {
	folded := cases.Fold().String(name)
	if folded != name {
		return true
	}
	if n.Keywords[folded] {
		return true
	}
	return !plainIdentRe.MatchString(name)
}

// SnakeCase is a Transform turning CamelCase logical names into snake_case.
func SnakeCase(_ Kind, logical string) string {
	return inflect.Underscore(logical)
}
