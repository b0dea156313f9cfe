package dialect

import (
	"strings"

	"github.com/lib/pq"
)

// Quoter quotes identifiers and string literals for one engine.
type Quoter interface {
	QuoteIdentifier(name string) string
	QuoteLiteral(s string) string
}

// ANSIQuoter uses double quoted identifiers and single quoted literals,
// doubling embedded quotes. SQLite follows it too.
type ANSIQuoter struct{}

// QuoteIdentifier implements Quoter.
func (ANSIQuoter) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral implements Quoter.
func (ANSIQuoter) QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// PostgresQuoter delegates to lib/pq. Literals containing backslashes use
// the E'...' form.
type PostgresQuoter struct{}

// QuoteIdentifier implements Quoter.
func (PostgresQuoter) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// QuoteLiteral implements Quoter.
func (PostgresQuoter) QuoteLiteral(s string) string {
	return strings.TrimLeft(pq.QuoteLiteral(s), " ")
}

// BacktickQuoter quotes identifiers with backticks and escapes backslashes
// in literals, as MySQL expects.
type BacktickQuoter struct{}

// QuoteIdentifier implements Quoter.
func (BacktickQuoter) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteLiteral implements Quoter.
func (BacktickQuoter) QuoteLiteral(s string) string {
	return "'" + escapeStringValue(s) + "'"
}

// escapeStringValue escapes both single quotes (by doubling) and backslashes.
func escapeStringValue(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}
