package dialect

import (
	"strings"

	"github.com/secret-point/sql-aide/schema/field"

	sqla "github.com/secret-point/sql-aide"
)

// Dialect names.
const (
	SQLite   = "sqlite"
	ANSI     = "ansi"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// Dialect holds the emission settings of one database engine.
type Dialect struct {
	// Name is one of the dialect name constants.
	Name string

	// Quoter quotes identifiers and string literals.
	Quoter Quoter

	// Keywords holds reserved words in lower case. Identifiers equal to a
	// keyword are quoted in QuoteIfNeeded mode.
	Keywords map[string]bool

	// TypeOverrides replaces the default SQL type of a base type.
	TypeOverrides map[field.Type]string

	// AutoIncrementType replaces the column type of auto-increment keys
	// (e.g. SERIAL). Empty keeps the domain type.
	AutoIncrementType string

	// AutoIncrementKeyword follows PRIMARY KEY on auto-increment keys.
	AutoIncrementKeyword string

	// CreateView is the statement prefix for views.
	CreateView string

	// True and False are the boolean literals.
	True, False string

	// Naming overrides the default naming strategy.
	Naming Naming

	// QuoteMode is the identifier quoting mode used by Identifier.
	QuoteMode QuoteMode
}

// NewSQLite returns the SQLite dialect.
func NewSQLite() *Dialect {
	return &Dialect{
		Name:                 SQLite,
		Quoter:               ANSIQuoter{},
		Keywords:             keywords(),
		AutoIncrementKeyword: "AUTOINCREMENT",
		CreateView:           "CREATE VIEW IF NOT EXISTS",
		True:                 "1",
		False:                "0",
	}
}

// NewANSI returns a dialect close to SQL:2016 that renders like SQLite
// except for boolean literals.
func NewANSI() *Dialect {
	d := NewSQLite()
	d.Name = ANSI
	d.True, d.False = "TRUE", "FALSE"
	return d
}

// NewPostgres returns the PostgreSQL dialect.
func NewPostgres() *Dialect {
	return &Dialect{
		Name:     Postgres,
		Quoter:   PostgresQuoter{},
		Keywords: keywords("analyse", "analyze", "only", "returning", "verbose"),
		TypeOverrides: map[field.Type]string{
			field.TypeBigFloat:   "NUMERIC",
			field.TypeFloatArray: "DOUBLE PRECISION[]",
			field.TypeJSONB:      "JSONB",
			field.TypeUUID:       "UUID",
		},
		AutoIncrementType: "SERIAL",
		CreateView:        "CREATE OR REPLACE VIEW",
		True:              "TRUE",
		False:             "FALSE",
	}
}

// NewMySQL returns the MySQL dialect.
func NewMySQL() *Dialect {
	return &Dialect{
		Name:     MySQL,
		Quoter:   BacktickQuoter{},
		Keywords: keywords("database", "databases", "interval", "key", "keys", "rlike"),
		TypeOverrides: map[field.Type]string{
			field.TypeFloatArray: "JSON",
			field.TypeJSONText:   "JSON",
			field.TypeJSONB:      "JSON",
			field.TypeUUID:       "CHAR(36)",
		},
		AutoIncrementKeyword: "AUTO_INCREMENT",
		CreateView:           "CREATE OR REPLACE VIEW",
		True:                 "TRUE",
		False:                "FALSE",
	}
}

// For returns a fresh dialect by name.
func For(name string) (*Dialect, error) {
	switch strings.ToLower(name) {
	case SQLite, "sqlite3", "":
		return NewSQLite(), nil
	case ANSI:
		return NewANSI(), nil
	case Postgres, "postgresql", "pg":
		return NewPostgres(), nil
	case MySQL:
		return NewMySQL(), nil
	default:
		return nil, sqla.NewConfigError("dialect", name, "unsupported dialect; use sqlite, ansi, postgres or mysql")
	}
}

// Identifier returns the emitted identifier for a logical name using the
// dialect's naming strategy and quote mode.
func (d *Dialect) Identifier(kind Kind, name string) string {
	return d.IdentifierWith(kind, name, QuoteOptions{Mode: d.QuoteMode})
}

// IdentifierWith is like Identifier with explicit quote options.
func (d *Dialect) IdentifierWith(kind Kind, name string, opts QuoteOptions) string {
	return d.naming().Identifier(kind, name, opts)
}

func (d *Dialect) naming() Naming {
	if d.Naming != nil {
		return d.Naming
	}
	return StandardNaming{Quoter: d.Quoter, Keywords: d.Keywords}
}

// TypeOverride returns the dialect specific SQL type of a base type.
func (d *Dialect) TypeOverride(t field.Type) (string, bool) {
	s, ok := d.TypeOverrides[t]
	return s, ok
}

// IsKeyword reports if s is a reserved word of the dialect.
func (d *Dialect) IsKeyword(s string) bool {
	return d.Keywords[strings.ToLower(s)]
}

// common reserved words shared by every supported engine.
var reserved = []string{
	"add", "all", "alter", "and", "as", "asc", "between", "by", "case", "check",
	"column", "constraint", "create", "cross", "current_date", "current_time",
	"current_timestamp", "default", "delete", "desc", "distinct", "drop", "else",
	"end", "escape", "except", "exists", "foreign", "from", "full", "group",
	"having", "in", "index", "inner", "insert", "intersect", "into", "is", "join",
	"key", "left", "like", "limit", "natural", "not", "null", "offset", "on", "or",
	"order", "outer", "primary", "references", "right", "select", "set", "table",
	"then", "to", "union", "unique", "update", "user", "using", "values", "view",
	"when", "where", "with",
}

func keywords(extra ...string) map[string]bool {
	m := make(map[string]bool, len(reserved)+len(extra))
	for _, k := range reserved {
		m[k] = true
	}
	for _, k := range extra {
		m[k] = true
	}
	return m
}
