package dialect_test

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/dialect"
	"github.com/secret-point/sql-aide/schema/field"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sqlite", dialect.SQLite},
		{"", dialect.SQLite},
		{"ansi", dialect.ANSI},
		{"PostgreSQL", dialect.Postgres},
		{"pg", dialect.Postgres},
		{"mysql", dialect.MySQL},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.name, func(t *testing.T) {
			d, err := dialect.For(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}

	_, err := dialect.For("oracle")
	require.Error(t, err)
	assert.ErrorIs(t, err, sqla.ErrInvalidConfig)
}

func TestIdentifier(t *testing.T) {
	sqlite := dialect.NewSQLite()
	assert.Equal(t, `"publ_host"`, sqlite.Identifier(dialect.KindTable, "publ_host"))
	assert.Equal(t, `"we""ird"`, sqlite.Identifier(dialect.KindColumn, `we"ird`))

	t.Run("QuoteIfNeeded", func(t *testing.T) {
		tests := []struct {
			in, want string
		}{
			{"publ_host", "publ_host"},
			{"order", `"order"`},
			{"Order", `"Order"`},
			{"host type", `"host type"`},
			{"1st", `"1st"`},
			{"amount$", "amount$"},
		}
		for _, tt := range tests {
			got := sqlite.IdentifierWith(dialect.KindColumn, tt.in, dialect.QuoteOptions{Mode: dialect.QuoteIfNeeded})
			assert.Equal(t, tt.want, got, tt.in)
		}
	})

	t.Run("QuoteNever", func(t *testing.T) {
		got := sqlite.IdentifierWith(dialect.KindTable, "order", dialect.QuoteOptions{Mode: dialect.QuoteNever})
		assert.Equal(t, "order", got)
	})

	t.Run("MySQL", func(t *testing.T) {
		assert.Equal(t, "`host`", dialect.NewMySQL().Identifier(dialect.KindColumn, "host"))
	})

	t.Run("Postgres", func(t *testing.T) {
		assert.Equal(t, `"host"`, dialect.NewPostgres().Identifier(dialect.KindColumn, "host"))
	})

	t.Run("Transform", func(t *testing.T) {
		d := dialect.NewSQLite()
		d.Naming = dialect.StandardNaming{Quoter: d.Quoter, Keywords: d.Keywords, Transform: dialect.SnakeCase}
		assert.Equal(t, `"publ_host"`, d.Identifier(dialect.KindTable, "PublHost"))
	})

	t.Run("NamingFunc", func(t *testing.T) {
		d := dialect.NewSQLite()
		d.Naming = dialect.NamingFunc(func(kind dialect.Kind, logical string, _ dialect.QuoteOptions) string {
			return kind.String() + "_" + logical
		})
		assert.Equal(t, "view_v", d.Identifier(dialect.KindView, "v"))
	})
}

func TestLiteral(t *testing.T) {
	sqlite := dialect.NewSQLite()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "it's", "'it''s'"},
		{"raw", dialect.Raw("CURRENT_TIMESTAMP"), "CURRENT_TIMESTAMP"},
		{"true", true, "1"},
		{"false", false, "0"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint8", uint8(7), "7"},
		{"float", 1.5, "1.5"},
		{"bigfloat", big.NewFloat(2.25), "2.25"},
		{"floats", []float64{1, 2.5}, "'{1,2.5}'"},
		{"time", ts, "'2024-01-02T03:04:05.006Z'"},
		{"uuid", id, "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
		{"json", json.RawMessage(`{"a":1}`), `'{"a":1}'`},
		{"map", map[string]any{"a": "b"}, `'{"a":"b"}'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqlite.Literal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := sqlite.Literal(struct{}{})
	assert.Error(t, err)

	ansi := dialect.NewANSI()
	got, err := ansi.Literal(true)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", got)
}

func TestQuoters(t *testing.T) {
	assert.Equal(t, `E'a\\b'`, dialect.PostgresQuoter{}.QuoteLiteral(`a\b`))
	assert.Equal(t, `'a''b'`, dialect.PostgresQuoter{}.QuoteLiteral(`a'b`))
	assert.Equal(t, `"a""b"`, dialect.PostgresQuoter{}.QuoteIdentifier(`a"b`))
	assert.Equal(t, `'a\\b'`, dialect.BacktickQuoter{}.QuoteLiteral(`a\b`))
	assert.Equal(t, "`a``b`", dialect.BacktickQuoter{}.QuoteIdentifier("a`b"))
}

func TestTypeOverride(t *testing.T) {
	typ, ok := dialect.NewPostgres().TypeOverride(field.TypeJSONB)
	assert.True(t, ok)
	assert.Equal(t, "JSONB", typ)

	_, ok = dialect.NewSQLite().TypeOverride(field.TypeJSONB)
	assert.False(t, ok)

	assert.True(t, dialect.NewSQLite().IsKeyword("SELECT"))
	assert.False(t, dialect.NewSQLite().IsKeyword("publ_host"))
}
