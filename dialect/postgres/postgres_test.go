package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secret-point/sql-aide/dialect/postgres"
	"github.com/secret-point/sql-aide/domain"
	"github.com/secret-point/sql-aide/emit"
	"github.com/secret-point/sql-aide/lint"
	"github.com/secret-point/sql-aide/schema/field"
	"github.com/secret-point/sql-aide/table"
)

func warn(name string, _ *emit.Context) string {
	return "domain " + name + " already exists"
}

func TestDomainDefinition(t *testing.T) {
	tests := []struct {
		name string
		opts []postgres.Option
		want string
	}{
		{
			name: "Plain",
			want: "CREATE DOMAIN \"email_address\" AS TEXT",
		},
		{
			name: "Idempotent",
			opts: []postgres.Option{postgres.Idempotent()},
			want: "BEGIN CREATE DOMAIN \"email_address\" AS TEXT; EXCEPTION WHEN DUPLICATE_OBJECT THEN /* ignore error without warning */ END",
		},
		{
			name: "IdempotentIndented",
			opts: []postgres.Option{postgres.Idempotent(), postgres.Indent("  ")},
			want: "BEGIN\n" +
				"  CREATE DOMAIN \"email_address\" AS TEXT;\n" +
				"EXCEPTION\n" +
				"  WHEN DUPLICATE_OBJECT THEN -- ignore error without warning\n" +
				"END",
		},
		{
			name: "Warning",
			opts: []postgres.Option{postgres.WarnOnDuplicate(warn)},
			want: "BEGIN CREATE DOMAIN \"email_address\" AS TEXT; EXCEPTION WHEN DUPLICATE_OBJECT THEN RAISE NOTICE 'domain email_address already exists'; END",
		},
		{
			name: "WarningIndented",
			opts: []postgres.Option{postgres.WarnOnDuplicate(warn), postgres.Indent("  ")},
			want: "BEGIN\n" +
				"  CREATE DOMAIN \"email_address\" AS TEXT;\n" +
				"EXCEPTION\n" +
				"  WHEN DUPLICATE_OBJECT THEN\n" +
				"    RAISE NOTICE 'domain email_address already exists';\n" +
				"END",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := postgres.New(domain.NewRegistry())
			def, err := pg.DomainDefinition(field.Text(), "email_address", tt.opts...)
			require.NoError(t, err)
			ctx := emit.NewContext(pg.Dialect)
			out, err := emit.Render(ctx, def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, []string{"email_address"}, ctx.Domains())
		})
	}
}

func TestDomainTypes(t *testing.T) {
	pg := postgres.New(domain.NewRegistry())
	tests := []struct {
		name string
		desc *field.Descriptor
		want string
	}{
		{"payload", field.JSONB(), `CREATE DOMAIN "payload" AS JSONB`},
		{"external_id", field.UUID(), `CREATE DOMAIN "external_id" AS UUID`},
		{"amount", field.BigFloat(), `CREATE DOMAIN "amount" AS NUMERIC`},
		{"short_code", field.VarChar(64), `CREATE DOMAIN "short_code" AS VARCHAR(64)`},
		{"samples", field.FloatArray(), `CREATE DOMAIN "samples" AS DOUBLE PRECISION[]`},
	}
	for _, tt := range tests {
		def, err := pg.DomainDefinition(tt.desc, tt.name)
		require.NoError(t, err)
		out, err := emit.Render(emit.NewContext(pg.Dialect), def)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out)
	}

	_, err := pg.DomainDefinition(field.Bytes(), "blob")
	assert.Error(t, err)
}

func TestDuplicateDomain(t *testing.T) {
	pg := postgres.New(domain.NewRegistry())
	ctx := emit.NewContext(pg.Dialect)

	plain, err := pg.DomainDefinition(field.Integer(), "quantity")
	require.NoError(t, err)
	_, err = emit.Render(ctx, emit.Statements(plain, plain))
	require.NoError(t, err)
	diags := ctx.Issues(lint.OriginTemplateEngine)
	require.Len(t, diags, 1)
	assert.Equal(t, lint.CodeDuplicateDomain, diags[0].Code)

	ctx = emit.NewContext(pg.Dialect)
	safe, err := pg.DomainDefinition(field.Integer(), "quantity", postgres.Idempotent())
	require.NoError(t, err)
	_, err = emit.Render(ctx, emit.Statements(safe, safe))
	require.NoError(t, err)
	assert.Empty(t, ctx.Diagnostics())
}

func TestSerial(t *testing.T) {
	pg := postgres.New()
	ticket, err := table.New("ticket", []table.ColumnSpec{
		table.Column("ticket_id", field.Integer().Optional().Annotations(table.AutoIncrement())),
		table.Column("sequence_no", postgres.Serial()),
		table.Column("batch_no", postgres.SerialNullable()),
	}, table.WithRegistry(domain.NewRegistry()))
	require.NoError(t, err)
	out, err := emit.Render(emit.NewContext(pg.Dialect), ticket)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "ticket" (
    "ticket_id" SERIAL PRIMARY KEY,
    "sequence_no" SERIAL NOT NULL,
    "batch_no" SERIAL
);`, out)
}
