package load_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/load"
	"github.com/secret-point/sql-aide/pattern/governed"
	"github.com/secret-point/sql-aide/persist"
)

const inventory = `
name: inventory
enums:
  - name: item_kind
    values: [tool, part]
  - name: unit
    entries:
      - {code: kg, value: Kilogram}
tables:
  - name: warehouse
    persist: warehouse.sql
    columns:
      - {name: warehouse_id, type: integer, auto_increment: true}
      - {name: label, unique: true}
      - {name: parent_warehouse_id, self_ref: warehouse_id, optional: true, on_delete: set_null}
    rows:
      - {label: main}
  - name: item
    columns:
      - {name: item_id, primary_key: true}
      - {name: item_kind_code, references: item_kind}
      - {name: unit_code, references: unit.code}
      - {name: warehouse_id, references: warehouse, optional: true}
      - {name: weight, type: float, default: 0}
      - {name: sku, type: varchar, size: 12, check: "length(sku) > 3"}
views:
  - name: item_vw
    columns: [item_id, weight]
    body: SELECT item_id, weight FROM item
`

const inventorySQL = `-- inventory: generated by sqlaide. DO NOT EDIT.

-- no SQL lint issues

CREATE TABLE IF NOT EXISTS "item_kind" (
    "code" INTEGER PRIMARY KEY NOT NULL,
    "value" TEXT NOT NULL,
    "created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS "unit" (
    "code" TEXT PRIMARY KEY NOT NULL,
    "value" TEXT NOT NULL,
    "created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS "warehouse" (
    "warehouse_id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "label" TEXT /* UNIQUE COLUMN */ NOT NULL,
    "parent_warehouse_id" INTEGER,
    "created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    "created_by" TEXT DEFAULT 'UNKNOWN',
    FOREIGN KEY("parent_warehouse_id") REFERENCES "warehouse"("warehouse_id") ON DELETE SET NULL,
    UNIQUE("label")
);
-- encountered persistence request for 1_warehouse.sql

CREATE TABLE IF NOT EXISTS "item" (
    "item_id" TEXT PRIMARY KEY NOT NULL,
    "item_kind_code" INTEGER NOT NULL,
    "unit_code" TEXT NOT NULL,
    "warehouse_id" INTEGER,
    "weight" REAL NOT NULL DEFAULT 0,
    "sku" VARCHAR(12) NOT NULL,
    "created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    "created_by" TEXT DEFAULT 'UNKNOWN',
    FOREIGN KEY("item_kind_code") REFERENCES "item_kind"("code"),
    FOREIGN KEY("unit_code") REFERENCES "unit"("code"),
    FOREIGN KEY("warehouse_id") REFERENCES "warehouse"("warehouse_id"),
    CHECK(length(sku) > 3)
);

CREATE VIEW IF NOT EXISTS "item_vw"("item_id", "weight") AS
    SELECT item_id, weight FROM item;

INSERT INTO "item_kind" ("code", "value") VALUES (0, 'tool');
INSERT INTO "item_kind" ("code", "value") VALUES (1, 'part');

INSERT INTO "unit" ("code", "value") VALUES ('kg', 'Kilogram');

INSERT INTO "warehouse" ("label", "parent_warehouse_id", "created_by") VALUES ('main', NULL, NULL);

-- no template engine lint issues`

func TestBuild(t *testing.T) {
	spec, err := load.Parse([]byte(inventory))
	require.NoError(t, err)
	assert.Equal(t, load.HousekeepingTypical, spec.Housekeeping)
	assert.Equal(t, "text", spec.Tables[0].Columns[1].Type)

	mem := persist.NewMemory()
	s, err := spec.Build(governed.WithPersister(mem))
	require.NoError(t, err)
	require.Len(t, s.Enums, 2)
	require.Len(t, s.Tables, 2)
	require.Len(t, s.Views, 1)
	assert.False(t, s.Validation.HasErrors())

	state := s.Model.State()
	out, ctx, err := state.Render(s.Script)
	require.NoError(t, err)
	assert.Equal(t, inventorySQL, out)
	assert.Empty(t, ctx.Diagnostics())
	assert.Len(t, state.TablesDeclared(), 4)
	require.Len(t, mem.Requests(), 1)
	assert.Equal(t, "1_warehouse.sql", mem.Requests()[0].Tag)

	puml, err := state.PumlERD(ctx)
	require.NoError(t, err)
	assert.Contains(t, puml, "  unit |o..o{ item\n  warehouse |o..o{ item\n@enduml")
	assert.NotContains(t, puml, "item_kind |o..o{ item")
}

func TestBuildAuditablePostgres(t *testing.T) {
	spec, err := load.Parse([]byte(`
name: ledger
dialect: postgres
housekeeping: auditable
domains:
  - {name: money, type: bigfloat, idempotent: true}
tables:
  - name: account
    mutable: true
    deletable: true
    columns:
      - {name: account_id, type: uuid, primary_key: true}
      - {name: balance, type: bigfloat}
`))
	require.NoError(t, err)
	s, err := spec.Build()
	require.NoError(t, err)
	require.Len(t, s.Domains, 1)

	out, ctx, err := s.Model.State().Render(s.Script)
	require.NoError(t, err)
	assert.Empty(t, ctx.Diagnostics())
	assert.Contains(t, out, `BEGIN CREATE DOMAIN "money" AS NUMERIC; EXCEPTION WHEN DUPLICATE_OBJECT THEN /* ignore error without warning */ END;`)
	assert.Contains(t, out, `"account_id" UUID PRIMARY KEY NOT NULL,`)
	assert.Contains(t, out, `"activity_log" TEXT`)
	assert.Equal(t, []string{"money"}, ctx.Domains())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"UnknownKey", "name: x\ntables: []\ncolour: red\n"},
		{"NoName", "tables: []\n"},
		{"Housekeeping", "name: x\nhousekeeping: none\n"},
		{"EnumKind", "name: x\nenums:\n  - {name: e}\n"},
		{"DuplicateName", "name: x\nenums:\n  - {name: e, values: [a]}\ntables:\n  - {name: e, columns: [{name: e_id, primary_key: true}]}\n"},
		{"NoColumns", "name: x\ntables:\n  - {name: t}\n"},
		{"RefAndSelf", "name: x\ntables:\n  - {name: t, columns: [{name: a, references: u, self_ref: b}]}\n"},
		{"EmptyView", "name: x\nviews:\n  - {name: v, columns: [a]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"NoPrimaryKey", "name: x\ntables:\n  - {name: t, columns: [{name: a}]}\n", sqla.ErrInvalidConfig},
		{"UnknownType", "name: x\ntables:\n  - {name: t, columns: [{name: t_id, type: blob, primary_key: true}]}\n", sqla.ErrInvalidConfig},
		{"VarCharSize", "name: x\ntables:\n  - {name: t, columns: [{name: t_id, type: varchar, primary_key: true}]}\n", sqla.ErrInvalidConfig},
		{"ForwardReference", "name: x\ntables:\n  - {name: t, columns: [{name: t_id, primary_key: true}, {name: u_id, references: u}]}\n  - {name: u, columns: [{name: u_id, primary_key: true}]}\n", sqla.ErrInvalidConfig},
		{"BadColumnReference", "name: x\ntables:\n  - {name: u, columns: [{name: u_id, primary_key: true}, {name: label}]}\n  - {name: t, columns: [{name: t_id, primary_key: true}, {name: u_label, references: u.label}]}\n", sqla.ErrInvalidReference},
		{"Cascade", "name: x\ntables:\n  - {name: t, columns: [{name: t_id, primary_key: true}, {name: p_id, self_ref: t_id, optional: true, on_delete: explode}]}\n", sqla.ErrInvalidConfig},
		{"DomainsOutsidePostgres", "name: x\ndomains:\n  - {name: d, type: text}\ntables: []\n", sqla.ErrInvalidConfig},
		{"Dialect", "name: x\ndialect: oracle\ntables: []\n", sqla.ErrInvalidConfig},
		{"AutoIncKeyType", "name: x\ntables:\n  - {name: t, columns: [{name: t_id, type: integer, primary_key: true}]}\n", sqla.ErrConstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := load.Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = spec.Build()
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestExampleDocument(t *testing.T) {
	spec, err := load.File(filepath.Join("..", "examples", "fleet.yaml"))
	require.NoError(t, err)
	s, err := spec.Build()
	require.NoError(t, err)
	assert.Empty(t, s.Validation.Errors)

	out, ctx, err := s.Model.State().Render(s.Script)
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE DOMAIN "host_name" AS VARCHAR(253)`)
	assert.Contains(t, out, `INSERT INTO "build_event_type" ("code", "value") VALUES ('deploy', 'Deploy');`)
	assert.Contains(t, out, "-- encountered persistence request for 1_publ-host.sql")
	assert.Contains(t, out, `CREATE OR REPLACE VIEW "publ_host_vw"("host", "host_type_code") AS`)
	assert.Equal(t, []string{"host_name"}, ctx.Domains())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(inventory), 0o644))
	spec, err := load.File(path)
	require.NoError(t, err)
	assert.Equal(t, "inventory", spec.Name)

	_, err = load.File(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
