// Package dialect describes the SQL dialects sql-aide can emit.
//
// A Dialect bundles everything that varies between database engines at
// emission time: identifier quoting, literal quoting, reserved keywords,
// type overrides and auto-increment syntax.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.SQLite   = "sqlite"
//	dialect.ANSI     = "ansi"
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//
// and created with For or one of the constructors:
//
//	d, err := dialect.For(dialect.Postgres)
//	d := dialect.NewSQLite()
//
// # Naming
//
// Identifiers are produced by a Naming strategy, a pure mapping from
// (kind, logical name, quote options) to the emitted identifier:
//
//	d.Identifier(dialect.KindTable, "publ_host") // `"publ_host"`
//	d.IdentifierWith(dialect.KindTable, "publ_host",
//		dialect.QuoteOptions{Mode: dialect.QuoteIfNeeded}) // `publ_host`
//
// # Sub-packages
//
//   - dialect/sqlschema: SQL annotations for field descriptors
//   - dialect/postgres: PostgreSQL CREATE DOMAIN support
package dialect
