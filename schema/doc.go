// Package schema provides the building blocks for describing relational
// models with sql-aide.
//
// Models are described with typed field descriptors from the [field]
// package. Descriptors carry annotations, such as the SQL-specific ones from
// the dialect/sqlschema package, which the domain registry reads when it turns
// a descriptor into a SQL domain:
//
//	field.Text().Annotations(sqlschema.Unique())
//	field.DateTime().Optional().Annotations(sqlschema.DefaultExpr("CURRENT_TIMESTAMP"))
//	field.VarChar(39).Optional()
//
// Reusable column bundles, such as the housekeeping columns appended to
// every governed table, are plain []table.ColumnSpec values.
package schema
