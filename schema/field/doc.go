// Package field provides typed field descriptors, the input contract of the
// domain registry.
//
// A descriptor is a base type wrapped in zero or more layers:
//
//	field.Text()                     // TEXT NOT NULL
//	field.Text().Optional()          // TEXT
//	field.Text().Optional().Default("UNKNOWN")
//	field.VarChar(39).Nullable()     // VARCHAR(39)
//
// Each wrapper layer is a descriptor pointing at an inner descriptor, so the
// chain is finite and Unwrap walks it with a plain loop:
//
//	base, layers := d.Unwrap()
//
// # Field Types
//
//	field.Text()        // TEXT
//	field.VarChar(n)    // VARCHAR(n)
//	field.Integer()     // INTEGER
//	field.BigInt()      // BIGINT
//	field.Float()       // REAL
//	field.BigFloat()    // REAL, NUMERIC on PostgreSQL
//	field.FloatArray()  // REAL[]
//	field.Boolean()     // BOOLEAN
//	field.Date()        // DATE
//	field.DateTime()    // TIMESTAMP
//	field.JSONText()    // TEXT holding JSON
//	field.JSONB()       // TEXT, JSONB on PostgreSQL
//	field.UUID()        // TEXT, UUID on PostgreSQL
//
// Bytes and Other are representable but have no domain; resolving them fails.
//
// # Attachments
//
// Every descriptor node owns a single attachment slot. The domain registry
// uses it to memoize the domain built for a descriptor; nothing else should.
package field
