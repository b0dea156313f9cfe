package domain

// Purpose is the rendering site asking a domain for its SQL type.
type Purpose uint8

// Rendering purposes.
const (
	PurposeCreateTableColumn Purpose = iota
	PurposeStoredRoutineArg
	PurposeStoredFunctionReturnsScalar
	PurposeStoredFunctionReturnsTableColumn
	PurposeTypeField
	PurposeForeignKeyRef
	PurposeDiagram
	PurposeServerDomain
)

var purposeNames = [...]string{
	PurposeCreateTableColumn:                "create table column",
	PurposeStoredRoutineArg:                 "stored routine arg",
	PurposeStoredFunctionReturnsScalar:      "stored function returns scalar",
	PurposeStoredFunctionReturnsTableColumn: "stored function returns table column",
	PurposeTypeField:                        "type field",
	PurposeForeignKeyRef:                    "foreign key ref",
	PurposeDiagram:                          "diagram",
	PurposeServerDomain:                     "server domain",
}

// String returns the purpose name.
func (p Purpose) String() string {
	if int(p) < len(purposeNames) {
		return purposeNames[p]
	}
	return "unknown"
}

// Site is a structural position in a CREATE TABLE statement where a domain
// may contribute text.
type Site uint8

// Decoration sites.
const (
	// SiteFullColumnDefinition replaces the whole column definition.
	SiteFullColumnDefinition Site = iota
	// SiteColumnDecorators follows the column type inline.
	SiteColumnDecorators
	// SiteAfterAllColumns follows every column definition and foreign key.
	SiteAfterAllColumns
)
