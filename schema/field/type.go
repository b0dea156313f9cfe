package field

// Type is the base type tag of a descriptor.
type Type uint8

// List of base types.
const (
	TypeInvalid Type = iota
	TypeText
	TypeVarChar
	TypeInteger
	TypeBigInt
	TypeFloat
	TypeBigFloat
	TypeFloatArray
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeJSONText
	TypeJSONB
	TypeUUID
	TypeBytes
	TypeOther
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:    "invalid",
	TypeText:       "text",
	TypeVarChar:    "varchar",
	TypeInteger:    "integer",
	TypeBigInt:     "bigint",
	TypeFloat:      "float",
	TypeBigFloat:   "bigfloat",
	TypeFloatArray: "float[]",
	TypeBoolean:    "boolean",
	TypeDate:       "date",
	TypeDateTime:   "datetime",
	TypeJSONText:   "json",
	TypeJSONB:      "jsonb",
	TypeUUID:       "uuid",
	TypeBytes:      "bytes",
	TypeOther:      "other",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is known.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	switch t {
	case TypeInteger, TypeBigInt, TypeFloat, TypeBigFloat:
		return true
	default:
		return false
	}
}

// ParseType returns the type named s, as printed by Type.String.
func ParseType(s string) (Type, bool) {
	for t := TypeText; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, true
		}
	}
	return TypeInvalid, false
}

// Layer identifies the role of a descriptor node in a wrapper chain.
type Layer uint8

// List of layers.
const (
	LayerBase Layer = iota
	LayerOptional
	LayerNullable
	LayerDefault
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerOptional:
		return "optional"
	case LayerNullable:
		return "nullable"
	case LayerDefault:
		return "default"
	default:
		return "unknown"
	}
}
