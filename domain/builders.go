package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/schema/field"
)

func defaultBuilders() map[field.Type]Builder {
	return map[field.Type]Builder{
		field.TypeText:       sqlType("TEXT"),
		field.TypeVarChar:    sqlType("VARCHAR"),
		field.TypeInteger:    sqlType("INTEGER"),
		field.TypeBigInt:     sqlType("BIGINT"),
		field.TypeFloat:      sqlType("REAL"),
		field.TypeBigFloat:   sqlType("REAL"),
		field.TypeFloatArray: sqlType("REAL[]"),
		field.TypeBoolean:    sqlType("BOOLEAN"),
		field.TypeDate:       sqlType("DATE"),
		field.TypeDateTime:   sqlType("TIMESTAMP"),
		field.TypeJSONText:   buildJSON,
		field.TypeJSONB:      buildJSON,
		field.TypeUUID:       buildUUID,
	}
}

func sqlType(t string) Builder {
	return func(_ *Registry, d *Domain) error {
		d.sqlType = t
		return nil
	}
}

// buildJSON stores JSON as text. Non-string values are marshaled on insert.
func buildJSON(_ *Registry, d *Domain) error {
	d.sqlType = "TEXT"
	d.transform = func(v any, present bool) (any, bool, error) {
		if !present || v == nil {
			return v, present, nil
		}
		switch v := v.(type) {
		case string, json.RawMessage:
			return v, true, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false, sqla.NewConstructionError("", d.Name(), "marshal JSON insert value", err)
		}
		return string(b), true, nil
	}
	return nil
}

// buildUUID stores UUIDs as text in their canonical lowercase form. Missing
// values pass through, so inserts without a required UUID fail.
func buildUUID(_ *Registry, d *Domain) error {
	d.sqlType = "TEXT"
	d.transform = func(v any, present bool) (any, bool, error) {
		if !present || v == nil {
			return v, present, nil
		}
		switch v := v.(type) {
		case uuid.UUID:
			return v.String(), true, nil
		case string:
			u, err := uuid.Parse(v)
			if err != nil {
				return nil, false, sqla.NewConstructionError("", d.Name(), fmt.Sprintf("invalid UUID %q", v), err)
			}
			return u.String(), true, nil
		default:
			return nil, false, sqla.NewConstructionError("", d.Name(), fmt.Sprintf("unexpected UUID value of type %T", v), nil)
		}
	}
	return nil
}
