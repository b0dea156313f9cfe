package sqlschema_test

import (
	"testing"

	"github.com/secret-point/sql-aide/dialect/sqlschema"
	"github.com/secret-point/sql-aide/schema"
	"github.com/secret-point/sql-aide/schema/field"

	"github.com/stretchr/testify/assert"
)

type other struct{}

func (other) Name() string { return "other" }

func TestMerge(t *testing.T) {
	a := sqlschema.Unique().Merge(sqlschema.DefaultExpr("CURRENT_TIMESTAMP")).(sqlschema.Annotation)
	assert.True(t, a.Unique)
	assert.Equal(t, "CURRENT_TIMESTAMP", a.DefaultExpr)

	a = a.Merge(&sqlschema.Annotation{ColumnType: "JSONB"}).(sqlschema.Annotation)
	assert.Equal(t, "JSONB", a.ColumnType)
	assert.True(t, a.Unique)

	assert.Equal(t, a, a.Merge(other{}))
	assert.Equal(t, a, a.Merge((*sqlschema.Annotation)(nil)).(sqlschema.Annotation).Merge(other{}))
}

func TestFrom(t *testing.T) {
	fd := field.Integer().
		Annotations(sqlschema.ColumnType("INT")).
		Optional().
		Annotations(sqlschema.AutoIncrement(), other{}, sqlschema.ColumnType("SERIAL"))

	a := sqlschema.From(fd.AllAnnotations())
	assert.True(t, a.PrimaryKey)
	assert.True(t, a.IsIncremental())
	assert.True(t, a.OmitFromInsert)
	assert.Equal(t, "SERIAL", a.ColumnType)

	assert.Equal(t, sqlschema.Annotation{}, sqlschema.From([]schema.Annotation{other{}, nil}))
	assert.False(t, sqlschema.PrimaryKey().IsIncremental())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, sqlschema.Cascade, sqlschema.OnDelete(sqlschema.Cascade).OnDelete)
	assert.Equal(t, sqlschema.SetNull, sqlschema.OnUpdate(sqlschema.SetNull).OnUpdate)
	assert.Equal(t, "age >= 0", sqlschema.Check("age >= 0").Check)
	assert.Equal(t, int64(10), sqlschema.Size(10).Size)
	assert.Equal(t, "UNKNOWN", sqlschema.Default("UNKNOWN").Default)
	assert.Equal(t, `"x" TEXT`, sqlschema.Definition(`"x" TEXT`).Definition)
	assert.Equal(t, "note", sqlschema.Comment("note").Comment)
	assert.True(t, sqlschema.OmitFromInsert().OmitFromInsert)
	assert.Equal(t, sqlschema.AnnotationName, sqlschema.Annotation{}.Name())
}
