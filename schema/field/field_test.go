package field_test

import (
	"testing"

	"github.com/secret-point/sql-aide/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note string

func (n note) Name() string { return string(n) }

func TestBase(t *testing.T) {
	fd := field.Text()
	assert.Equal(t, field.TypeText, fd.Type())
	assert.Equal(t, field.LayerBase, fd.Layer())
	assert.Nil(t, fd.Inner())
	assert.False(t, fd.IsOptional())

	base, layers := fd.Unwrap()
	assert.Same(t, fd, base)
	assert.Empty(t, layers)

	fd = field.VarChar(39)
	assert.Equal(t, field.TypeVarChar, fd.Type())
	assert.Equal(t, 39, fd.Size())
	assert.Equal(t, "varchar[39]", fd.String())
}

func TestWrappers(t *testing.T) {
	base := field.Text()
	fd := base.Default("UNKNOWN").Optional()

	assert.Equal(t, field.LayerOptional, fd.Layer())
	assert.Equal(t, field.TypeText, fd.Type())
	assert.True(t, fd.IsOptional())
	assert.Equal(t, "optional(default(text))", fd.String())

	got, layers := fd.Unwrap()
	assert.Same(t, base, got)
	require.Len(t, layers, 2)
	assert.Equal(t, field.LayerOptional, layers[0].Layer())
	assert.Equal(t, field.LayerDefault, layers[1].Layer())

	v, ok := fd.DefaultValue()
	assert.True(t, ok)
	assert.Equal(t, "UNKNOWN", v)

	_, ok = field.Integer().DefaultValue()
	assert.False(t, ok)

	assert.True(t, field.Integer().Nullable().IsOptional())
}

func TestAnnotationsOrder(t *testing.T) {
	fd := field.Text().Annotations(note("inner")).Optional().Annotations(note("outer"))
	all := fd.AllAnnotations()
	require.Len(t, all, 2)
	assert.Equal(t, "inner", all[0].Name())
	assert.Equal(t, "outer", all[1].Name())
}

func TestAttachment(t *testing.T) {
	base := field.Integer()
	fd := base.Optional()
	fd.Attach("outer")
	base.Attach("inner")
	assert.Equal(t, "outer", fd.Attachment())
	assert.Equal(t, "inner", base.Attachment())

	fd.Detach()
	assert.Nil(t, fd.Attachment())
	assert.Nil(t, base.Attachment())
}

func TestType(t *testing.T) {
	assert.True(t, field.TypeJSONB.Valid())
	assert.False(t, field.TypeInvalid.Valid())
	assert.False(t, field.Type(200).Valid())
	assert.Equal(t, "invalid", field.Type(200).String())
	assert.True(t, field.TypeBigFloat.Numeric())
	assert.False(t, field.TypeText.Numeric())

	typ, ok := field.ParseType("datetime")
	assert.True(t, ok)
	assert.Equal(t, field.TypeDateTime, typ)
	_, ok = field.ParseType("money")
	assert.False(t, ok)
}
