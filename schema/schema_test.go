package schema_test

import (
	"testing"

	"github.com/secret-point/sql-aide/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAnnotation is a test implementation of Annotation.
type mockAnnotation struct {
	name  string
	value string
}

func (m *mockAnnotation) Name() string {
	return m.name
}

// mockMerger implements both Annotation and Merger.
type mockMerger struct {
	name   string
	values []string
}

func (m *mockMerger) Name() string {
	return m.name
}

func (m *mockMerger) Merge(other schema.Annotation) schema.Annotation {
	if o, ok := other.(*mockMerger); ok {
		return &mockMerger{
			name:   m.name,
			values: append(append([]string(nil), m.values...), o.values...),
		}
	}
	return m
}

func TestMerge(t *testing.T) {
	t.Run("merger", func(t *testing.T) {
		merged := schema.Merge(
			&mockMerger{name: "Test", values: []string{"a", "b"}},
			&mockMerger{name: "Test", values: []string{"c"}},
		)
		require.Len(t, merged, 1)
		assert.Equal(t, []string{"a", "b", "c"}, merged[0].(*mockMerger).values)
	})

	t.Run("last_wins", func(t *testing.T) {
		merged := schema.Merge(
			&mockAnnotation{name: "A", value: "1"},
			&mockAnnotation{name: "B", value: "2"},
			&mockAnnotation{name: "A", value: "3"},
		)
		require.Len(t, merged, 2)
		assert.Equal(t, "3", merged[0].(*mockAnnotation).value)
		assert.Equal(t, "B", merged[1].Name())
	})

	t.Run("nil_skipped", func(t *testing.T) {
		assert.Empty(t, schema.Merge(nil, nil))
	})
}
