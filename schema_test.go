package statepack_test

import (
	"testing"

	"github.com/statekit/statepack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaBuilder(t *testing.T) {
	s := statepack.S("pg").
		Kind("pager").
		Field("page", statepack.Int).
		Field("query", statepack.Str).
		Build()

	assert.Equal(t, "pg", s.Cookie)
	assert.Equal(t, "pager", s.Kind)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "page", s.Fields[0].Name)
	assert.Same(t, statepack.Int, s.Fields[0].Type)
	assert.Equal(t, "query", s.Fields[1].Name)
	assert.Same(t, statepack.Str, s.Fields[1].Type)
}

func TestSchemaSet_Add_Success(t *testing.T) {
	set := statepack.NewSchemaSet()
	err := set.Add(statepack.S("a").Field("n", statepack.Int).Build())
	assert.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestSchemaSet_Add_Duplicate(t *testing.T) {
	set := statepack.NewSchemaSet()
	require.NoError(t, set.Add(statepack.S("a").Build()))

	err := set.Add(statepack.S("a").Field("n", statepack.Int).Build())
	assert.ErrorIs(t, err, statepack.ErrSchemaDuplicate)
	assert.Equal(t, 1, set.Len())
}

func TestSchemaSet_SchemaFor(t *testing.T) {
	set := statepack.NewSchemaSet()
	require.NoError(t, set.Add(statepack.S("pg").Kind("pager").Build()))

	s, ok := set.SchemaFor("pg")
	require.True(t, ok)
	assert.Equal(t, "pager", s.Kind)

	_, ok = set.SchemaFor("nope")
	assert.False(t, ok)
}

func TestSchemaSet_All(t *testing.T) {
	set := statepack.NewSchemaSet()
	require.NoError(t, set.Add(statepack.S("a").Build()))
	require.NoError(t, set.Add(statepack.S("b").Build()))

	all := set.All()
	assert.Len(t, all, 2)

	cookies := map[string]bool{}
	for _, s := range all {
		cookies[s.Cookie] = true
	}
	assert.True(t, cookies["a"])
	assert.True(t, cookies["b"])
}
