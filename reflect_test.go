package statepack_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/statekit/statepack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── test models ──────────────────────────────────────────────────────────────

type pagerState struct {
	Page     int32
	Query    string `statepack:"q"`
	Exact    bool
	internal int // unexported, never part of the schema
}

type auditedState struct {
	Owner uuid.UUID
	Score float64 `statepack:"-"`
	Note  string
}

type baseState struct {
	CreatedBy string
}

type embeddedState struct {
	baseState
	Count int
}

type exportedBase struct {
	Region string
}

type nestedState struct {
	exportedBase
	Count int
}

// ── SchemaOf ─────────────────────────────────────────────────────────────────

func TestSchemaOf_DeclarationOrderAndTags(t *testing.T) {
	s, err := statepack.SchemaOf("pg", &pagerState{})
	require.NoError(t, err)

	assert.Equal(t, "pg", s.Cookie)
	require.Len(t, s.Fields, 3)
	assert.Equal(t, "page", s.Fields[0].Name)
	assert.Same(t, statepack.Int, s.Fields[0].Type)
	assert.Equal(t, "q", s.Fields[1].Name)
	assert.Same(t, statepack.Str, s.Fields[1].Type)
	assert.Equal(t, "exact", s.Fields[2].Name)
	assert.Same(t, statepack.Bool, s.Fields[2].Type)
}

func TestSchemaOf_DashTagSkips(t *testing.T) {
	s, err := statepack.SchemaOf("au", &auditedState{})
	require.NoError(t, err)

	require.Len(t, s.Fields, 2)
	assert.Equal(t, "owner", s.Fields[0].Name)
	assert.Same(t, statepack.UUID, s.Fields[0].Type)
	assert.Equal(t, "note", s.Fields[1].Name)
}

func TestSchemaOf_EmbeddedStructFlattens(t *testing.T) {
	s, err := statepack.SchemaOf("ns", &nestedState{})
	require.NoError(t, err)

	require.Len(t, s.Fields, 2)
	assert.Equal(t, "region", s.Fields[0].Name)
	assert.Equal(t, "count", s.Fields[1].Name)
}

func TestSchemaOf_UnexportedEmbeddedSkipped(t *testing.T) {
	s, err := statepack.SchemaOf("es", &embeddedState{})
	require.NoError(t, err)

	// the unexported embedded struct does not contribute fields
	require.Len(t, s.Fields, 1)
	assert.Equal(t, "count", s.Fields[0].Name)
}

func TestSchemaOf_InvalidModel(t *testing.T) {
	_, err := statepack.SchemaOf("x", nil)
	assert.ErrorIs(t, err, statepack.ErrInvalidModel)

	_, err = statepack.SchemaOf("x", pagerState{})
	assert.ErrorIs(t, err, statepack.ErrInvalidModel)

	var p *pagerState
	_, err = statepack.SchemaOf("x", p)
	assert.ErrorIs(t, err, statepack.ErrInvalidModel)
}

func TestSchemaOf_UnsupportedFieldType(t *testing.T) {
	type withSlice struct {
		Items []string
	}
	_, err := statepack.SchemaOf("x", &withSlice{})
	require.ErrorIs(t, err, statepack.ErrUnsupportedField)
	assert.Contains(t, err.Error(), "Items")
}

// ── ValuesOf / Populate ──────────────────────────────────────────────────────

func TestValuesOf(t *testing.T) {
	vals, err := statepack.ValuesOf(&pagerState{Page: 4, Query: "boots", Exact: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"page":  int32(4),
		"q":     "boots",
		"exact": true,
	}, vals)
}

func TestPopulate_ConvertsIntWidths(t *testing.T) {
	var st pagerState
	err := statepack.Populate(&st, map[string]any{
		"page":  int64(9),
		"q":     "socks",
		"exact": false,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(9), st.Page)
	assert.Equal(t, "socks", st.Query)
	assert.False(t, st.Exact)
}

func TestPopulate_IntOverflow(t *testing.T) {
	var st pagerState
	err := statepack.Populate(&st, map[string]any{
		"page":  int64(1) << 40,
		"q":     "",
		"exact": false,
	})
	require.ErrorIs(t, err, statepack.ErrBadValue)
	assert.Contains(t, err.Error(), `"page"`)
}

func TestPopulate_MissingValue(t *testing.T) {
	var st pagerState
	err := statepack.Populate(&st, map[string]any{"page": int64(1)})
	assert.ErrorIs(t, err, statepack.ErrMissingField)
}

func TestPopulate_TypeMismatch(t *testing.T) {
	var st pagerState
	err := statepack.Populate(&st, map[string]any{
		"page":  "nine",
		"q":     "",
		"exact": false,
	})
	assert.ErrorIs(t, err, statepack.ErrBadValue)
}

// ── end to end through the serializer ────────────────────────────────────────

func TestReflect_RoundTripThroughSerializer(t *testing.T) {
	schema, err := statepack.SchemaOf("pg", &pagerState{})
	require.NoError(t, err)
	set := newSet(t, schema)

	in := &pagerState{Page: 12, Query: "gloves", Exact: true}
	vals, err := statepack.ValuesOf(in)
	require.NoError(t, err)

	ctx := context.Background()
	id, err := statepack.Serialize(ctx, schema, vals)
	require.NoError(t, err)

	d, err := statepack.Deserialize(ctx, id, set)
	require.NoError(t, err)

	var out pagerState
	require.NoError(t, statepack.Populate(&out, d.Values))
	assert.Equal(t, *in, out)
}

func TestReflect_UUIDRoundTrip(t *testing.T) {
	schema, err := statepack.SchemaOf("au", &auditedState{})
	require.NoError(t, err)
	set := newSet(t, schema)

	in := &auditedState{Owner: uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"), Note: "ok"}
	vals, err := statepack.ValuesOf(in)
	require.NoError(t, err)

	ctx := context.Background()
	id, err := statepack.Serialize(ctx, schema, vals)
	require.NoError(t, err)

	d, err := statepack.Deserialize(ctx, id, set)
	require.NoError(t, err)

	var out auditedState
	require.NoError(t, statepack.Populate(&out, d.Values))
	assert.Equal(t, in.Owner, out.Owner)
	assert.Equal(t, "ok", out.Note)
}
