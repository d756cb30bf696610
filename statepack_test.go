package statepack_test

import (
	"testing"

	"github.com/statekit/statepack"
	"github.com/stretchr/testify/assert"
)

func TestVersion_Format(t *testing.T) {
	v := statepack.Version()
	assert.Equal(t, statepack.BuildDate+"-"+statepack.BuildEnv, v)
	assert.Contains(t, v, "-dev")
}

func TestNewSerializer_DefaultsToSharedRegistry(t *testing.T) {
	a := statepack.NewSerializer(statepack.Config{})
	b := statepack.NewSerializer(statepack.Config{})
	assert.Same(t, a.Registry(), b.Registry())
	assert.Same(t, statepack.DefaultRegistry, a.Registry())
}

func TestNewSerializer_CustomRegistry(t *testing.T) {
	reg := statepack.NewRegistry()
	sz := statepack.NewSerializer(statepack.Config{Registry: reg})
	assert.Same(t, reg, sz.Registry())
	assert.NotSame(t, statepack.DefaultRegistry, sz.Registry())
}

func TestStats_ZeroOnFreshSerializer(t *testing.T) {
	sz := statepack.NewSerializer(statepack.Config{Registry: statepack.NewRegistry()})
	st := sz.Stats()
	assert.Zero(t, st.Serializes)
	assert.Zero(t, st.Deserializes)
	assert.Zero(t, st.Errors)
	assert.Zero(t, st.CacheEntries)
}
