package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/contrib/mixin"
)

func TestULIDIDMixin(t *testing.T) {
	fields := mixin.ULIDID{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "id", desc.Name)
	assert.True(t, desc.Immutable)
	assert.Equal(t, schema.GenULID, desc.Generator)
}

func TestCUIDIDMixin(t *testing.T) {
	fields := mixin.CUIDID{}.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, schema.GenCUID, fields[0].Descriptor().Generator)
}

func TestNanoIDIDMixin(t *testing.T) {
	fields := mixin.NanoIDID{}.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, schema.GenNanoID, fields[0].Descriptor().Generator)
}

func TestVersionedMixin(t *testing.T) {
	fields := mixin.Versioned{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "version", desc.Name)
	assert.Equal(t, 1, desc.Default)
}

func TestContribMixinsImplementInterface(t *testing.T) {
	var _ schema.Mixin = mixin.ULIDID{}
	var _ schema.Mixin = mixin.CUIDID{}
	var _ schema.Mixin = mixin.NanoIDID{}
	var _ schema.Mixin = mixin.Versioned{}
}
