package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/field"
	"github.com/viborm/viborm/schema/mixin"
)

func TestSchemaBaseMixinIsEmpty(t *testing.T) {
	m := mixin.Schema{}
	assert.Nil(t, m.Fields())
	assert.Nil(t, m.Edges())
	assert.Nil(t, m.Indexes())
}

func TestSchemaImplementsMixin(t *testing.T) {
	var _ schema.Mixin = mixin.Schema{}
	var _ schema.Mixin = &mixin.Schema{}
}

func TestIDMixin(t *testing.T) {
	fields := mixin.ID{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "id", desc.Name)
	assert.True(t, desc.IsID)
	assert.True(t, desc.IsAutoincrement)
}

func TestUUIDIDMixin(t *testing.T) {
	fields := mixin.UUIDID{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.True(t, desc.IsID)
	assert.Equal(t, schema.GenUUID, desc.Generator)
}

func TestTimeMixin(t *testing.T) {
	fields := mixin.Time{}.Fields()
	require.Len(t, fields, 2)
	created, updated := fields[0].Descriptor(), fields[1].Descriptor()
	assert.Equal(t, "created_at", created.Name)
	assert.True(t, created.Immutable)
	assert.Equal(t, "updated_at", updated.Name)
	assert.Equal(t, schema.GenUpdatedAt, updated.UpdateGenerator)
}

func TestSoftDeleteMixin(t *testing.T) {
	fields := mixin.SoftDelete{}.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "deleted_at", fields[0].Descriptor().Name)
	assert.True(t, fields[0].Descriptor().Nullable)
}

func TestTimeSoftDeleteMixinCombines(t *testing.T) {
	fields := mixin.TimeSoftDelete{}.Fields()
	require.Len(t, fields, 3)
}

func TestTenantIDMixin(t *testing.T) {
	fields := mixin.TenantID{}.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "tenant_id", fields[0].Descriptor().Name)
}

type testAnnotation struct{ Value string }

func (testAnnotation) Name() string { return "Test" }

type customMixin struct {
	mixin.Schema
}

func (customMixin) Fields() []schema.Field {
	return []schema.Field{field.String("custom_field")}
}

func TestAnnotateFields(t *testing.T) {
	annotated := mixin.AnnotateFields(customMixin{}, testAnnotation{Value: "x"})
	fields := annotated.Fields()
	require.Len(t, fields, 1)
	require.Len(t, fields[0].Descriptor().Annotations, 1)
	assert.Equal(t, testAnnotation{Value: "x"}, fields[0].Descriptor().Annotations[0])
}

func TestAnnotateEdges(t *testing.T) {
	annotated := mixin.AnnotateEdges(mixin.ID{}, testAnnotation{Value: "y"})
	assert.Empty(t, annotated.Edges())
}
