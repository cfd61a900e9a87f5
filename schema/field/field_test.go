package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/field"
)

func TestStringField(t *testing.T) {
	desc := field.String("email").Unique().Comment("primary contact").Descriptor()
	assert.Equal(t, "email", desc.Name)
	assert.Equal(t, schema.KindString, desc.Kind)
	assert.True(t, desc.IsUnique)
	assert.False(t, desc.Nullable)
	assert.Equal(t, "primary contact", desc.Comment)
}

func TestOptionalField(t *testing.T) {
	desc := field.String("middle_name").Optional().Descriptor()
	assert.True(t, desc.Nullable)
}

func TestArrayField(t *testing.T) {
	desc := field.String("tags").Array().Descriptor()
	assert.True(t, desc.Array)
}

func TestDefaultLiteral(t *testing.T) {
	desc := field.Bool("active").Default(true).Descriptor()
	require.True(t, desc.HasDefault)
	assert.Equal(t, true, desc.Default)
}

func TestDefaultGenerator(t *testing.T) {
	desc := field.Time("created_at").DefaultFunc(schema.GenNow).Immutable().Descriptor()
	require.True(t, desc.HasDefault)
	assert.Equal(t, schema.GenNow, desc.Generator)
	assert.True(t, desc.Immutable)
}

func TestUpdateDefault(t *testing.T) {
	desc := field.Time("updated_at").DefaultFunc(schema.GenNow).UpdateDefault(schema.GenUpdatedAt).Descriptor()
	assert.Equal(t, schema.GenUpdatedAt, desc.UpdateGenerator)
}

func TestIDField(t *testing.T) {
	desc := field.ID("id").Descriptor()
	assert.True(t, desc.IsID)
	assert.True(t, desc.IsUnique)
	assert.True(t, desc.IsAutoincrement)
	assert.Equal(t, schema.KindBigInt, desc.Kind)
}

func TestUUIDIDField(t *testing.T) {
	desc := field.UUIDID("id").Descriptor()
	assert.True(t, desc.IsID)
	assert.Equal(t, schema.GenUUID, desc.Generator)
	assert.Equal(t, schema.KindString, desc.Kind)
}

func TestEnumField(t *testing.T) {
	desc := field.Enum("status").Values("active", "suspended", "deleted").Descriptor()
	assert.Equal(t, schema.KindEnum, desc.Kind)
	assert.Equal(t, []string{"active", "suspended", "deleted"}, desc.EnumValues)
}

func TestStorageKeyOverride(t *testing.T) {
	desc := field.String("email").StorageKey("email_address").Descriptor()
	assert.Equal(t, "email_address", desc.ColumnName)
}

func TestValidator(t *testing.T) {
	called := false
	v := func(value any) error {
		called = true
		return nil
	}
	desc := field.Int("age").Validate(v).Descriptor()
	require.Len(t, desc.Validators, 1)
	require.NoError(t, desc.Validators[0](30))
	assert.True(t, called)
}

func TestFieldAnnotations(t *testing.T) {
	desc := field.String("bio").Annotations(schema.Comment("free text")).Descriptor()
	require.Len(t, desc.Annotations, 1)
	assert.Equal(t, "Comment", desc.Annotations[0].Name())
}

func TestFieldSpecValidate(t *testing.T) {
	t.Run("id cannot be array", func(t *testing.T) {
		desc := field.ID("id").Descriptor()
		desc.Array = true
		require.Error(t, desc.Validate())
	})

	t.Run("id implies unique", func(t *testing.T) {
		desc := &schema.FieldSpec{Name: "id", Kind: schema.KindInt, IsID: true}
		require.NoError(t, desc.Validate())
		assert.True(t, desc.IsUnique)
	})
}
