package edge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/edge"
)

func userModel() *schema.Model { return &schema.Model{Name: "User", TableName: "users"} }
func postModel() *schema.Model { return &schema.Model{Name: "Post", TableName: "posts"} }

func TestEdgeToDefaults(t *testing.T) {
	desc := edge.To("posts", postModel).Descriptor()
	assert.Equal(t, "posts", desc.Name)
	assert.Equal(t, schema.OneToMany, desc.Kind)
	assert.False(t, desc.Inverse)
	assert.False(t, desc.Unique)
	assert.False(t, desc.Required)
	assert.NotNil(t, desc.Target)
	assert.Equal(t, "Post", desc.Target().Name)
}

func TestEdgeToUnique(t *testing.T) {
	desc := edge.To("profile", userModel).Unique().Descriptor()
	assert.Equal(t, schema.OneToOne, desc.Kind)
	assert.True(t, desc.Unique)
}

func TestEdgeRequiredImmutableComment(t *testing.T) {
	desc := edge.To("owner", userModel).
		Required().
		Immutable().
		Comment("post owner").
		Descriptor()
	assert.True(t, desc.Required)
	assert.True(t, desc.Immutable)
	assert.Equal(t, "post owner", desc.Comment)
}

func TestEdgeField(t *testing.T) {
	desc := edge.To("owner", userModel).Field("owner_id").Unique().Descriptor()
	assert.Equal(t, []string{"owner_id"}, desc.OnField)
	assert.True(t, desc.Unique)
}

func TestEdgeFields(t *testing.T) {
	desc := edge.To("parent", userModel).Fields("a_id", "b_id").Descriptor()
	assert.Equal(t, []string{"a_id", "b_id"}, desc.OnField)
}

func TestEdgeFrom(t *testing.T) {
	desc := edge.From("author", userModel).Ref("posts").Unique().Descriptor()
	assert.Equal(t, schema.ManyToOne, desc.Kind)
	assert.True(t, desc.Inverse)
	assert.Equal(t, "posts", desc.RefName)
	assert.True(t, desc.Unique)
}

func TestEdgeThrough(t *testing.T) {
	desc := edge.To("friends", userModel).Through("friendships", nil).Descriptor()
	assert.Equal(t, schema.ManyToMany, desc.Kind)
	require.NotNil(t, desc.Through)
	assert.Equal(t, "friendships", desc.Through.Table)
}

func TestEdgeStorageKeyTableOnly(t *testing.T) {
	desc := edge.To("groups", userModel).StorageKey(edge.Table("user_groups")).Descriptor()
	require.NotNil(t, desc.StorageKey)
	assert.Equal(t, "user_groups", desc.StorageKey.Table)
	assert.Empty(t, desc.StorageKey.Columns)
	assert.Empty(t, desc.StorageKey.Symbols)
}

func TestEdgeStorageKeyTableAndColumns(t *testing.T) {
	desc := edge.To("groups", userModel).
		StorageKey(edge.Table("user_groups"), edge.Columns("user_id", "group_id")).
		Descriptor()
	assert.Equal(t, "user_groups", desc.StorageKey.Table)
	assert.Equal(t, []string{"user_id", "group_id"}, desc.StorageKey.Columns)
}

func TestEdgeStorageKeySingleColumn(t *testing.T) {
	desc := edge.To("owner", userModel).Unique().StorageKey(edge.Column("owner_id")).Descriptor()
	assert.Equal(t, []string{"owner_id"}, desc.StorageKey.Columns)
}

func TestEdgeStorageKeySymbol(t *testing.T) {
	desc := edge.To("owner", userModel).Unique().StorageKey(edge.Symbol("fk_post_owner")).Descriptor()
	assert.Equal(t, []string{"fk_post_owner"}, desc.StorageKey.Symbols)
}

func TestEdgeStorageKeyFull(t *testing.T) {
	desc := edge.To("groups", userModel).
		StorageKey(
			edge.Table("user_groups"),
			edge.Columns("user_id", "group_id"),
			edge.Symbol("fk_users_groups"),
		).
		Descriptor()
	assert.Equal(t, "user_groups", desc.StorageKey.Table)
	assert.Equal(t, []string{"user_id", "group_id"}, desc.StorageKey.Columns)
	assert.Equal(t, []string{"fk_users_groups"}, desc.StorageKey.Symbols)
}

type gqlAnnotation struct{ Field string }

func (gqlAnnotation) Name() string { return "GQL" }

func TestEdgeAnnotations(t *testing.T) {
	desc := edge.To("posts", postModel).
		Annotations(gqlAnnotation{Field: "first"}, gqlAnnotation{Field: "second"}).
		Descriptor()
	require.Len(t, desc.Annotations, 2)
	assert.Equal(t, "first", desc.Annotations[0].(gqlAnnotation).Field)
}
