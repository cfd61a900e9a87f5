package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viborm/viborm/schema/index"
)

func TestFields(t *testing.T) {
	desc := index.Fields("status", "created_at").Descriptor()
	assert.Equal(t, []string{"status", "created_at"}, desc.Columns)
	assert.False(t, desc.Unique)
}

func TestUnique(t *testing.T) {
	desc := index.Fields("email").Unique().Descriptor()
	assert.True(t, desc.Unique)
}

func TestStorageKey(t *testing.T) {
	desc := index.Fields("email").StorageKey("idx_users_email").Descriptor()
	assert.Equal(t, "idx_users_email", desc.Name)
}

func TestIndexType(t *testing.T) {
	desc := index.Fields("metadata").IndexType("gin").Descriptor()
	assert.Equal(t, "gin", desc.IndexType)
}
