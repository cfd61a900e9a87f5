package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect"
	dschema "github.com/viborm/viborm/dialect/sql/schema"
)

func TestDiffDetectsNewNotNullBreaking(t *testing.T) {
	t.Parallel()

	current := []dialect.Table{{
		Name:    "users",
		Columns: []dialect.Column{{Name: "id", Type: "bigint"}},
	}}
	desired := []dialect.Table{{
		Name: "users",
		Columns: []dialect.Column{
			{Name: "id", Type: "bigint"},
			{Name: "tenant_id", Type: "bigint", Nullable: false},
		},
	}}

	res := dschema.Diff(desired, current)
	require.True(t, res.HasBreakingChanges())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "tenant_id", res.Warnings[0].Column)
}

func TestDiffDetectsNullableTighteningAsError(t *testing.T) {
	t.Parallel()

	current := []dialect.Table{{
		Name:    "posts",
		Columns: []dialect.Column{{Name: "title", Type: "text", Nullable: true}},
	}}
	desired := []dialect.Table{{
		Name:    "posts",
		Columns: []dialect.Column{{Name: "title", Type: "text", Nullable: false}},
	}}

	res := dschema.Diff(desired, current)
	require.True(t, res.HasErrors())
	require.True(t, res.HasBreakingChanges())
}

func TestDiffIgnoresBrandNewTable(t *testing.T) {
	t.Parallel()

	desired := []dialect.Table{{Name: "brand_new", Columns: []dialect.Column{{Name: "id"}}}}
	res := dschema.Diff(desired, nil)
	assert.False(t, res.HasErrors())
	assert.False(t, res.HasWarnings())
}

func TestDiffDetectsDroppedColumn(t *testing.T) {
	t.Parallel()

	current := []dialect.Table{{
		Name: "users",
		Columns: []dialect.Column{
			{Name: "id", Type: "bigint"},
			{Name: "legacy_flag", Type: "bool"},
		},
	}}
	desired := []dialect.Table{{
		Name:    "users",
		Columns: []dialect.Column{{Name: "id", Type: "bigint"}},
	}}

	res := dschema.Diff(desired, current)
	require.True(t, res.HasWarnings())
	assert.Equal(t, "legacy_flag", res.Warnings[0].Column)
}
