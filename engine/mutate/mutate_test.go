package mutate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect/sql/postgres"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/field"
)

type userDef struct{ schema.Schema }

func (userDef) Fields() []schema.Field {
	return []schema.Field{
		field.ID("id"),
		field.String("name"),
		field.String("email").Unique(),
		field.Time("created_at").DefaultFunc(schema.GenNow).Immutable(),
		field.Time("updated_at").DefaultFunc(schema.GenNow).UpdateDefault(schema.GenUpdatedAt),
	}
}

func userModel() *schema.Model {
	return schema.Build("User", userDef{})
}

func TestApplyCreateDefaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	model := userModel()

	full, err := applyCreateDefaults(model, map[string]any{"name": "ada"}, now)
	require.NoError(t, err)

	assert.Equal(t, "ada", full["name"])
	assert.Equal(t, now, full["created_at"])
	assert.Equal(t, now, full["updated_at"])
	_, hasID := full["id"]
	assert.False(t, hasID, "autoincrement id has no literal default to fill")
}

func TestApplyCreateDefaults_DoesNotOverwrite(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	explicit := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	model := userModel()

	full, err := applyCreateDefaults(model, map[string]any{"name": "ada", "created_at": explicit}, now)
	require.NoError(t, err)
	assert.Equal(t, explicit, full["created_at"])
}

func TestApplyUpdateGenerators(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	model := userModel()

	assigns, err := applyUpdateGenerators(model, []query.UpdateAssign{{Field: "name", Op: "set", Value: "grace"}}, now)
	require.NoError(t, err)

	var sawUpdatedAt bool
	for _, a := range assigns {
		if a.Field == "updated_at" {
			sawUpdatedAt = true
			assert.Equal(t, now, a.Value)
		}
	}
	assert.True(t, sawUpdatedAt, "updatedAt generator fires even when the caller didn't mention it")
}

func TestApplyUpdateGenerators_RespectsExplicitAssign(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	explicit := time.Date(2021, 5, 5, 0, 0, 0, 0, time.UTC)
	model := userModel()

	assigns, err := applyUpdateGenerators(model, []query.UpdateAssign{{Field: "updated_at", Op: "set", Value: explicit}}, now)
	require.NoError(t, err)
	require.Len(t, assigns, 1)
	assert.Equal(t, explicit, assigns[0].Value)
}

func TestUnionFieldNames(t *testing.T) {
	model := userModel()
	rows := []map[string]any{
		{"name": "ada"},
		{"name": "grace", "email": "grace@example.com"},
	}
	names := unionFieldNames(model, rows)
	assert.Equal(t, []string{"name", "email"}, names)
}

func TestFieldNameForColumn(t *testing.T) {
	model := userModel()
	name, ok := fieldNameForColumn(model, "created_at")
	require.True(t, ok)
	assert.Equal(t, "created_at", name)

	_, ok = fieldNameForColumn(model, "nope")
	assert.False(t, ok)
}

func TestBuildInsert(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := postgres.New()
	model := userModel()
	ctx := rootCtx(a, model, string(query.Create))

	stmt, full, err := BuildInsert(ctx, map[string]any{"name": "ada", "email": "ada@example.com"}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "ada", full["name"])

	text, args := stmt.SQL.Render(placeholderFor(a))
	assert.Contains(t, text, "INSERT INTO \"users\"")
	assert.Contains(t, text, "RETURNING")
	assert.NotEmpty(t, args)
}

func TestBuildUpdate_RejectsImmutableField(t *testing.T) {
	a := postgres.New()
	model := userModel()
	ctx := rootCtx(a, model, string(query.Update))

	_, err := BuildUpdate(ctx, []query.UpdateAssign{{Field: "created_at", Op: "set", Value: time.Now()}}, a.True(), nil, time.Now())
	assert.Error(t, err)
}

func TestBuildUpdate_EmptyAssignsRejected(t *testing.T) {
	a := postgres.New()
	model := userModel()
	ctx := rootCtx(a, model, string(query.Update))

	_, err := BuildUpdate(ctx, nil, a.True(), nil, time.Now())
	assert.Error(t, err)
}

func TestBuildDelete(t *testing.T) {
	a := postgres.New()
	model := userModel()
	ctx := rootCtx(a, model, string(query.Delete))

	stmt := BuildDelete(ctx, a.True())
	text, _ := stmt.SQL.Render(placeholderFor(a))
	assert.Contains(t, text, "DELETE FROM \"users\"")
}

func TestBuildUpsert(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := postgres.New()
	model := userModel()
	ctx := rootCtx(a, model, string(query.Upsert))

	stmt, full, err := BuildUpsert(ctx,
		map[string]any{"name": "ada", "email": "ada@example.com"},
		[]query.UpdateAssign{{Field: "name", Op: "set", Value: "ada2"}},
		[]string{"email"}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "ada", full["name"])

	text, _ := stmt.SQL.Render(placeholderFor(a))
	assert.Contains(t, text, "ON CONFLICT")
	assert.Contains(t, text, "DO UPDATE SET")
}
