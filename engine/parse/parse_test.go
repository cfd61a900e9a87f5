package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect"
	"github.com/viborm/viborm/dialect/sql/sqlite"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/edge"
	"github.com/viborm/viborm/schema/field"
)

type postDef struct{ schema.Schema }

func (postDef) Fields() []schema.Field {
	return []schema.Field{
		field.ID("id"),
		field.String("title"),
		field.Bool("published"),
	}
}

func postModel() *schema.Model { return schema.Build("Post", postDef{}) }

type userDef struct{ schema.Schema }

func (userDef) Fields() []schema.Field {
	return []schema.Field{
		field.ID("id"),
		field.String("name"),
		field.BigInt("score"),
	}
}

func (userDef) Edges() []schema.Edge {
	return []schema.Edge{
		edge.To("posts", postModel),
	}
}

func userModel() *schema.Model { return schema.Build("User", userDef{}) }

func TestParseRowCoercesBigInt(t *testing.T) {
	model := userModel()
	adapter := sqlite.Adapter{}

	rows := []map[string]any{
		{"id": int64(1), "name": "ada", "score": []byte("9223372036854775807")},
	}
	result, err := Find(adapter, model, query.FindUnique, query.Selection{}, rows, false)
	require.NoError(t, err)

	row, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(9223372036854775807), row["score"])
}

func TestParseRowDecodesToManyRelation(t *testing.T) {
	model := userModel()
	adapter := sqlite.Adapter{}

	sel := query.Selection{
		Fields: []string{"id", "name"},
		Relations: map[string]*query.RelationSelection{
			"posts": {Selection: query.Selection{Fields: []string{"id", "title", "published"}}},
		},
	}
	rows := []map[string]any{
		{
			"id":   int64(1),
			"name": "ada",
			"posts": []byte(`[{"id":10,"title":"hello","published":1},
				{"id":11,"title":"world","published":0}]`),
		},
	}
	result, err := Find(adapter, model, query.FindUnique, sel, rows, false)
	require.NoError(t, err)

	row := result.(map[string]any)
	posts := row["posts"].([]map[string]any)
	require.Len(t, posts, 2)
	assert.Equal(t, "hello", posts[0]["title"])
	assert.Equal(t, true, posts[0]["published"])
	assert.Equal(t, false, posts[1]["published"])
}

func TestFindUniqueOrThrowRaisesRecordNotFound(t *testing.T) {
	model := userModel()
	adapter := sqlite.Adapter{}

	_, err := Find(adapter, model, query.FindUniqueOrThrow, query.Selection{}, nil, false)
	require.Error(t, err)
}

func TestFindManyReturnsEmptySliceNotError(t *testing.T) {
	model := userModel()
	adapter := sqlite.Adapter{}

	result, err := Find(adapter, model, query.FindMany, query.Selection{}, nil, false)
	require.NoError(t, err)
	rows, ok := result.([]map[string]any)
	require.True(t, ok)
	assert.Empty(t, rows)
}

func TestCountNormalizesToResultKey(t *testing.T) {
	model := userModel()
	adapter := sqlite.Adapter{}

	result, err := Count(adapter, model, map[string]any{"count": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result["_result"])
}

func TestAggregateReshapesBuckets(t *testing.T) {
	adapter := sqlite.Adapter{}
	payload := &query.AggregatePayload{
		GroupBy: []string{"name"},
		Selected: map[query.AggFunc][]string{
			query.AggCount: nil,
			query.AggSum:   {"score"},
		},
	}
	rows := []map[string]any{
		{"name": "ada", "_count._all": int64(2), "_sum.score": int64(42)},
	}
	result, err := Aggregate(adapter, query.Aggregate, payload, rows)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "ada", result[0]["name"])
	assert.Equal(t, map[string]any{"_all": int64(2)}, result[0]["_count"])
	assert.Equal(t, map[string]any{"score": int64(42)}, result[0]["_sum"])
}

func TestExistReportsRowPresence(t *testing.T) {
	adapter := sqlite.Adapter{}

	found, err := Exist(adapter, []map[string]any{{"1": int64(1)}})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Exist(adapter, nil)
	require.NoError(t, err)
	assert.False(t, found)
}

var _ dialect.ResultMiddleware = sqlite.Adapter{}
