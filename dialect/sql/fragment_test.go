package sql_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect/sql"
)

func TestRenderQuestionPlaceholders(t *testing.T) {
	t.Parallel()

	f := sql.Raw("SELECT * FROM t WHERE a = ").Append(sql.Value(1)).Append(sql.Raw(" AND b = ")).Append(sql.Value("x"))
	text, params := f.Render(sql.PlaceholderQuestion)

	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ?", text)
	assert.Equal(t, []any{1, "x"}, params)
	assert.Equal(t, strings.Count(text, "?"), len(params))
}

func TestRenderDollarPlaceholdersAreDense(t *testing.T) {
	t.Parallel()

	f := sql.Raw("WHERE a = ").Append(sql.Value(1)).Append(sql.Raw(" AND b = ")).Append(sql.Value(2)).Append(sql.Raw(" AND c = ")).Append(sql.Value(3))
	text, params := f.Render(sql.PlaceholderDollar)

	assert.Equal(t, "WHERE a = $1 AND b = $2 AND c = $3", text)
	require.Len(t, params, 3)
}

func TestJoinEmpty(t *testing.T) {
	t.Parallel()

	got := sql.Join(nil, sql.Raw(", "))
	text, params := got.Render(sql.PlaceholderQuestion)
	assert.Equal(t, "", text)
	assert.Nil(t, params)
}

func TestJoinPreservesOrder(t *testing.T) {
	t.Parallel()

	parts := []sql.Sql{sql.Value(1), sql.Value(2), sql.Value(3)}
	got := sql.Join(parts, sql.Raw(", "))
	text, params := got.Render(sql.PlaceholderQuestion)
	assert.Equal(t, "?, ?, ?", text)
	assert.Equal(t, []any{1, 2, 3}, params)
}

func TestRenderIsPureAndIdempotent(t *testing.T) {
	t.Parallel()

	f := sql.Raw("a = ").Append(sql.Value(42))
	text1, params1 := f.Render(sql.PlaceholderDollar)
	text2, params2 := f.Render(sql.PlaceholderDollar)
	assert.Equal(t, text1, text2)
	assert.Equal(t, params1, params2)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	f := sql.Raw("a").Wrap()
	text, _ := f.Render(sql.PlaceholderQuestion)
	assert.Equal(t, "(a)", text)
}
