package mysql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect/sql/mysql"
	"github.com/viborm/viborm/verr"
)

func TestEscapeUsesBackticks(t *testing.T) {
	a := mysql.New()
	assert.Equal(t, "`weird``name`", a.Escape("weird`name"))
}

func TestReturningIsAlwaysEmpty(t *testing.T) {
	a := mysql.New()
	frag := a.Returning([]string{"id"})
	assert.True(t, frag.IsEmpty())
}

func TestOnDuplicateKeyUpdate(t *testing.T) {
	a := mysql.New()
	frag := a.OnConflict([]string{"email"}, dialect.OnConflictAction{
		SetCols: map[string]dsql.Sql{"email": dsql.Value("a@b.com")},
	})
	text, args := frag.Render(dsql.PlaceholderQuestion)
	assert.Equal(t, " ON DUPLICATE KEY UPDATE (`email` = ?)", text)
	assert.Equal(t, []any{"a@b.com"}, args)
}

func TestFullJoinUnsupported(t *testing.T) {
	a := mysql.New()
	_, err := a.Full(dsql.Raw("`posts`"), dsql.Raw("1=1"))
	require.Error(t, err)
	assert.True(t, verr.IsFeatureNotSupported(err))
}

func TestVectorUnsupported(t *testing.T) {
	a := mysql.New()
	_, err := a.L2(dsql.Raw("embedding"), dsql.Raw("?"))
	require.Error(t, err)
	assert.True(t, verr.IsFeatureNotSupported(err))
}

func TestJSONArrayLiteral(t *testing.T) {
	a := mysql.New()
	frag := a.Literal([]any{"a", "b"})
	text, _ := frag.Render(dsql.PlaceholderQuestion)
	assert.Contains(t, text, "CAST(")
	assert.Contains(t, text, "AS JSON)")
}

func TestCapabilitiesReflectMySQLLimits(t *testing.T) {
	caps := mysql.New().Capabilities()
	assert.False(t, caps.SupportsReturning)
	assert.False(t, caps.SupportsLateralJoins)
	assert.False(t, caps.SupportsFullOuterJoin)
	assert.False(t, caps.SupportsVector)
}
