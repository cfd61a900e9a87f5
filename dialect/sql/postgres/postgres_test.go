package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect/sql/postgres"
)

func TestEscapeQuotesDoubleQuotes(t *testing.T) {
	a := postgres.New()
	assert.Equal(t, `"weird""name"`, a.Escape(`weird"name`))
}

func TestColumnWithAlias(t *testing.T) {
	a := postgres.New()
	text, _ := a.Column("u", "email").Render(dsql.PlaceholderDollar)
	assert.Equal(t, `"u"."email"`, text)
}

func TestEQRendersPlaceholder(t *testing.T) {
	a := postgres.New()
	frag := a.EQ(a.Column("u", "id"), dsql.Value(7))
	text, args := frag.Render(dsql.PlaceholderDollar)
	assert.Equal(t, `("u"."id" = $1)`, text)
	require.Len(t, args, 1)
	assert.Equal(t, 7, args[0])
}

func TestReturningRendersColumns(t *testing.T) {
	a := postgres.New()
	text, _ := a.Returning([]string{"id", "email"}).Render(dsql.PlaceholderDollar)
	assert.Equal(t, ` RETURNING "id", "email"`, text)
}

func TestOnConflictDoNothing(t *testing.T) {
	a := postgres.New()
	frag := a.OnConflict([]string{"email"}, dialect.OnConflictAction{DoNothing: true})
	text, _ := frag.Render(dsql.PlaceholderDollar)
	assert.Equal(t, ` ON CONFLICT ("email") DO NOTHING`, text)
}

func TestFullOuterJoinSupported(t *testing.T) {
	a := postgres.New()
	frag, err := a.Full(dsql.Raw(`"posts"`), a.EQ(dsql.Raw("u.id"), dsql.Raw("p.user_id")))
	require.NoError(t, err)
	text, _ := frag.Render(dsql.PlaceholderDollar)
	assert.Contains(t, text, "FULL OUTER JOIN")
}

func TestCapabilities(t *testing.T) {
	caps := postgres.New().Capabilities()
	assert.True(t, caps.SupportsReturning)
	assert.True(t, caps.SupportsLateralJoins)
	assert.True(t, caps.SupportsFullOuterJoin)
	assert.True(t, caps.SupportsVector)
}

func TestArrayLiteralAndHas(t *testing.T) {
	a := postgres.New()
	lit := a.Literal([]any{1, 2, 3})
	text, _ := lit.Render(dsql.PlaceholderDollar)
	assert.Contains(t, text, "ARRAY[")

	has := a.Has(dsql.Raw("tags"), dsql.Value("go"))
	text, args := has.Render(dsql.PlaceholderDollar)
	assert.Equal(t, "$1 = ANY(tags)", text)
	assert.Equal(t, []any{"go"}, args)
}
