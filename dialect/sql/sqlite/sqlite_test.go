package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect/sql/sqlite"
	"github.com/viborm/viborm/verr"
)

func TestEscapeUsesDoubleQuotes(t *testing.T) {
	a := sqlite.New()
	assert.Equal(t, `"weird""name"`, a.Escape(`weird"name`))
}

func TestReturningSupported(t *testing.T) {
	a := sqlite.New()
	text, _ := a.Returning([]string{"id"}).Render(dsql.PlaceholderQuestion)
	assert.Equal(t, ` RETURNING "id"`, text)
}

func TestOnConflictDoNothing(t *testing.T) {
	a := sqlite.New()
	frag := a.OnConflict([]string{"email"}, dialect.OnConflictAction{DoNothing: true})
	text, _ := frag.Render(dsql.PlaceholderQuestion)
	assert.Equal(t, ` ON CONFLICT ("email") DO NOTHING`, text)
}

func TestFullJoinUnsupported(t *testing.T) {
	a := sqlite.New()
	_, err := a.Full(dsql.Raw(`"posts"`), dsql.Raw("1=1"))
	require.Error(t, err)
	assert.True(t, verr.IsFeatureNotSupported(err))
}

func TestLateralUnsupported(t *testing.T) {
	a := sqlite.New()
	_, err := a.Lateral(dsql.Raw(`"posts"`), dsql.Raw("1=1"))
	require.Error(t, err)
}

func TestJSONArrayHas(t *testing.T) {
	a := sqlite.New()
	frag := a.Has(dsql.Raw("tags"), dsql.Value("go"))
	text, args := frag.Render(dsql.PlaceholderQuestion)
	assert.Equal(t, "? IN (SELECT value FROM json_each(tags))", text)
	assert.Equal(t, []any{"go"}, args)
}

func TestCapabilities(t *testing.T) {
	caps := sqlite.New().Capabilities()
	assert.True(t, caps.SupportsReturning)
	assert.False(t, caps.SupportsLateralJoins)
	assert.False(t, caps.SupportsFullOuterJoin)
}
