package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartActiveSpanRunsFnAndReturnsItsError(t *testing.T) {
	tr := New(false, "test", true)

	ran := false
	err := tr.StartActiveSpan(context.Background(), SpanExecute, map[string]any{"db.system.name": "postgres"}, false, func(ctx context.Context) error {
		ran = true
		assert.NotNil(t, ctx)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	wantErr := errors.New("boom")
	err = tr.StartActiveSpan(context.Background(), SpanExecute, nil, false, func(context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestQueryAttrsGatesSQLText(t *testing.T) {
	withSQL := New(true, "test", true)
	attrs := withSQL.QueryAttrs("postgres", "public", "findMany", "SELECT 1", []any{1, "x"})
	assert.Equal(t, "SELECT 1", attrs[AttrDBQueryText])
	assert.Equal(t, 1, attrs["db.query.parameter.0"])

	withoutSQL := New(true, "test", false)
	attrs = withoutSQL.QueryAttrs("postgres", "public", "findMany", "SELECT 1", []any{1})
	_, ok := attrs[AttrDBQueryText]
	assert.False(t, ok)
}

func TestStartActiveSpanRootDetaches(t *testing.T) {
	tr := New(false, "test", false)
	type ctxKey struct{}
	parent := context.WithValue(context.Background(), ctxKey{}, "parent")

	err := tr.StartActiveSpan(parent, SpanOperation, nil, true, func(ctx context.Context) error {
		assert.Nil(t, ctx.Value(ctxKey{}))
		return nil
	})
	require.NoError(t, err)
}
