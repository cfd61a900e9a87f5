package verr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/verr"
)

func TestRecordNotFoundIsErrRecordNotFound(t *testing.T) {
	t.Parallel()

	err := verr.RecordNotFound("User", "findUniqueOrThrow")
	assert.True(t, errors.Is(err, verr.ErrRecordNotFound))
	assert.True(t, verr.IsRecordNotFound(err))
	assert.False(t, verr.IsNotSingular(err))
}

func TestNotSingularIsErrNotSingular(t *testing.T) {
	t.Parallel()

	err := verr.NotSingular("User", "findUnique", 2)
	assert.True(t, errors.Is(err, verr.ErrNotSingular))
	assert.True(t, verr.IsNotSingular(err))
}

func TestFeatureNotSupportedCode(t *testing.T) {
	t.Parallel()

	err := verr.FeatureNotSupported("mysql", "RETURNING")
	assert.True(t, verr.IsFeatureNotSupported(err))
	assert.Equal(t, verr.CategoryFeature, err.Category)
	assert.Contains(t, err.Error(), "FEATURE_NOT_SUPPORTED")
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := verr.Unexpected("engine/plan", cause)
	require.ErrorIs(t, err, cause)
}

func TestAggregateError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, verr.NewAggregateError(nil, nil))

	single := verr.NewAggregateError(nil, errors.New("one"))
	assert.Equal(t, "one", single.Error())

	multi := verr.NewAggregateError(errors.New("a"), errors.New("b"))
	var agg *verr.AggregateError
	require.ErrorAs(t, multi, &agg)
	assert.Len(t, agg.Errors, 2)
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	err := verr.UnknownModel("Ghost")
	assert.True(t, verr.Is(err, verr.CategorySchema))
	assert.False(t, verr.Is(err, verr.CategoryCache))
}
