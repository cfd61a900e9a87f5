package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viborm/viborm/engine/query"
)

func TestKeyDeterministicAcrossMapOrder(t *testing.T) {
	a := map[string]any{"where": map[string]any{"id": 1, "name": "ada"}}
	b := map[string]any{"where": map[string]any{"name": "ada", "id": 1}}

	k1, err := Key(KeyOptions{}, "User", query.FindMany, a)
	require.NoError(t, err)
	k2, err := Key(KeyOptions{}, "User", query.FindMany, b)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestKeyShapeAndPrefix(t *testing.T) {
	k, err := Key(KeyOptions{}, "User", query.FindUnique, map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Regexp(t, `^viborm:User:findUnique:[0-9a-f]{16}$`, k)

	k, err = Key(KeyOptions{Version: 2}, "User", query.FindUnique, map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Regexp(t, `^viborm:v2:User:findUnique:[0-9a-f]{16}$`, k)
}

func TestKeyDiffersOnDifferentArgs(t *testing.T) {
	k1, err := Key(KeyOptions{}, "User", query.FindMany, map[string]any{"id": 1})
	require.NoError(t, err)
	k2, err := Key(KeyOptions{}, "User", query.FindMany, map[string]any{"id": 2})
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestKeyRejectsFunctions(t *testing.T) {
	_, err := Key(KeyOptions{}, "User", query.FindMany, map[string]any{"f": func() {}})
	require.Error(t, err)
}
