package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTLStrings(t *testing.T) {
	cases := map[string]time.Duration{
		"1 hour":     time.Hour,
		"20 seconds": 20 * time.Second,
		"2.5 h":      150 * time.Minute,
		"500ms":      500 * time.Millisecond,
		"30":         30 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := ParseTTL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTTLNumericPassthrough(t *testing.T) {
	got, err := ParseTTL(5000)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, got)
}

func TestParseTTLRejectsNonPositive(t *testing.T) {
	_, err := ParseTTL("0 seconds")
	require.Error(t, err)

	_, err = ParseTTL(-1)
	require.Error(t, err)
}

func TestParseTTLRejectsGarbage(t *testing.T) {
	_, err := ParseTTL("not a duration")
	require.Error(t, err)
}
