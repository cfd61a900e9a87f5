package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerCallbackReceivesEvents(t *testing.T) {
	var events []Event
	l := NewLogger(func(e Event) { events = append(events, e) }, true)

	l.Query("SELECT 1", []any{1})
	l.Warning("cache miss")
	l.Error("exec failed", errors.New("boom"))

	require.Len(t, events, 3)
	assert.Equal(t, LevelQuery, events[0].Level)
	assert.Equal(t, "SELECT 1", events[0].SQL)
	assert.Equal(t, LevelWarning, events[1].Level)
	assert.Equal(t, "cache miss", events[1].Message)
	assert.Equal(t, LevelError, events[2].Level)
	assert.EqualError(t, events[2].Err, "boom")
}

func TestLoggerElidesSQLWhenDisabled(t *testing.T) {
	var events []Event
	l := NewLogger(func(e Event) { events = append(events, e) }, false)

	l.Query("SELECT secret FROM users", []any{"topsecret"})

	require.Len(t, events, 1)
	assert.Empty(t, events[0].SQL)
	assert.Nil(t, events[0].Args)
}
