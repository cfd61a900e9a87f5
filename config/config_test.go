package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	data := []byte(`
dialect: postgres
dsn: "postgres://localhost/app"
cache:
  enabled: true
  ttl: "1 hour"
  swr: true
instrumentation:
  enabled: true
  include_sql: false
`)
	c, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, Postgres, c.Dialect)
	assert.Equal(t, "postgres://localhost/app", c.DSN)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, "1 hour", c.Cache.TTL)
	assert.True(t, c.Cache.SWR)
	assert.True(t, c.Instrumentation.Enabled)
}

func TestLoadRejectsUnsupportedDialect(t *testing.T) {
	_, err := Load([]byte("dialect: oracle\ndsn: x\n"))
	require.Error(t, err)
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	_, err := Load([]byte("dialect: sqlite\n"))
	require.Error(t, err)
}
