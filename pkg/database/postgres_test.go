package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/pkg/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "dosen",
		Password: "p@ss:word/1",
		Name:     "pentadosen",
		SSLMode:  "require",
	})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5433", parsed.Host)
	assert.Equal(t, "/pentadosen", parsed.Path)
	assert.Equal(t, "dosen", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss:word/1", password)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "pentadosen-api", parsed.Query().Get("application_name"))
}

func TestDSNOmitsEmptySSLMode(t *testing.T) {
	parsed, err := url.Parse(DSN(config.DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "pentadosen"}))
	require.NoError(t, err)
	assert.Empty(t, parsed.Query().Get("sslmode"))
}
