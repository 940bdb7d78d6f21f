package config_test

import (
	"net/url"
	"testing"

	"hostly/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresEndpoint_DSN(t *testing.T) {
	endpoint := config.PostgresEndpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "hostly",
		Password: "s3cr/t@",
		Name:     "bookings",
		Timezone: "Asia/Jakarta",
		SSLMode:  "require",
	}

	parsed, err := url.Parse(endpoint.DSN("staging_", url.Values{"x-migrations-table": {"schema_migrations"}}))
	require.NoError(t, err)

	password, ok := parsed.User.Password()
	require.True(t, ok)

	assert.Equal(t, "s3cr/t@", password)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/staging_bookings", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Asia/Jakarta", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestPostgresEndpoint_DSNWithoutOptions(t *testing.T) {
	endpoint := config.PostgresEndpoint{Host: "localhost", Port: "5432", Username: "u", Name: "hostly"}

	parsed, err := url.Parse(endpoint.DSN("", nil))
	require.NoError(t, err)

	assert.Equal(t, "/hostly", parsed.Path)
	assert.Empty(t, parsed.RawQuery)
}
