package postgres

//nolint:revive
import (
	"time"

	"hostly/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName = "postgres"

	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Connection holds the read and write pools. Repositories read through Read and
// write through Write; both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the read and write pools. With the memory driver no connection is
// made and both pools are nil.
func New(cfg *config.Config) *Connection {
	if cfg.DB.Driver != config.DBDriverPostgres {
		log.Info().Str("driver", cfg.DB.Driver).Msg("Postgres disabled, using in-memory storage")

		return &Connection{}
	}

	pg := cfg.DB.Postgres
	retry := retryPolicy{attempts: pg.MaxRetry, wait: time.Duration(pg.RetryWaitTime) * time.Second}

	return &Connection{
		Read:  connect("read", pg.Read, pg.Prefix, retry),
		Write: connect("write", pg.Write, pg.Prefix, retry),
	}
}

// Enabled reports whether the connection is backed by Postgres.
func (c *Connection) Enabled() bool {
	return c != nil && c.Write != nil
}

type retryPolicy struct {
	attempts int
	wait     time.Duration
}

func connect(name string, endpoint config.PostgresEndpoint, prefix string, retry retryPolicy) *sqlx.DB {
	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", prefix+endpoint.Name).
		Logger()

	dsn := endpoint.DSN(prefix, nil)

	for attempt := 1; attempt <= max(retry.attempts, 1); attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(retry.wait)
	}

	logger.Fatal().Msg("Giving up connecting to database")

	return nil
}
