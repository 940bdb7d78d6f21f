package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"hostly/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
	ActionForce   = "force"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString builds the migrate DSN for the write database.
func ConnectionString(config *config.Config) string {
	extra := url.Values{}
	if table := config.DB.Postgres.MigrationTable; table != "" {
		extra.Set("x-migrations-table", table)
	}

	return config.DB.Postgres.Write.DSN(config.DB.Postgres.Prefix, extra)
}

func sourceURL(config *config.Config) string {
	path := config.DB.Postgres.MigrationPath
	if path == "" {
		path = "migrations/postgres"
	}

	return "file://" + path
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(sourceURL(config), ConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies action against the write database. args carries the version for "force".
func Runner(config *config.Config, action string, args ...string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")
	case ActionDown:
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")
	case ActionStepUp:
		if err := mig.Steps(1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")
	case ActionDrop:
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")
	case ActionVersion:
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current database migration version")
	case ActionForce:
		if len(args) == 0 {
			return fmt.Errorf("%w: force requires a version", ErrUnknownAction)
		}

		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid migration version %q: %w", args[0], err)
		}

		if err := mig.Force(version); err != nil {
			return fmt.Errorf("error forcing migration version: %w", err)
		}

		log.Warn().Int("version", version).Msg("Database migration version forced")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
