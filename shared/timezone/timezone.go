// Package timezone pins wall-clock time to APP_TIMEZONE, so "today" for
// calendars, refunds and reports means the same day for every request.
package timezone

import (
	"fmt"
	"time"

	"hostly/config"

	"github.com/rs/zerolog/log"
)

var appLocation = time.UTC

func init() {
	loc, err := Load(config.Get().App.Timezone)
	if err != nil {
		log.Error().Err(err).Msg("Falling back to UTC, use an IANA name such as 'Asia/Jakarta'")

		return
	}

	appLocation = loc

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// Load resolves an IANA zone name. An empty name is UTC.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	return loc, nil
}

func Location() *time.Location {
	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation)
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(appLocation).Format(layout)
}
