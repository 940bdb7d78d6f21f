package timezone_test

import (
	"testing"
	"time"

	"hostly/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty is UTC", func(t *testing.T) {
		loc, err := timezone.Load("")

		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("IANA name", func(t *testing.T) {
		loc, err := timezone.Load("Asia/Jakarta")

		require.NoError(t, err)
		assert.Equal(t, "Asia/Jakarta", loc.String())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := timezone.Load("Mars/Olympus_Mons")

		assert.Error(t, err)
	})
}

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.Equal(t, timezone.Location(), now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestFormat(t *testing.T) {
	instant := time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t,
		instant.In(timezone.Location()).Format(time.RFC3339),
		timezone.Format(instant, time.RFC3339),
	)
}
