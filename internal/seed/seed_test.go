package seed_test

import (
	"testing"

	"hostly/config"
	"hostly/internal/seed"
	"hostly/shared/date"
	"hostly/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingsAreConsistent(t *testing.T) {
	today := date.MustParse("2024-02-10")

	rooms := map[string]string{}
	for _, room := range seed.Rooms() {
		rooms[room.ID] = room.PropertyID
	}

	properties := map[string]bool{}
	for _, property := range seed.Properties() {
		properties[property.ID] = true
	}

	for _, booking := range seed.Bookings(today) {
		assert.True(t, booking.CheckIn.Before(booking.CheckOut), booking.ID)
		assert.Equal(t, booking.Nights, date.DaysBetween(booking.CheckIn, booking.CheckOut), booking.ID)
		assert.Equal(t, booking.PropertyID, rooms[booking.RoomID], booking.ID)
		assert.True(t, properties[booking.PropertyID], booking.ID)
	}
}

func TestUsersSeedsConfiguredAdmin(t *testing.T) {
	cfg := &config.Config{}
	assert.Empty(t, seed.Users(cfg))

	cfg.App.Admin.Email = "admin@hostly.test"
	cfg.App.Admin.Password = "change-me-now"

	users := seed.Users(cfg)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@hostly.test", users[0].Email)
	assert.NoError(t, password.Verify("change-me-now", users[0].Password))
}
