package repository_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostly/infras/otel/mocks"
	"hostly/internal/domains/booking/model"
	"hostly/internal/domains/booking/repository"
	"hostly/shared/date"
	"hostly/shared/failure"
)

func stay(id, room string, checkIn, checkOut date.Date) model.Booking {
	return model.Booking{ID: id, RoomID: room, CheckIn: checkIn, CheckOut: checkOut, Status: model.StatusPending}
}

func TestInsertAvailable(t *testing.T) {
	today := date.Today()

	tests := []struct {
		name         string
		room         string
		from, to     int
		wantConflict bool
	}{
		{name: "check-in on previous check-out", room: "RM-101", from: 2, to: 4},
		{name: "intersects in-house stay", room: "RM-101", from: 1, to: 3, wantConflict: true},
		{name: "check-out on next check-in", room: "RM-101", from: 7, to: 9},
		{name: "covers pending stay", room: "RM-101", from: 8, to: 12, wantConflict: true},
		{name: "cancelled stays are free", room: "RM-301", from: 12, to: 14},
		{name: "other room", room: "RM-999", from: 0, to: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.New(nil, mocks.NewOtel())

			err := repo.InsertAvailable(context.Background(), stay("BK-NEW", tt.room, today.AddDays(tt.from), today.AddDays(tt.to)))
			if tt.wantConflict {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestInsertAvailable_ConcurrentRequests(t *testing.T) {
	repo := repository.New(nil, mocks.NewOtel())
	checkIn := date.Today().AddDays(40)

	var (
		wg       sync.WaitGroup
		inserted atomic.Int32
	)

	for i := range 64 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// every request shares the night of checkIn+1 with every other
			offset := i % 2
			booking := stay(fmt.Sprintf("BK-C%02d", i), "RM-102", checkIn.AddDays(offset), checkIn.AddDays(offset+2))

			if err := repo.InsertAvailable(context.Background(), booking); err == nil {
				inserted.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), inserted.Load())
}
