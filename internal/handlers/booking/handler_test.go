package booking

import (
	"net/http/httptest"
	"testing"

	"hostly/internal/domains/booking/model"
	"hostly/shared/date"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInWindow(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/bookings?check_in_from=2026-03-01&check_in_to=2026-03-31", nil)
		group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

		require.NoError(t, checkInWindow(r, &group))
		require.Len(t, group.Filters, 2)

		from := group.Filters[0].(gDto.Filter)
		assert.Equal(t, "check_in_from", from.ArgName)
		assert.Equal(t, model.FieldCheckIn, from.Field)
		assert.Equal(t, gDto.FilterOperatorGreaterEq, from.Operator)
		assert.Equal(t, date.New(2026, 3, 1), from.Value)

		to := group.Filters[1].(gDto.Filter)
		assert.Equal(t, gDto.FilterOperatorLessEq, to.Operator)
		assert.Equal(t, date.New(2026, 3, 31), to.Value)
	})

	t.Run("no bounds", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/bookings", nil)
		group := gDto.FilterGroup{}

		require.NoError(t, checkInWindow(r, &group))
		assert.Empty(t, group.Filters)
	})

	t.Run("malformed date", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/bookings?check_in_to=31-03-2026", nil)
		group := gDto.FilterGroup{}

		err := checkInWindow(r, &group)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "31-03-2026")
		assert.Equal(t, 400, failure.GetCode(err))
	})
}
