package date_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostly/shared/date"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    date.Date
		wantErr bool
	}{
		{name: "zero padded", input: "2024-02-10", want: date.New(2024, time.February, 10)},
		{name: "surrounding spaces", input: " 2024-02-29 ", want: date.New(2024, time.February, 29)},
		{name: "not a leap year", input: "2023-02-29", wantErr: true},
		{name: "missing padding", input: "2024-2-1", wantErr: true},
		{name: "garbage", input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := date.Parse(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, date.ErrInvalidDate)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	from := date.MustParse("2024-02-27")

	assert.Equal(t, 3, date.DaysBetween(from, date.MustParse("2024-03-01")))
	assert.Equal(t, -3, date.DaysBetween(date.MustParse("2024-03-01"), from))
	assert.Equal(t, 0, date.DaysBetween(from, from))
	assert.Equal(t, 366, date.DaysBetween(date.MustParse("2024-01-01"), date.MustParse("2025-01-01")))
}

func TestFromTimeIgnoresClock(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	late := time.Date(2024, time.March, 10, 23, 59, 0, 0, loc)

	assert.Equal(t, "2024-03-10", date.FromTime(late).String())
	assert.True(t, date.FromTime(time.Time{}).IsZero())
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, date.DaysInMonth(2024, time.February))
	assert.Equal(t, 28, date.DaysInMonth(2023, time.February))
	assert.Equal(t, 31, date.DaysInMonth(2024, time.December))
	assert.Equal(t, 30, date.DaysInMonth(2024, time.April))
}

func TestParseMonth(t *testing.T) {
	year, month, err := date.ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.February, month)

	_, _, err = date.ParseMonth("2024-13")
	assert.ErrorIs(t, err, date.ErrInvalidMonth)
}

func TestWithin(t *testing.T) {
	day := date.MustParse("2024-05-15")

	assert.True(t, day.Within(date.MustParse("2024-05-15"), date.MustParse("2024-05-15")))
	assert.True(t, day.Within(date.Date{}, date.Date{}))
	assert.False(t, day.Within(date.MustParse("2024-05-16"), date.Date{}))
	assert.False(t, day.Within(date.Date{}, date.MustParse("2024-05-14")))
}

func TestJSON(t *testing.T) {
	type payload struct {
		CheckIn  date.Date `json:"check_in"`
		CheckOut date.Date `json:"check_out"`
	}

	var got payload
	require.NoError(t, json.Unmarshal([]byte(`{"check_in":"2024-02-10","check_out":null}`), &got))
	assert.Equal(t, "2024-02-10", got.CheckIn.String())
	assert.True(t, got.CheckOut.IsZero())

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"2024-02-10","check_out":null}`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`{"check_in":"10/02/2024"}`), &got))
}

func TestScan(t *testing.T) {
	var d date.Date

	require.NoError(t, d.Scan(time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-07-04", d.String())

	require.NoError(t, d.Scan("2024-07-05T00:00:00Z"))
	assert.Equal(t, "2024-07-05", d.String())

	require.NoError(t, d.Scan([]byte("2024-07-06")))
	assert.Equal(t, "2024-07-06", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
