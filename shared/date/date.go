// Package date provides a calendar-day value type.
//
// A Date carries no clock or zone: it is stored as midnight UTC so that
// comparisons and day differences are exact regardless of the application
// timezone. Convert wall-clock instants with FromTime (or Today) before
// comparing them against booking dates.
package date

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hostly/shared/timezone"
)

const (
	Layout      = "2006-01-02"
	MonthLayout = "2006-01"

	hoursPerDay = 24
)

var (
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")
)

type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock part of t as observed in t's own location.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}

	year, month, day := t.Date()

	return New(year, month, day)
}

// Today returns the current day in the application timezone.
func Today() Date {
	return FromTime(timezone.Now())
}

func Parse(value string) (Date, error) {
	parsed, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	return FromTime(parsed), nil
}

func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return d
}

// ParseMonth parses "YYYY-MM" and returns the year and month.
func ParseMonth(value string) (int, time.Month, error) {
	parsed, err := time.Parse(MonthLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonth, value)
	}

	return parsed.Year(), parsed.Month(), nil
}

// DaysInMonth handles leap years through normalisation of day 0 of the next month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func FirstOfMonth(year int, month time.Month) Date {
	return New(year, month, 1)
}

func LastOfMonth(year int, month time.Month) Date {
	return New(year, month, DaysInMonth(year, month))
}

// DaysBetween returns to - from in whole days. It is negative when to is before from.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / hoursPerDay)
}

func (d Date) Year() int { return d.t.Year() }

func (d Date) Month() time.Month { return d.t.Month() }

func (d Date) Day() int { return d.t.Day() }

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) AddDays(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// Within reports whether d lies in the closed range [from, to]. A zero bound is open.
func (d Date) Within(from, to Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}

	if !to.IsZero() && d.After(to) {
		return false
	}

	return true
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.t.Format(Layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}

		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}

	if value == "" {
		*d = Date{}

		return nil
	}

	parsed, err := Parse(value)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil //nolint:nilnil
	}

	return d.t, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = FromTime(value)
	case string:
		parsed, err := Parse(firstN(value, len(Layout)))
		if err != nil {
			return err
		}

		*d = parsed
	case []byte:
		parsed, err := Parse(firstN(string(value), len(Layout)))
		if err != nil {
			return err
		}

		*d = parsed
	default:
		return fmt.Errorf("cannot scan %T into date.Date", src)
	}

	return nil
}

func firstN(value string, n int) string {
	if len(value) > n {
		return value[:n]
	}

	return value
}
