package beanlog

import (
	"errors"
	"strings"
	"time"
)

// TimestampLayout renders instants the way browsers' Date.toISOString does.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrBadDate is returned for values that are neither YYYY-MM-DD nor RFC 3339.
var ErrBadDate = errors.New("invalid date")

// ParseCalendarDate reads a date-only or RFC 3339 value and returns midnight
// UTC of the calendar date as written. The time-of-day and offset of RFC 3339
// input are discarded, so the date never shifts across a day boundary.
func ParseCalendarDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if len(v) == len(DateLayout) {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return time.Time{}, ErrBadDate
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseTimestamp reads an RFC 3339 instant and returns it in UTC.
func ParseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t.UTC(), nil
}

// FormatTimestamp renders t in UTC with millisecond precision. The zero time
// renders as the empty string.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

var dateFields = []string{FieldPurchaseDate, FieldRoastDate, FieldExpDate}
