// Package date parses and formats the moments at which bitcoin transactions
// and price samples happen.
//
// Transaction dates are typed by hand (or come from a browser form) and are
// not normalized to a time zone: anything without an explicit offset is read
// as UTC.
package date

import (
	"fmt"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// TimeFormat is the format used for dates carrying a time of day.
const TimeFormat = "2006-01-02T15:04:05"

// readFormats are tried in order by Parse. The permissive "2006-1-2" accepts
// "2025-7-1" instead of "2025-07-01".
var readFormats = []string{
	time.RFC3339Nano,
	TimeFormat,
	"2006-01-02T15:04", // html datetime-local
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2",
}

// Parse parses a transaction date. It is lenient and accepts a plain day,
// a day with a time of day, or a full RFC3339 timestamp.
func Parse(str string) (time.Time, error) {
	for _, layout := range readFormats {
		on, err := time.ParseInLocation(layout, str, time.UTC)
		if err == nil {
			return on, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q want format %q or %q", str, DateFormat, time.RFC3339)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) time.Time {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Format returns the canonical representation of t: a plain day when t is at
// midnight UTC, a full RFC3339 timestamp otherwise.
func Format(t time.Time) string {
	if t.Location() == time.UTC && t.Equal(StartOfDay(t)) {
		return t.Format(DateFormat)
	}
	return t.Format(time.RFC3339)
}

// LabelFormat is used for series points sampled more than once a day.
const LabelFormat = "2006-01-02 15:04"

// Label formats t as a day, the way daily series points are labelled.
func Label(t time.Time) string { return t.Format(DateFormat) }

// LabelTime formats t as a day and a time of day, for intraday series.
func LabelTime(t time.Time) string { return t.Format(LabelFormat) }

// StartOfDay returns midnight of t's day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns midnight UTC of the current day.
func Today() time.Time { return StartOfDay(time.Now().UTC()) }

// FromMillis converts a unix timestamp in milliseconds, the way market data
// APIs encode time, into a UTC time.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
