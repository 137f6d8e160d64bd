// Package dates is the single place day-keys are made and read.
// Every other package goes through it; nothing else parses dates.
package dates

import (
	"errors"
	"strings"
	"time"
)

// DayKeyLayout is the display/grouping key format.
const DayKeyLayout = "02-01-2006"

// sourceLayouts are tried in order when interpreting an appliedDate.
var sourceLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02-01-2006",
	"2006/01/02",
}

var ErrBadDayKey = errors.New("malformed day-key")

// ToDisplayKey converts a source date string into a DD-MM-YYYY day-key.
// Unparseable input yields "" so a bad record degrades to "unknown day"
// instead of killing the aggregation pass.
func ToDisplayKey(source string) string {
	s := strings.TrimSpace(source)
	if s == "" {
		return ""
	}
	// ISO datetimes carry the date in the first 10 chars
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format(DayKeyLayout)
		}
	}
	for _, layout := range sourceLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DayKeyLayout)
		}
	}
	return ""
}

// ToComparableDate reinterprets a day-key as a day-precision instant (UTC
// midnight). Round-trips with ToDisplayKey for any valid date.
func ToComparableDate(dayKey string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, strings.TrimSpace(dayKey))
	if err != nil {
		return time.Time{}, ErrBadDayKey
	}
	return t, nil
}

// Key formats an instant as a day-key.
func Key(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// Today returns the day-key for now's calendar day.
func Today(now time.Time) string {
	return now.Format(DayKeyLayout)
}
