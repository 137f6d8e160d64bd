// Package ribbon maintains the 7-day strip of day-keys the UI uses to drive
// the single-day view.
package ribbon

import (
	"time"

	"applyboard-engine/internal/dates"
)

// Entry is one day in the window. OnLeave is presentation metadata only; it
// never changes which records a day shows.
type Entry struct {
	DayKey  string `json:"dayKey"`
	Weekday string `json:"weekday"`
	OnLeave bool   `json:"onLeave"`
}

// Interval is an inclusive employee-leave span, day precision.
type Interval struct {
	From time.Time
	To   time.Time
}

type Navigator struct {
	pivot  time.Time
	leaves []Interval
}

func New(pivot time.Time, leaves []Interval) *Navigator {
	return &Navigator{pivot: day(pivot), leaves: leaves}
}

// Window returns pivot-3 through pivot+3 in ascending order.
func (n *Navigator) Window() []Entry {
	out := make([]Entry, 0, 7)
	for off := -3; off <= 3; off++ {
		d := n.pivot.AddDate(0, 0, off)
		out = append(out, Entry{
			DayKey:  dates.Key(d),
			Weekday: d.Weekday().String()[:3],
			OnLeave: n.onLeave(d),
		})
	}
	return out
}

// Next moves the pivot forward one day. The window scrolls by a single day
// per step even though seven days are visible; that is the intended feel.
func (n *Navigator) Next() { n.pivot = n.pivot.AddDate(0, 0, 1) }

// Prev moves the pivot back one day.
func (n *Navigator) Prev() { n.pivot = n.pivot.AddDate(0, 0, -1) }

func (n *Navigator) Pivot() string { return dates.Key(n.pivot) }

func (n *Navigator) onLeave(d time.Time) bool {
	for _, iv := range n.leaves {
		if !d.Before(day(iv.From)) && !d.After(day(iv.To)) {
			return true
		}
	}
	return false
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
