// Package filter evaluates the compound dashboard filter against the
// aggregated views. Pure with respect to its inputs: the state and the
// collections are never mutated.
package filter

import (
	"strings"
	"time"

	"applyboard-engine/internal/dates"
	"applyboard-engine/internal/domain"
)

// Apply selects the base set by precedence and runs the predicate over it.
//
// Precedence: any global dimension active (range bound, search term, or a
// non-empty membership set) -> the full flattened pool; else a selected day
// -> that day's bucket; else today's bucket. Output keeps the base set's
// order - a stable filter, no re-sorting.
func Apply(flattened []domain.FlattenedApplication, buckets map[string][]domain.FlattenedApplication, s State, now time.Time) []domain.FlattenedApplication {
	var base []domain.FlattenedApplication
	switch {
	case s.HasGlobal():
		base = flattened
	case s.SelectedDay != "":
		base = buckets[s.SelectedDay]
	default:
		base = buckets[dates.Today(now)]
	}

	term := strings.ToLower(strings.TrimSpace(s.SearchTerm))

	out := make([]domain.FlattenedApplication, 0, len(base))
	for _, app := range base {
		if !member(s.Websites, app.Website) {
			continue
		}
		if !member(s.Positions, app.Position) {
			continue
		}
		if !member(s.Companies, app.Company) {
			continue
		}
		if !matchesSearch(term, app) {
			continue
		}
		if !inRange(s.Range, app.DateAdded) {
			continue
		}
		out = append(out, app)
	}
	return out
}

// member is the empty-set-matches-everything membership rule.
func member(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func matchesSearch(term string, app domain.FlattenedApplication) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{app.Website, app.Position, app.Company, app.Description} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// inRange treats an unset bound as unconstrained on that side. A record
// without a day-key cannot fall inside a bounded range.
func inRange(r DateRange, dayKey string) bool {
	if r.Start == nil && r.End == nil {
		return true
	}
	day, err := dates.ToComparableDate(dayKey)
	if err != nil {
		return false
	}
	if r.Start != nil && day.Before(startOfDay(*r.Start)) {
		return false
	}
	if r.End != nil && day.After(endOfDay(*r.End)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}
