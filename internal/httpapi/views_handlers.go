package httpapi

import (
	"net/http"
	"time"

	"applyboard-engine/internal/config"
	"applyboard-engine/internal/dates"
	"applyboard-engine/internal/ribbon"
)

// ViewsHandler serves the read-only derived views: counters, the interview
// list, the deduplicated file list, and the date ribbon.
type ViewsHandler struct {
	Deps *Deps
}

func (h ViewsHandler) Counters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Deps.Sub.Derived().Counters(time.Now()))
}

func (h ViewsHandler) Interviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Deps.Sub.Derived().Interviews)
}

func (h ViewsHandler) Files(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Deps.Sub.Derived().Files)
}

// Ribbon returns the 7-day window around the pivot. shift=next|prev moves
// the pivot one day before the window is built; the response carries the
// new pivot so the UI can chain clicks.
func (h ViewsHandler) Ribbon(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pivot := time.Now()
	if raw := q.Get("pivot"); raw != "" {
		t, err := dates.ToComparableDate(raw)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_pivot", "pivot must be a DD-MM-YYYY day-key")
			return
		}
		pivot = t
	}

	nav := ribbon.New(pivot, leaveIntervals(h.Deps.Config()))
	switch q.Get("shift") {
	case "":
	case "next":
		nav.Next()
	case "prev":
		nav.Prev()
	default:
		WriteError(w, r, http.StatusBadRequest, "invalid_shift", "shift must be next or prev")
		return
	}

	writeJSON(w, map[string]any{
		"pivot":  nav.Pivot(),
		"window": nav.Window(),
	})
}

// leaveIntervals converts the configured leave spans to comparable dates.
// Entries validation already warned about are skipped rather than surfaced.
func leaveIntervals(cfg config.Config) []ribbon.Interval {
	var out []ribbon.Interval
	for _, l := range cfg.Leaves {
		fromKey, toKey := dates.ToDisplayKey(l.From), dates.ToDisplayKey(l.To)
		if fromKey == "" || toKey == "" {
			continue
		}
		from, err := dates.ToComparableDate(fromKey)
		if err != nil {
			continue
		}
		to, err := dates.ToComparableDate(toKey)
		if err != nil || to.Before(from) {
			continue
		}
		out = append(out, ribbon.Interval{From: from, To: to})
	}
	return out
}
