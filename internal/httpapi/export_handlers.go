package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"applyboard-engine/internal/dates"
	"applyboard-engine/internal/export"
	"applyboard-engine/internal/filter"
)

type ExportHandler struct {
	Deps *Deps
}

// Download serializes the currently filtered list to a workbook. The same
// query parameters as /applications select the rows; pagination never
// applies to an export.
func (h ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if lim := h.Deps.ExportLimiter; lim != nil && !lim.Allow() {
		WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "export requests are limited; retry shortly")
		return
	}

	state, err := parseFilterState(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	now := time.Now()
	d := h.Deps.Sub.Derived()
	results := filter.Apply(d.Flattened, d.DayBuckets, state, now)

	var buf bytes.Buffer
	if err := export.Write(&buf, results); err != nil {
		if errors.Is(err, export.ErrNoRows) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "export_error", err.Error())
		return
	}

	view, day := export.ViewGlobal, ""
	if !state.HasGlobal() {
		view = export.ViewSingleDay
		day = state.SelectedDay
		if day == "" {
			day = dates.Today(now)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(view, day, now)+`"`)
	_, _ = w.Write(buf.Bytes())
}
