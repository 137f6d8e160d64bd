package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"applyboard-engine/internal/dates"
	"applyboard-engine/internal/domain"
	"applyboard-engine/internal/events"
	"applyboard-engine/internal/filter"
	"applyboard-engine/internal/paginate"
	"applyboard-engine/internal/store"
)

type ApplicationsHandler struct {
	Deps *Deps
}

// parseFilterState reads the filter dimensions off the query string.
// Membership sets are comma separated; range bounds accept anything the
// date formatter understands.
func parseFilterState(r *http.Request) (filter.State, error) {
	q := r.URL.Query()

	s := filter.State{
		SearchTerm:  q.Get("search"),
		Websites:    splitCSV(q.Get("websites")),
		Positions:   splitCSV(q.Get("positions")),
		Companies:   splitCSV(q.Get("companies")),
		SelectedDay: q.Get("day"),
	}

	if from := q.Get("from"); from != "" {
		t, err := parseBound(from)
		if err != nil {
			return filter.State{}, err
		}
		s.Range.Start = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := parseBound(to)
		if err != nil {
			return filter.State{}, err
		}
		s.Range.End = &t
	}
	return s, s.Validate()
}

func parseBound(raw string) (time.Time, error) {
	key := dates.ToDisplayKey(raw)
	if key == "" {
		return time.Time{}, dates.ErrBadDayKey
	}
	return dates.ToComparableDate(key)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// List runs the filter and pagination chain over the current derived state.
// When the submitted filter differs from the previous one the requested page
// is ignored and page 1 served; a page flip under an unchanged filter is
// honored as asked.
func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	fp := state.Fingerprint()
	if prev, ok := h.Deps.lastFilter.Load().(string); !ok || prev != fp {
		page = 1
	}
	h.Deps.lastFilter.Store(fp)

	d := h.Deps.Sub.Derived()
	results := filter.Apply(d.Flattened, d.DayBuckets, state, time.Now())

	pageSize := h.Deps.Config().Display.PageSize
	writeJSON(w, paginate.Slice(results, pageSize, page))
}

type createApplicationRequest struct {
	RegistrationKey string                `json:"registrationKey"`
	Service         string                `json:"service"`
	Application     domain.JobApplication `json:"application"`
}

func (h ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req createApplicationRequest
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	app := req.Application
	if app.ID == "" || app.JobTitle == "" || app.Company == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "id, jobTitle and company are required")
		return
	}
	if req.RegistrationKey == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "registrationKey is required")
		return
	}
	if app.Status == "" {
		app.Status = domain.StatusApplied
	}

	ctx := r.Context()
	if err := store.EnsureRegistration(ctx, h.Deps.DB, req.RegistrationKey, req.Service); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	added, err := store.InsertApplication(ctx, h.Deps.DB, req.RegistrationKey, app)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if !added {
		WriteError(w, r, http.StatusConflict, "duplicate_id", "an application with this id already exists")
		return
	}

	reqID := RequestIDFrom(ctx)
	h.Deps.Sub.Notify()
	h.Deps.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationCreated, 1, map[string]any{"id": app.ID}))
	WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": app.ID})
}

func (h ApplicationsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/applications/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid application id")
		return
	}

	if err := store.DeleteApplication(r.Context(), h.Deps.DB, id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Deps.Sub.Notify()
	h.Deps.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationDeleted, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
