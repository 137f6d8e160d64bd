package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"applyboard-engine/internal/config"
	"applyboard-engine/internal/dates"
	"applyboard-engine/internal/domain"
	"applyboard-engine/internal/events"
	"applyboard-engine/internal/paginate"
	"applyboard-engine/internal/snapshot"
	"applyboard-engine/internal/store"
)

func testDeps(t *testing.T) (*Deps, *http.ServeMux) {
	t.Helper()

	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	sub := snapshot.NewSubscriber(func(ctx context.Context) ([]domain.ServiceRegistration, error) {
		return store.LoadSnapshot(ctx, db.Pool)
	})
	refreshed := make(chan struct{}, 16)
	sub.OnRefresh = func() { refreshed <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(sub.Close)
	go sub.Run(ctx)
	<-refreshed

	var cfg config.Config
	cfg.App.Port = 38472
	cfg.Display.PageSize = 5
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	d := &Deps{
		DB:            db.Pool,
		Hub:           events.NewHub(),
		Sub:           sub,
		CfgVal:        &cfgVal,
		UserCfgPath:   filepath.Join(dir, "config.yml"),
		UIStatePath:   filepath.Join(dir, "uistate.yml"),
		LoadCfg:       func() (config.Config, error) { return cfg, nil },
		ExportLimiter: rate.NewLimiter(rate.Inf, 1),
	}

	go func() {
		for range refreshed {
		}
	}()

	return d, NewMux(d)
}

func seedApplications(t *testing.T, d *Deps, apps ...domain.JobApplication) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.EnsureRegistration(ctx, d.DB, "reg-a", "premium"))
	for _, a := range apps {
		added, err := store.InsertApplication(ctx, d.DB, "reg-a", a)
		require.NoError(t, err)
		require.True(t, added)
	}
	d.Sub.Notify()
	waitForCount(t, d, len(apps))
}

func waitForCount(t *testing.T, d *Deps, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(d.Sub.Derived().Flattened) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("derived state never reached %d applications", n)
}

func getPage(t *testing.T, mux *http.ServeMux, url string) paginate.Page {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p paginate.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestListFiltersAndPaginates(t *testing.T) {
	d, mux := testDeps(t)

	today := dates.Today(time.Now())
	day, err := dates.ToComparableDate(today)
	require.NoError(t, err)
	iso := day.Format("2006-01-02")

	seedApplications(t, d,
		domain.JobApplication{ID: "a1", JobTitle: "Backend Engineer", Company: "Acme",
			JobBoards: "LinkedIn", AppliedDate: iso, Status: domain.StatusApplied},
		domain.JobApplication{ID: "a2", JobTitle: "SRE", Company: "Globex",
			JobBoards: "Indeed", AppliedDate: iso, Status: domain.StatusInterview},
	)

	// no filters: today's bucket
	p := getPage(t, mux, "/applications")
	assert.Equal(t, 2, p.TotalItems)

	// company filter narrows to the global pool then to Acme
	p = getPage(t, mux, "/applications?companies=Acme")
	require.Equal(t, 1, p.TotalItems)
	assert.Equal(t, "a1", p.Items[0].ID)

	// invalid range is rejected
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/applications?from=2024-05-02&to=2024-05-01", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPageResetOnFilterChange(t *testing.T) {
	d, mux := testDeps(t)

	apps := make([]domain.JobApplication, 7)
	for i := range apps {
		apps[i] = domain.JobApplication{
			ID: "a" + string(rune('1'+i)), JobTitle: "Engineer", Company: "Acme",
			JobBoards: "LinkedIn", AppliedDate: "2024-05-01", Status: domain.StatusApplied,
		}
	}
	seedApplications(t, d, apps...)

	// same filter: page 2 honored
	_ = getPage(t, mux, "/applications?companies=Acme")
	p := getPage(t, mux, "/applications?companies=Acme&page=2")
	assert.Equal(t, 2, p.CurrentPage)
	assert.Len(t, p.Items, 2)

	// changed filter: requested page ignored, back to 1
	p = getPage(t, mux, "/applications?search=engineer&page=2")
	assert.Equal(t, 1, p.CurrentPage)
	assert.NotEmpty(t, p.Items)
}

func TestCreateAndDelete(t *testing.T) {
	d, mux := testDeps(t)

	body := `{"registrationKey":"reg-a","service":"premium","application":{
		"id":"app-1","jobTitle":"Backend Engineer","company":"Acme",
		"appliedDate":"2024-05-01","jobBoards":"LinkedIn","status":"Interview"}}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	waitForCount(t, d, 1)

	// duplicate id conflicts
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// shows up in the interview view
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interviews", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var interviews []domain.JobApplication
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &interviews))
	require.Len(t, interviews, 1)
	assert.Equal(t, "app-1", interviews[0].ID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/applications/app-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(d.Sub.Derived().Flattened) != 0 {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Empty(t, d.Sub.Derived().Flattened)
}

func TestRibbonEndpoint(t *testing.T) {
	_, mux := testDeps(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ribbon?pivot=15-05-2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pivot  string `json:"pivot"`
		Window []struct {
			DayKey string `json:"dayKey"`
		} `json:"window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "15-05-2024", resp.Pivot)
	require.Len(t, resp.Window, 7)
	assert.Equal(t, "12-05-2024", resp.Window[0].DayKey)

	// shifting moves the pivot one day
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ribbon?pivot=15-05-2024&shift=next", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "16-05-2024", resp.Pivot)
	assert.Equal(t, "13-05-2024", resp.Window[0].DayKey)
}

func TestExportEmptyIsNoContent(t *testing.T) {
	_, mux := testDeps(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export?companies=Nowhere", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportDownload(t *testing.T) {
	d, mux := testDeps(t)
	seedApplications(t, d, domain.JobApplication{
		ID: "a1", JobTitle: "Backend Engineer", Company: "Acme",
		JobBoards: "LinkedIn", AppliedDate: "2024-05-01", Status: domain.StatusApplied,
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export?companies=Acme", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "applications-all-")
	assert.NotZero(t, rec.Body.Len())
}

func TestUIStateRoundTrip(t *testing.T) {
	_, mux := testDeps(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uistate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "applications")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/uistate",
		strings.NewReader(`{"active_tab":"interviews"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uistate", nil))
	assert.Contains(t, rec.Body.String(), "interviews")
}
