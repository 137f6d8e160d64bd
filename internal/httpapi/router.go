package httpapi

import (
	"net/http"
	"time"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs
// srv+token).
func NewMux(d *Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Applications
	ah := ApplicationsHandler{Deps: d}
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ah.List,
		http.MethodPost: ah.Create,
	}))
	mux.HandleFunc("/applications/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: ah.DeleteByPath, // expects /applications/{id}
	}))

	// Derived views
	vh := ViewsHandler{Deps: d}
	mux.HandleFunc("/counters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: vh.Counters,
	}))
	mux.HandleFunc("/interviews", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: vh.Interviews,
	}))
	mux.HandleFunc("/files", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: vh.Files,
	}))
	mux.HandleFunc("/ribbon", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: vh.Ribbon,
	}))

	// Export
	xh := ExportHandler{Deps: d}
	mux.HandleFunc("/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: xh.Download,
	}))

	// Config + UI state
	ch := ConfigHandler{Deps: d}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/uistate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.GetUIState,
		http.MethodPut: ch.PutUIState,
	}))

	// Secrets (reads cfgVal, never a snapshot cfg)
	sh := SecretsHandler{Deps: d}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
		},
	}))

	return mux
}
