package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIError is the error envelope every non-2xx JSON response uses. The
// request id echoes the X-Request-ID header so UI reports can be matched to
// the access log.
type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	if status >= 500 {
		log.Printf("level=error msg=\"request failed\" request_id=%s path=%s code=%s err=%q",
			e.Error.RequestID, r.URL.Path, code, message)
	}
	WriteJSON(w, status, e)
}
