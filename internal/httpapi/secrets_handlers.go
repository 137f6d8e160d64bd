package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"applyboard-engine/internal/secrets"
)

// SecretsHandler writes the IMAP app password into the OS keychain; it is
// never persisted in the config file.
type SecretsHandler struct {
	Deps *Deps
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(body.Password) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_password", "password is required")
		return
	}

	account := secrets.IMAPKeyringAccount(h.Deps.Config())
	if err := secrets.SetIMAPPassword(account, body.Password); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
