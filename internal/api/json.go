package api

import (
	"encoding/json"
	"net/http"

	"gpsnav-vrp/internal/vrperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorEnvelope is the wire shape of §6/§7's error contract:
// {error, message, details?}.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// writeError renders err as the error envelope, mapping vrperr.Error kinds
// to their status code and folding any other error into Internal so no
// implementation detail leaks in message, per §7's 5xx rule.
func writeError(w http.ResponseWriter, err error) {
	e := vrperr.As(err)
	writeJSON(w, e.Kind.Status(), errorEnvelope{
		Error:   string(e.Kind),
		Message: e.Message,
		Details: e.Details,
	})
}
