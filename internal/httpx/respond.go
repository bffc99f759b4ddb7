package httpx

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// The SPA frontends branch exclusively on the success field, so domain
// failures go out as HTTP 200 with success:false rather than error status
// codes.
func ok(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func fail(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, "invalid json")
		return false
	}
	return true
}
