package endpoints

import (
	"encoding/json"
	"net/http"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError writes the {"error": ...} shape used by the customer
// administration API.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{"error": message})
}

// respondFailure writes the {"status": "failure", ...} shape used by the
// webhook endpoints.
func respondFailure(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"status":  "failure",
		"message": message,
	})
}

// respondAPIError writes the {"status": "error", ...} shape used by the
// storefront validation API.
func respondAPIError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}
