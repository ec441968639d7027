// Package handler exposes the protocol pipeline over plain JSON HTTP
// endpoints.
package handler

import (
	"log"
	"net/http"

	"riskprotocol/internal/util/jsonutil"
)

// writeJSON encodes without HTML escaping; sanitized emphasis spans and
// protocol text must survive the trip untouched.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
