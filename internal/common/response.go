package common

import (
	"encoding/json"
	"log"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithDomainError logs err with the operation that failed and writes the
// mapped status with a minimal message.
func RespondWithDomainError(w http.ResponseWriter, op string, err error) {
	status := HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s: %v", op, err)
	} else {
		log.Printf("WARN: %s: %v", op, err)
	}
	RespondWithError(w, status, PublicMessage(err))
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
