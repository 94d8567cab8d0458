package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"kirana/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]interface{}{"status": false, "message": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SendError maps a domain error to its HTTP status and the
// {status, message} body shape.
func SendError(w http.ResponseWriter, err error) {
	code := apperr.StatusOf(err)
	if code == http.StatusInternalServerError {
		log.Println("internal error:", err)
		RespondWithError(w, code, "Something went wrong")
		return
	}
	RespondWithError(w, code, err.Error())
}

type M map[string]interface{}
