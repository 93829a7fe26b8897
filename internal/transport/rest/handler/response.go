package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/model"
)

// respond sends payload as a JSON response.
func respond(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("can't marshal the given payload: %v", err), http.StatusInternalServerError)
		logger.Error(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(body); err != nil {
		logger.Error(fmt.Errorf("can't write response: %w", err))
	}
}

// respondErr sends {"error": message}.
func respondErr(w http.ResponseWriter, code int, message string) {
	respond(w, code, model.ErrorResponse{Error: message})
}
