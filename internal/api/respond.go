package api

import (
	"encoding/json"
	"net/http"

	"github.com/baleframe/baleframe/pkg/errors"
)

type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a coded error onto an HTTP status and a structured
// body. Validation failures are the caller's fault, missing records are
// 404, the rest is on us.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorBody{Error: errorInfo{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}})
}
